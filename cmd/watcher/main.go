package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/datdenkikniet/Peroxidecast/internal/api"
	"github.com/datdenkikniet/Peroxidecast/internal/config"
	database "github.com/datdenkikniet/Peroxidecast/internal/db"
	"github.com/datdenkikniet/Peroxidecast/internal/mirror"
	"github.com/datdenkikniet/Peroxidecast/internal/snapshot"
	"github.com/datdenkikniet/Peroxidecast/internal/watch"
)

func main() {
	// 1. Parse Flags
	serverURL := flag.String("server", "", "Override station base URL to poll")
	pollingInterval := flag.Int("interval", 0, "Override polling interval in seconds")
	dashboardAddr := flag.String("dashboard", "", "Override dashboard listen address")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env before the config reads the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// 2. Load Config
	cfg := config.Load()

	// 3. Apply Flag Overrides
	if *serverURL != "" {
		cfg.Watcher.ServerURL = *serverURL
	}
	if *pollingInterval > 0 {
		cfg.Watcher.PollingInterval = *pollingInterval
	}
	if *dashboardAddr != "" {
		cfg.Watcher.DashboardAddr = *dashboardAddr
	}

	log.Println("🚀 Starting Peroxidecast watcher...")

	// 4. Init Infrastructure
	db := database.New(cfg)
	db.AutoMigrate()

	// 5. Metrics
	watch.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Watcher.MetricsPort)
		if err := http.ListenAndServe(cfg.Watcher.MetricsPort, nil); err != nil {
			log.Printf("❌ Metrics server failed: %v", err)
		}
	}()

	// 6. Wire the reconciler
	panel := watch.NewPanel(cfg.Watcher.PageScheme, watch.RealClock{})
	poller := watch.NewPoller(cfg.Watcher.ServerURL)
	recorder := watch.NewRecorder(db.DB, watch.RealClock{})

	var sinks []watch.Sink
	if m := mirror.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); m != nil {
		sinks = append(sinks, m)
	}
	if p := snapshot.New(cfg); p != nil {
		sinks = append(sinks, p)
	}

	// 7. Dashboard + API
	srv := api.New(cfg, panel, recorder)
	go func() {
		if err := srv.Start(cfg.Watcher.DashboardAddr); err != nil {
			log.Fatalf("❌ Dashboard server failed: %v", err)
		}
	}()

	// 8. Poll until interrupted
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher := watch.NewWatcher(cfg, poller, panel, recorder, sinks...)
	watcher.Run(ctx)
}
