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

	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/station"
)

func main() {
	// 1. Parse Flags
	listenAddr := flag.String("listen", "", "Override station listen address")
	mountsFile := flag.String("mounts", "", "Override path to the mounts YAML file")
	allowUnauthenticated := flag.Bool("allow-unauthenticated", false, "Accept sources without credentials")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env before the config reads the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// 2. Load Config
	cfg := config.Load()

	// 3. Apply Flag Overrides
	if *listenAddr != "" {
		cfg.Station.ListenAddr = *listenAddr
	}
	if *mountsFile != "" {
		cfg.Station.MountsFile = *mountsFile
	}
	if *allowUnauthenticated {
		cfg.Station.AllowUnauthenticated = true
	}

	log.Println("🚀 Starting Peroxidecast station...")

	// 4. Metrics
	station.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Station.MetricsPort)
		if err := http.ListenAndServe(cfg.Station.MetricsPort, nil); err != nil {
			log.Printf("❌ Metrics server failed: %v", err)
		}
	}()

	// 5. Serve until interrupted
	srv, err := station.New(cfg)
	if err != nil {
		log.Fatalf("❌ Station setup failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("❌ Station failed: %v", err)
	}
	log.Println("👋 Station stopped")
}
