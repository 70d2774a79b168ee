package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Station struct {
		ListenAddr           string `mapstructure:"listen_addr"`
		AdminAuth            string `mapstructure:"admin_auth"`
		JWTSecret            string `mapstructure:"jwt_secret"`
		AllowUnauthenticated bool   `mapstructure:"allow_unauthenticated_mounts"`
		StaticDir            string `mapstructure:"static_dir"`
		FallbackDir          string `mapstructure:"fallback_dir"`
		StreamURLStrategy    string `mapstructure:"stream_url_strategy"`
		StreamURLStatic      string `mapstructure:"stream_url_static"`
		MountsFile           string `mapstructure:"mounts_file"`
		MetricsPort          string `mapstructure:"metrics_port"`
	} `mapstructure:"station"`
	Watcher struct {
		ServerURL       string `mapstructure:"server_url"`
		PollingInterval int    `mapstructure:"polling_interval_seconds"`
		PageScheme      string `mapstructure:"page_scheme"`
		DashboardAddr   string `mapstructure:"dashboard_addr"`
		MetricsPort     string `mapstructure:"metrics_port"`
		HistoryLimit    int    `mapstructure:"history_limit"`
	} `mapstructure:"watcher"`
	Database struct {
		Provider string `mapstructure:"provider"`
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Snapshot struct {
		Provider string `mapstructure:"provider"`
		Dir      string `mapstructure:"dir"`
		Endpoint string `mapstructure:"endpoint"`
		Region   string `mapstructure:"region"`
		KeyID    string `mapstructure:"key_id"`
		AppKey   string `mapstructure:"app_key"`
		Bucket   string `mapstructure:"bucket"`
		Prefix   string `mapstructure:"prefix"`
	} `mapstructure:"snapshot"`
}

func Load() *Config {
	viper.SetEnvPrefix("CAST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("station.listen_addr")
	viper.BindEnv("station.admin_auth")
	viper.BindEnv("station.jwt_secret")
	viper.BindEnv("station.allow_unauthenticated_mounts")
	viper.BindEnv("station.static_dir")
	viper.BindEnv("station.fallback_dir")
	viper.BindEnv("station.stream_url_strategy")
	viper.BindEnv("station.stream_url_static")
	viper.BindEnv("station.mounts_file")
	viper.BindEnv("station.metrics_port")

	// Watcher Config Bindings
	viper.BindEnv("watcher.server_url")
	viper.BindEnv("watcher.polling_interval_seconds")
	viper.BindEnv("watcher.page_scheme")
	viper.BindEnv("watcher.dashboard_addr")
	viper.BindEnv("watcher.metrics_port")
	viper.BindEnv("watcher.history_limit")

	// Register Database keys
	viper.BindEnv("database.provider")
	viper.BindEnv("database.path")
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")

	// Redis
	viper.BindEnv("redis.addr")
	viper.BindEnv("redis.password")
	viper.BindEnv("redis.db")

	// Snapshot publishing
	viper.BindEnv("snapshot.provider")
	viper.BindEnv("snapshot.dir")
	viper.BindEnv("snapshot.endpoint")
	viper.BindEnv("snapshot.region")
	viper.BindEnv("snapshot.key_id")
	viper.BindEnv("snapshot.app_key")
	viper.BindEnv("snapshot.bucket")
	viper.BindEnv("snapshot.prefix")

	// Station Defaults
	viper.SetDefault("station.listen_addr", ":8000")
	viper.SetDefault("station.allow_unauthenticated_mounts", false)
	viper.SetDefault("station.stream_url_strategy", "hostname")
	viper.SetDefault("station.mounts_file", "mounts.yaml")
	viper.SetDefault("station.metrics_port", ":9091")

	// Watcher Defaults
	viper.SetDefault("watcher.server_url", "http://localhost:8000")
	viper.SetDefault("watcher.polling_interval_seconds", 10)
	viper.SetDefault("watcher.page_scheme", "http")
	viper.SetDefault("watcher.dashboard_addr", ":8080")
	viper.SetDefault("watcher.metrics_port", ":9092")
	viper.SetDefault("watcher.history_limit", 100)

	// Database Defaults (embedded sqlite unless postgres is asked for)
	viper.SetDefault("database.provider", "sqlite")
	viper.SetDefault("database.path", "peroxidecast.db")
	viper.SetDefault("database.port", "5432")

	// Redis is optional: empty addr disables the mirror
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)

	// Snapshot Defaults
	viper.SetDefault("snapshot.provider", "none")
	viper.SetDefault("snapshot.dir", "./public")
	viper.SetDefault("snapshot.prefix", "status/")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Snapshot.Provider == "s3" && cfg.Snapshot.KeyID == "" {
		log.Fatal("Critical: Snapshot KeyID is missing (CAST_SNAPSHOT_KEY_ID)")
	}

	return &cfg
}
