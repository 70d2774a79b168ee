package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/datdenkikniet/Peroxidecast/internal/config"
	"github.com/datdenkikniet/Peroxidecast/internal/models"
)

type Client struct {
	DB *gorm.DB
}

// New connects using the configured provider. The default is an embedded
// sqlite file so the watcher runs with zero infrastructure; postgres is for
// multi-instance setups.
func New(cfg *config.Config) *Client {
	var (
		db  *gorm.DB
		err error
	)

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	switch cfg.Database.Provider {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
		)
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormCfg)
	default:
		log.Fatalf("❌ Unknown database provider: %q", cfg.Database.Provider)
	}
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	// Connection Pool Settings
	sqlDB, _ := db.DB()
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("✅ Database Connected")

	return &Client{DB: db}
}

// AutoMigrate creates/updates tables based on struct definitions
func (c *Client) AutoMigrate() {
	log.Println("Running Database Migrations...")
	err := c.DB.AutoMigrate(
		&models.MountEvent{},
		&models.SongEvent{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Migrations Complete")
}
