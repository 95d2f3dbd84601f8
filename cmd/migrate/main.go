package main

import (
	"fmt"
	"os"

	gormlogger "gorm.io/gorm/logger"

	"github.com/reelkeep/reelkeep/pkg/config"
	"github.com/reelkeep/reelkeep/pkg/database"
	"github.com/reelkeep/reelkeep/pkg/interfaces"
	"github.com/reelkeep/reelkeep/pkg/logger"
)

func main() {
	cfg := config.DefaultBaseConfig()
	if err := config.NewManager("catalog").LoadConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewFromConfig(&logger.Config{
		Level:       cfg.Logger.Level,
		Development: cfg.Logger.Development,
		Encoding:    cfg.Logger.Format,
		OutputPaths: []string{cfg.Logger.OutputPath},
		ErrorPaths:  []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Connecting to database",
		interfaces.String("host", cfg.Database.Host),
		interfaces.String("database", cfg.Database.Database))

	db, err := database.NewGormDB(&database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxConnections:  cfg.Database.MaxConnections,
		MinConnections:  cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal("Failed to connect to database", interfaces.Error(err))
	}

	log.Info("Migrating catalog schema")

	if err := database.MigrateCatalog(db); err != nil {
		log.Fatal("Failed to run migrations", interfaces.Error(err))
	}

	log.Info("Catalog schema is up to date")
}
