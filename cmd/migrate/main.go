// Command migrate runs schema operations for the backend.
package main

import (
	"flag"
	"fmt"
	"log"

	"crushquest/internal/config"
	"crushquest/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	// Connect auto-migrates outside production; in production this command
	// is the only place the schema is applied.
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		return fmt.Errorf("automigrations failed: %w", err)
	}

	log.Println("automigrations applied")
	return nil
}
