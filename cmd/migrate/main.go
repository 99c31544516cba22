package main

import (
	"flag"
	"log"

	"dogwalk-tracker/internal/config"
	"dogwalk-tracker/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	driver := flag.String("driver", cfg.StoreDriver, "sql driver (sqlite or postgres)")
	dsn := flag.String("dsn", cfg.StoreDSN, "data source name")
	flag.Parse()

	if *driver != "sqlite" && *driver != "postgres" {
		log.Fatalf("Nothing to migrate for STORE_DRIVER %q", *driver)
	}

	db, err := database.Connect(*driver, *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	var slots int
	if err := db.Get(&slots, "SELECT COUNT(*) FROM walk_slots"); err != nil {
		log.Fatalf("Failed to read summary: %v", err)
	}

	log.Println("Migration completed successfully!")
	log.Printf("  Saved slots: %d", slots)
}
