package database

import (
	"context"
	"fmt"
	"log"
)

// StoreConfig selects and configures the slot store backend
type StoreConfig struct {
	Driver        string // sqlite, postgres, redis or memory
	DSN           string
	RedisAddr     string
	RedisPassword string
}

// OpenStore builds the configured SlotStore, running migrations for SQL backends
func OpenStore(ctx context.Context, cfg StoreConfig) (SlotStore, error) {
	switch cfg.Driver {
	case "", "sqlite", "postgres":
		driver := cfg.Driver
		if driver == "" {
			driver = "sqlite"
		}
		db, err := Connect(driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLStore(db), nil

	case "redis":
		client, err := ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Printf("✅ Redis store connected at %s", cfg.RedisAddr)
		return NewRedisStore(client), nil

	case "memory":
		log.Println("⚠️  Using in-memory store - saved walks are lost on restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
}
