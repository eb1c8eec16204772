package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/mellon2025/sinjin/internal/config"
	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/server"
	"github.com/mellon2025/sinjin/internal/store"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	st := openStore(cfg)

	if err := server.SeedAdmin(context.Background(), st, cfg); err != nil {
		log.Fatalf("admin seeding failed: %v", err)
	}
	applyDefaultDuration(cfg, st)

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(st, cfg)
	log.Printf("sinjin server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}

// applyDefaultDuration writes the configured timer duration onto a
// factory-fresh settings record. A record an admin has already touched
// is left alone.
func applyDefaultDuration(cfg config.Config, st store.Store) {
	if cfg.TimerDurationSeconds <= 0 || cfg.TimerDurationSeconds == 120 {
		return
	}
	_, err := st.UpdateSettings(context.Background(), func(s *db.Settings) error {
		if s.TimerDuration == 120 && !s.TimerActive && s.TimerStartTime == nil {
			s.TimerDuration = cfg.TimerDurationSeconds
		}
		return nil
	})
	if err != nil {
		log.Printf("failed to apply default timer duration: %v", err)
	}
}

// openStore prefers Postgres and falls back to the in-memory store so
// the server still runs without a database, for local development.
func openStore(cfg config.Config) store.Store {
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("DATABASE_URL not set, using in-memory store")
		return store.NewMemory()
	}
	conn, err := db.Open(db.PoolConfig{
		MaxOpenConns:           cfg.DBMaxOpenConns,
		MaxIdleConns:           cfg.DBMaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.DBConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.DBConnMaxIdleTimeSeconds,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	return store.NewGorm(conn)
}
