package server

import (
	"context"
	"errors"
	"log"

	"github.com/mellon2025/sinjin/internal/config"
	"github.com/mellon2025/sinjin/internal/db"
	"github.com/mellon2025/sinjin/internal/store"
)

// SeedAdmin ensures the configured admin account exists. A no-op when
// no admin credentials are configured or the account is already there.
func SeedAdmin(ctx context.Context, st store.Store, cfg config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := st.GetUserByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	hash, err := hashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &db.User{
		Username: cfg.AdminUsername,
		Password: hash,
		Role:     db.RoleAdmin,
	}
	if err := st.CreateUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("admin user seeded username=%s", cfg.AdminUsername)
	return nil
}
