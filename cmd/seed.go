/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/aruana-vision/apiserver/config"
	"github.com/aruana-vision/apiserver/internal/db"
	"github.com/aruana-vision/apiserver/internal/store"
	"github.com/aruana-vision/apiserver/types"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// seedCmd represents the seed command. It creates the indexes and the
// bootstrap admin account, and is safe to run repeatedly.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create indexes and the bootstrap admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		database, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect failed: %w", err)
		}
		if err := db.EnsureIndexes(cmd.Context(), database); err != nil {
			return fmt.Errorf("ensure indexes failed: %w", err)
		}

		if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
			fmt.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
			return nil
		}

		users := store.NewUserRepository(database)
		if _, err := users.GetByEmail(cmd.Context(), cfg.BootstrapAdminEmail); err == nil {
			fmt.Println("admin account already exists")
			return nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("lookup admin failed: %w", err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password failed: %w", err)
		}

		_, err = users.Create(cmd.Context(), types.User{
			ID:           uuid.NewString(),
			Name:         "Administrador",
			Email:        cfg.BootstrapAdminEmail,
			Role:         "admin",
			PasswordHash: string(hashed),
			CreatedAt:    time.Now().UTC(),
			IsActive:     true,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				fmt.Println("admin account already exists")
				return nil
			}
			return fmt.Errorf("create admin failed: %w", err)
		}

		fmt.Println("admin account created")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
