package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookstore-catalog/internal/config"
	userRepo "bookstore-catalog/internal/domains/user/repository"
	userService "bookstore-catalog/internal/domains/user/service"
	"bookstore-catalog/internal/infrastructure/database"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/jwt"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Database migrations and seeding for the catalog service",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd.Context(), database.Migrate)
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd.Context(), database.Rollback)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSQL(cmd.Context(), database.MigrationStatus)
	},
}

var (
	adminIdentifier string
	adminPassword   string
	adminName       string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return createAdmin(cmd)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminIdentifier, "login", "", "email or phone used to log in")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (min 8 characters)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	_ = createAdminCmd.MarkFlagRequired("login")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(upCmd, downCmd, statusCmd, createAdminCmd)
}

func withSQL(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	db, err := database.OpenSQL(ctx, dbConfig.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db)
}

func createAdmin(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return err
	}
	defer db.Close()

	svc := userService.NewUserService(
		userRepo.NewPostgresRepository(db.Pool),
		jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute),
	)

	admin, err := svc.CreateAdmin(ctx, adminIdentifier, adminPassword, adminName)
	if err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			for field, msg := range errs {
				cmd.PrintErrf("  %s: %s\n", field, msg)
			}
			return fmt.Errorf("invalid admin account")
		}
		return err
	}

	cmd.Printf("✅ Admin %q created (id %d)\n", admin.LoginIdentifier, admin.ID)
	return nil
}
