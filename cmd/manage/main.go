package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"celebhub-backend/internal/config"
	"celebhub-backend/pkg/container"
	"celebhub-backend/pkg/logger"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "manage",
		Short:   "CelebHub administration commands",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(ensureSchemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, optionally forcing the store backend
func loadConfig(backend string) (*config.Config, error) {
	if backend != "" {
		os.Setenv("STORE_BACKEND", backend)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Environment, "manage")
	return cfg, nil
}

func createAdminCmd() *cobra.Command {
	var password, displayName string

	cmd := &cobra.Command{
		Use:   "create-admin [username]",
		Short: "Create an administrator, or promote an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters (--password or ADMIN_PASSWORD)")
			}

			cfg, err := loadConfig("")
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := container.NewContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Cleanup()

			u, err := c.UserService.EnsureAdmin(ctx, args[0], password, displayName)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Printf("Admin %s ready (id %s, backend %s)\n", u.Username, u.ID, cfg.Store.Backend)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	return cmd
}

func ensureSchemaCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "ensure-schema",
		Short: "Create tables (postgres) or indexes (mongo) for every entity kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(backend)
			if err != nil {
				return err
			}

			// Opening the stores ensures the schema
			stores, err := container.OpenStores(cmd.Context(), cfg, cfg.Store.Backend)
			if err != nil {
				return err
			}
			stores.Close(context.Background())

			fmt.Printf("Schema ready on %s\n", cfg.Store.Backend)
			return nil
		},
	}

	cmd.Flags().StringVarP(&backend, "backend", "b", "", "store backend (postgres, mongo)")
	return cmd
}
