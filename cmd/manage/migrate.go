package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	celebModel "celebhub-backend/internal/domains/celebrity/model"
	onboardingModel "celebhub-backend/internal/domains/onboarding/model"
	submissionModel "celebhub-backend/internal/domains/submission/model"
	userModel "celebhub-backend/internal/domains/user/model"

	"celebhub-backend/internal/config"
	"celebhub-backend/internal/store"
	"celebhub-backend/pkg/container"
)

func migrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every entity from PostgreSQL to MongoDB",
		Long: `Copy users, celebrities, submissions and onboarding registrations
from PostgreSQL to MongoDB.

Entities whose id, slug or username already exists in MongoDB are skipped,
so the command can be re-run safely.

Examples:
  manage migrate
  manage migrate --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("")
			if err != nil {
				return err
			}
			return runMigrate(cmd.Context(), cfg, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "count what would be copied without writing")
	return cmd
}

func runMigrate(ctx context.Context, cfg *config.Config, dryRun bool) error {
	src, err := container.OpenStores(ctx, cfg, config.BackendPostgres)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close(context.Background())

	dst, err := container.OpenStores(ctx, cfg, config.BackendMongo)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close(context.Background())

	steps := []struct {
		kind string
		run  func() (copyStats, error)
	}{
		{"users", func() (copyStats, error) {
			return copyAll(ctx, src.Users, dst.Users, dryRun, userKeys)
		}},
		{"celebrities", func() (copyStats, error) {
			return copyAll(ctx, src.Celebrities, dst.Celebrities, dryRun, celebrityKeys)
		}},
		{"submissions", func() (copyStats, error) {
			return copyAll[*submissionModel.Submission](ctx, src.Submissions, dst.Submissions, dryRun, nil)
		}},
		{"onboarding", func() (copyStats, error) {
			return copyAll[*onboardingModel.Registration](ctx, src.Onboarding, dst.Onboarding, dryRun, nil)
		}},
	}

	for _, step := range steps {
		stats, err := step.run()
		if err != nil {
			return fmt.Errorf("migrate %s: %w", step.kind, err)
		}
		fmt.Printf("%-12s copied %d, skipped %d\n", step.kind, stats.copied, stats.skipped)
	}

	if dryRun {
		fmt.Println("Dry run - no changes made")
	}
	return nil
}

func userKeys(u *userModel.User) map[string]interface{} {
	return map[string]interface{}{userModel.FieldUsername: u.Username}
}

func celebrityKeys(c *celebModel.Celebrity) map[string]interface{} {
	return map[string]interface{}{celebModel.FieldSlug: c.Slug}
}

type copyStats struct {
	copied  int
	skipped int
}

// copyAll copies every entity of src into dst, skipping ids and unique keys
// that dst already holds
func copyAll[T store.Entity](
	ctx context.Context,
	src, dst store.Repository[T],
	dryRun bool,
	uniqueKeys func(T) map[string]interface{},
) (copyStats, error) {
	var stats copyStats

	rows, err := src.FindAll(ctx, store.Query{})
	if err != nil {
		return stats, err
	}

	for _, e := range rows {
		exists, err := present(ctx, dst, e, uniqueKeys)
		if err != nil {
			return stats, err
		}
		if exists {
			stats.skipped++
			continue
		}

		if !dryRun {
			if err := dst.Save(ctx, e); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					stats.skipped++
					continue
				}
				return stats, err
			}
		}
		stats.copied++
	}
	return stats, nil
}

func present[T store.Entity](ctx context.Context, dst store.Repository[T], e T, uniqueKeys func(T) map[string]interface{}) (bool, error) {
	if _, err := dst.FindByID(ctx, e.GetID()); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	if uniqueKeys == nil {
		return false, nil
	}
	for field, value := range uniqueKeys(e) {
		_, err := dst.FindOne(ctx, field, value)
		switch {
		case err == nil:
			return true, nil
		case !errors.Is(err, store.ErrNotFound):
			return false, err
		}
	}
	return false, nil
}
