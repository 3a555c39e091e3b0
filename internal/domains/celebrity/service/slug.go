package service

import (
	"context"
	"fmt"

	"celebhub-backend/internal/domains/celebrity/model"
	"celebhub-backend/internal/shared/utils"
	"celebhub-backend/internal/store"
)

// maxSlugAttempts bounds retries when a concurrent insert takes the slug
const maxSlugAttempts = 5

// SlugGenerator allocates unique slugs against the celebrity store
type SlugGenerator struct {
	repo store.Repository[*model.Celebrity]
}

func NewSlugGenerator(repo store.Repository[*model.Celebrity]) *SlugGenerator {
	return &SlugGenerator{repo: repo}
}

// Next returns the base slug of name, or the first free base-N (N >= 2)
func (g *SlugGenerator) Next(ctx context.Context, name string) (string, error) {
	base := utils.GenerateSlug(name)

	existing, err := g.repo.FindAll(ctx, store.Query{
		Where: []store.Cond{store.Prefix(model.FieldSlug, base)},
	})
	if err != nil {
		return "", fmt.Errorf("load slugs with prefix %q: %w", base, err)
	}

	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.Slug] = true
	}

	if !taken[base] {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}
