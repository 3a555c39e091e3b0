package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/infrastructure/queue"
)

// ObjectDeleter removes stored objects
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// PhotoCleanupHandler deletes photos no entry references any more
func PhotoCleanupHandler(storage ObjectDeleter) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		var p queue.PhotoCleanupPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil || p.Key == "" {
			return fmt.Errorf("invalid photo cleanup payload: %w", asynq.SkipRetry)
		}

		if err := storage.Delete(ctx, p.Key); err != nil {
			return err // storage unreachable, retry
		}

		log.Info().Str("key", p.Key).Msg("Photo deleted")
		return nil
	}
}
