package handlers

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// FeatureExpirer clears lapsed featured flags
type FeatureExpirer interface {
	ExpireFeatures(ctx context.Context) (int, error)
}

func FeatureExpiryHandler(expirer FeatureExpirer) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		n, err := expirer.ExpireFeatures(ctx)
		if err != nil {
			log.Error().Err(err).Int("expired", n).Msg("Feature expiry sweep failed")
			return err
		}
		if n > 0 {
			log.Info().Int("expired", n).Msg("Feature expiry sweep done")
		}
		return nil
	}
}
