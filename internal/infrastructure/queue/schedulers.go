package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/config"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redis asynq.RedisConnOpt, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		redis,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerFeatureExpiryJob()
}

// ================================================
// Feature expiry sweep
// ================================================
func (s *Scheduler) registerFeatureExpiryJob() error {
	payload, err := json.Marshal(FeatureExpiryPayload{})
	if err != nil {
		return err
	}

	_, err = s.scheduler.Register(
		s.jobConfig.FeatureExpiryCron,
		asynq.NewTask(TypeFeatureExpiry, payload),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(1),
		asynq.Timeout(5*time.Minute),
		// Overlapping sweeps are harmless but pointless
		asynq.Unique(time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register FeatureExpiry job")
		return err
	}

	log.Info().Str("cron", s.jobConfig.FeatureExpiryCron).Msg("Registered FeatureExpiry job")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
