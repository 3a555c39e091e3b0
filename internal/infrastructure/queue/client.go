package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/domains/submission/model"
	"celebhub-backend/internal/infrastructure/email"
)

// Enqueuer hands best-effort side effects to the worker
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// NotifySubmission queues the operator email for a new submission
func (e *Enqueuer) NotifySubmission(ctx context.Context, s *model.Submission) error {
	return e.enqueue(ctx, TypeSubmissionNotice, email.SubmissionNoticeData{
		SubmissionID: s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Category:     s.Category,
		SubmittedAt:  s.CreatedAt,
	}, asynq.Queue(QueueDefault), asynq.MaxRetry(5), asynq.Timeout(time.Minute))
}

// CleanupPhoto queues deletion of an unreferenced photo object
func (e *Enqueuer) CleanupPhoto(ctx context.Context, key string) error {
	return e.enqueue(ctx, TypePhotoCleanup, PhotoCleanupPayload{Key: key},
		asynq.Queue(QueueLow), asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
}

func (e *Enqueuer) enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := e.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().Str("task_id", info.ID).Str("type", taskType).Str("queue", info.Queue).Msg("task enqueued")
	return nil
}
