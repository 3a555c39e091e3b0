package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/infrastructure/email"
)

// ============================================
// Submission Notice Handler
// ============================================

type SubmissionNoticeHandler struct {
	emailService email.EmailService
	operators    []string
}

func NewSubmissionNoticeHandler(emailService email.EmailService, operators []string) *SubmissionNoticeHandler {
	return &SubmissionNoticeHandler{
		emailService: emailService,
		operators:    operators,
	}
}

func (h *SubmissionNoticeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.SubmissionNoticeData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SubmissionNotice payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if len(h.operators) == 0 {
		log.Warn().Str("submission_id", payload.SubmissionID).Msg("No operator recipients configured, notice dropped")
		return nil
	}

	if err := h.emailService.SendSubmissionNotice(ctx, h.operators, payload); err != nil {
		return fmt.Errorf("send submission notice: %w", err)
	}

	log.Info().
		Str("submission_id", payload.SubmissionID).
		Int("recipients", len(h.operators)).
		Msg("Submission notice sent")
	return nil
}
