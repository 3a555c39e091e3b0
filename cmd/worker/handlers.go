package main

import (
	"github.com/hibiken/asynq"

	"celebhub-backend/internal/infrastructure/email"
	emailjob "celebhub-backend/internal/infrastructure/email/job"
	"celebhub-backend/internal/infrastructure/queue"
	"celebhub-backend/internal/infrastructure/queue/handlers"
	"celebhub-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	submissionNotice *emailjob.SubmissionNoticeHandler
	photoCleanup     asynq.HandlerFunc
	featureExpiry    asynq.HandlerFunc
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	cfg := c.Config.Email
	emailSvc := email.NewSMTPEmailService(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})

	return &HandlerRegistry{
		submissionNotice: emailjob.NewSubmissionNoticeHandler(emailSvc, cfg.Operators),
		photoCleanup:     handlers.PhotoCleanupHandler(c.Photos),
		featureExpiry:    handlers.FeatureExpiryHandler(c.CelebrityService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeSubmissionNotice, h.submissionNotice.ProcessTask)
	mux.Handle(queue.TypePhotoCleanup, h.photoCleanup)
	mux.Handle(queue.TypeFeatureExpiry, h.featureExpiry)
}
