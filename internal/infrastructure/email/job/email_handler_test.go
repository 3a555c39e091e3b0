package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"celebhub-backend/internal/infrastructure/email"
)

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendEmail(ctx context.Context, req email.EmailRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockEmailService) SendSubmissionNotice(ctx context.Context, to []string, data email.SubmissionNoticeData) error {
	return m.Called(ctx, to, data).Error(0)
}

func noticeTask(t *testing.T, data email.SubmissionNoticeData) *asynq.Task {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return asynq.NewTask("email:submission_notice", raw)
}

func TestSubmissionNoticeHandler(t *testing.T) {
	ctx := context.Background()
	data := email.SubmissionNoticeData{
		SubmissionID: "sub-1",
		Name:         "Test User",
		Email:        "fan@example.com",
		SubmittedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	operators := []string{"ops@example.com"}

	t.Run("sends to operators", func(t *testing.T) {
		svc := new(mockEmailService)
		svc.On("SendSubmissionNotice", ctx, operators, mock.MatchedBy(func(d email.SubmissionNoticeData) bool {
			return d.SubmissionID == "sub-1" && d.Name == "Test User" && d.SubmittedAt.Equal(data.SubmittedAt)
		})).Return(nil).Once()

		require.NoError(t, NewSubmissionNoticeHandler(svc, operators).ProcessTask(ctx, noticeTask(t, data)))
		svc.AssertExpectations(t)
	})

	t.Run("smtp failure is retried", func(t *testing.T) {
		svc := new(mockEmailService)
		svc.On("SendSubmissionNotice", ctx, operators, mock.Anything).Return(errors.New("connection refused"))

		err := NewSubmissionNoticeHandler(svc, operators).ProcessTask(ctx, noticeTask(t, data))
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("no operators drops the notice", func(t *testing.T) {
		svc := new(mockEmailService)
		require.NoError(t, NewSubmissionNoticeHandler(svc, nil).ProcessTask(ctx, noticeTask(t, data)))
		svc.AssertNotCalled(t, "SendSubmissionNotice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed payload skips retry", func(t *testing.T) {
		svc := new(mockEmailService)
		err := NewSubmissionNoticeHandler(svc, operators).ProcessTask(ctx, asynq.NewTask("email:submission_notice", []byte("nope")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestSendEmail_NoRecipients(t *testing.T) {
	svc := email.NewSMTPEmailService(email.SMTPConfig{Host: "localhost", Port: "1025", From: "noreply@celebhub.dev"})
	assert.ErrorIs(t, svc.SendEmail(context.Background(), email.EmailRequest{Subject: "x"}), email.ErrNoRecipients)
}
