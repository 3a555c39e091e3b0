package email

import "time"

// SubmissionNoticeData tells operators a new profile is waiting for review
type SubmissionNoticeData struct {
	SubmissionID string    `json:"submission_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Category     string    `json:"category"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

type EmailRequest struct {
	To      []string // Recipients
	Subject string
	Body    string // plain text
}
