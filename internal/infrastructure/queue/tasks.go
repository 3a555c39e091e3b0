package queue

// Task types
const (
	TypeSubmissionNotice = "email:submission_notice"
	TypePhotoCleanup     = "photo:cleanup"
	TypeFeatureExpiry    = "feature:expire"
)

// Queues
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Queues maps queue names to their asynq priority weight
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

type PhotoCleanupPayload struct {
	Key string `json:"key"`
}

type FeatureExpiryPayload struct{}
