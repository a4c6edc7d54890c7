package domain

import "time"

// JobStatus is the lifecycle state of a deletion job.
// Legal transitions: pending -> running -> completed | failed.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// DeletionFilter narrows which of the user's own messages get deleted.
// The first channel is the operative scope; keywords are OR-matched
// case-insensitive substrings; date bounds are inclusive.
type DeletionFilter struct {
	Channels        []string   `json:"channels"`
	Servers         []string   `json:"servers,omitempty"`
	Keywords        []string   `json:"keywords,omitempty"`
	ExcludeKeywords []string   `json:"excludeKeywords,omitempty"`
	DateFrom        *time.Time `json:"dateFrom,omitempty"`
	DateTo          *time.Time `json:"dateTo,omitempty"`
}

// DeletionJob records one deletion run's parameters and counts
type DeletionJob struct {
	ID              string         `json:"id"`
	Platform        string         `json:"platform"`
	Status          JobStatus      `json:"status"`
	Filter          DeletionFilter `json:"filter"`
	TotalMessages   int            `json:"totalMessages"`
	DeletedMessages int            `json:"deletedMessages"`
	FailedMessages  int            `json:"failedMessages"`
	CreatedAt       time.Time      `json:"createdAt"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	Error           string         `json:"error,omitempty"`
}

// DeletionResult is the outcome of one bulk-delete run
type DeletionResult struct {
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// PreviewResponse is returned by the deletion preview endpoint: the total
// match count and a capped sample of matching messages
type PreviewResponse struct {
	TotalMessages int       `json:"totalMessages"`
	Messages      []Message `json:"messages"`
}

// AuthCallbackRequest carries the OAuth authorization code
type AuthCallbackRequest struct {
	Code string `json:"code"`
}

// AuthCallbackResponse is the session token plus the user's profile
type AuthCallbackResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}
