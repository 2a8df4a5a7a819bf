package worker

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Kele901/career-projector/internal/models"
)

// Job status values published on the results exchange
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalysisJob is the message body consumed from the jobs queue
type AnalysisJob struct {
	ID        string `json:"id" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
	ObjectKey string `json:"object_key" validate:"required"`
	Filename  string `json:"filename,omitempty"`
	Name      string `json:"name,omitempty"`
}

var validate = validator.New()

// Validate checks the fields a job cannot be processed without
func (j AnalysisJob) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid analysis job: %w", err)
	}
	return nil
}

// FileName returns the name used to pick the text extractor. It falls back to the
// last element of the object key.
func (j AnalysisJob) FileName() string {
	if j.Filename != "" {
		return j.Filename
	}
	if i := strings.LastIndex(j.ObjectKey, "/"); i >= 0 {
		return j.ObjectKey[i+1:]
	}
	return j.ObjectKey
}

// RoutingKey groups updates by session when one is given, else by job
func (j AnalysisJob) RoutingKey() string {
	if j.SessionID != "" {
		return "session." + j.SessionID
	}
	return "job." + j.ID
}

// StatusUpdate is published for every state change of a job
type StatusUpdate struct {
	JobID     string         `json:"job_id"`
	SessionID string         `json:"session_id,omitempty"`
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Report    *models.Report `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
