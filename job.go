package textract

import (
	"context"
	"time"
)

// JobState is the lifecycle state of an extraction job.
type JobState string

// Job states. Idle jobs never started; Completed, Cancelled and Failed are
// terminal.
const (
	JobIdle      JobState = "idle"
	JobRunning   JobState = "running"
	JobCompleted JobState = "completed"
	JobCancelled JobState = "cancelled"
	JobFailed    JobState = "failed"
)

// Terminal reports whether no further transitions can happen.
// Idle counts as terminal for a job that was rejected at submission.
func (s JobState) Terminal() bool {
	switch s {
	case JobRunning:
		return false
	default:
		return true
	}
}

// Request is a submission to the extraction pipeline.
type Request struct {
	// Input is a newline-separated list of URLs.
	Input string

	// Separator is placed between sections. Defaults to DefaultSeparator.
	Separator string

	// Relay is the ID of the relay to try first. Optional.
	Relay string
}

// JobRecord is the persisted snapshot of a finished job.
type JobRecord struct {
	ID              string             `json:"id"`
	State           JobState           `json:"state"`
	Separator       string             `json:"separator"`
	RelayPreference string             `json:"relayPreference"`
	Targets         int                `json:"targets"`
	Sections        []ExtractedSection `json:"sections"`
	Entries         []LogEntry         `json:"entries"`
	Output          string             `json:"output"`
	OutputHash      string             `json:"outputHash"`
	CreatedAt       time.Time          `json:"createdAt"`
	FinishedAt      time.Time          `json:"finishedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *JobRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "job ID required")
	}
	if r.State == "" {
		return Errorf(EINVALID, "job state required")
	}
	return nil
}

// JobService persists finished jobs.
type JobService interface {
	// CreateJob stores a job record with its sections and log entries.
	CreateJob(ctx context.Context, job *JobRecord) error

	// FindJobByID retrieves a job with its sections and log entries.
	// Returns ENOTFOUND if the job does not exist.
	FindJobByID(ctx context.Context, id string) (*JobRecord, error)

	// FindJobs retrieves job summaries, most recent first. Sections and
	// entries are not loaded.
	FindJobs(ctx context.Context, filter JobFilter) ([]*JobRecord, error)

	// DeleteJob removes a job and everything recorded with it.
	// Returns ENOTFOUND if the job does not exist.
	DeleteJob(ctx context.Context, id string) error
}

// JobFilter represents a filter for FindJobs.
type JobFilter struct {
	State *JobState `json:"state"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
