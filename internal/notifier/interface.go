// Package notifier pushes finished training runs and sample data
// regenerations to external channels.
package notifier

import (
	"context"
	"time"

	"github.com/newthinker/pricedash/internal/api/job"
)

// Config holds notifier configuration
type Config struct {
	Type   string         `mapstructure:"type"`
	Params map[string]any `mapstructure:"params"`
}

// Event describes one run that reached a terminal status.
type Event struct {
	RunID      string    `json:"run_id"`
	RunType    string    `json:"run_type"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	Result     any       `json:"result,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Failed reports whether the run failed.
func (e Event) Failed() bool {
	return e.Status == string(job.StatusFailed)
}

// FromJob builds the event for a finished job.
func FromJob(j job.Job) Event {
	ev := Event{
		RunID:      j.ID,
		RunType:    j.Type,
		Status:     string(j.Status),
		Message:    j.Message,
		Result:     j.Result,
		StartedAt:  j.CreatedAt,
		FinishedAt: j.UpdatedAt,
	}
	if j.Error != nil {
		ev.Error = j.Error.Error()
	}
	return ev
}

// Notifier defines the interface for run notifications
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Init initializes the notifier with configuration
	Init(cfg Config) error

	// Send delivers a single run notification
	Send(ctx context.Context, ev Event) error
}
