package job

import (
	"context"
	"time"

	"github.com/newthinker/pricedash/internal/dashboard"
)

// DefaultStartGrace is how long a pending training job waits for the backend
// to report training before it is considered finished.
const DefaultStartGrace = time.Minute

// Observe advances open training jobs from a published snapshot. Jobs move
// to running while the backend reports training and complete once it stops.
// A job that never sees training completes after grace, since the backend
// accepted it and may have finished between two polls.
func (s *Store) Observe(snap *dashboard.Snapshot, grace time.Duration) {
	if snap == nil {
		return
	}
	summary := snap.Summary

	s.mu.Lock()
	var finished []Job
	defer func() {
		hooks := s.onDone
		s.mu.Unlock()
		notify(hooks, finished)
	}()

	now := s.now()
	for _, id := range s.order {
		job := s.jobs[id]
		if job.Type != TypeTraining || job.Done() || snap.GeneratedAt.Before(job.CreatedAt) {
			continue
		}

		switch {
		case summary.Training:
			job.Status = StatusRunning
			job.Progress = int(summary.ProgressPct)
			job.Message = summary.Status
		case job.Status == StatusRunning || snap.GeneratedAt.Sub(job.CreatedAt) >= grace:
			job.Status = StatusComplete
			job.Progress = 100
			job.Message = "Training finished"
			job.Result = summary.Stats
			finished = append(finished, *job)
		default:
			continue
		}
		job.UpdatedAt = now
	}
}

// Track observes every snapshot received on updates until ctx is done or
// updates is closed.
func (s *Store) Track(ctx context.Context, updates <-chan *dashboard.Snapshot, grace time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			s.Observe(snap, grace)
		}
	}
}
