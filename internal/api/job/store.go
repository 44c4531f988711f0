// Package job tracks training runs and sample data regenerations requested
// through the API.
package job

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/newthinker/pricedash/internal/core"
)

// Status represents job status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job types.
const (
	TypeTraining   = "training"
	TypeSampleData = "sample-data"
)

// Job is one request forwarded to the pricing backend.
type Job struct {
	ID        string                `json:"id"`
	Type      string                `json:"type"`
	Status    Status                `json:"status"`
	Progress  int                   `json:"progress"`
	Request   *core.TrainingRequest `json:"request,omitempty"`
	Message   string                `json:"message,omitempty"`
	Result    any                   `json:"result,omitempty"`
	Error     *core.Error           `json:"error,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Done reports whether the job reached a terminal status.
func (j Job) Done() bool {
	return j.Status == StatusComplete || j.Status == StatusFailed
}

// Store keeps recent jobs in memory. The oldest job is evicted once maxSize
// is reached, and finished jobs older than ttl are dropped.
type Store struct {
	jobs    map[string]*Job
	order   []string // insertion order for eviction
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	onDone  []func(Job)
	mu      sync.RWMutex
}

// NewStore creates a new job store.
func NewStore(maxSize int, ttl time.Duration) *Store {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Store{
		jobs:    make(map[string]*Job),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create creates a new pending job and returns a copy of it.
func (s *Store) Create(jobType string) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expire(now)

	job := &Job{
		ID:        uuid.NewString(),
		Type:      jobType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if len(s.jobs) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		delete(s.jobs, oldest)
		s.order = s.order[1:]
	}

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)

	return *job
}

// Get retrieves a copy of the job with the given ID.
func (s *Store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, core.ErrRunNotFound
	}
	return *job, nil
}

// OnDone registers fn to be called, outside the store lock, each time a job
// reaches a terminal status.
func (s *Store) OnDone(fn func(Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = append(s.onDone, fn)
}

// Update modifies a job using an update function.
func (s *Store) Update(id string, fn func(*Job)) error {
	s.mu.Lock()

	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return core.ErrRunNotFound
	}

	wasDone := job.Done()
	fn(job)
	job.UpdatedAt = s.now()

	var finished []Job
	if !wasDone && job.Done() {
		finished = append(finished, *job)
	}
	hooks := s.onDone
	s.mu.Unlock()

	notify(hooks, finished)
	return nil
}

func notify(hooks []func(Job), finished []Job) {
	for _, j := range finished {
		for _, fn := range hooks {
			fn(j)
		}
	}
}

// Complete marks a job finished with result.
func (s *Store) Complete(id, message string, result any) error {
	return s.Update(id, func(j *Job) {
		j.Status = StatusComplete
		j.Progress = 100
		j.Message = message
		j.Result = result
	})
}

// Fail marks a job failed with err.
func (s *Store) Fail(id string, err *core.Error) error {
	return s.Update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = err
	})
}

// List returns all jobs, newest first.
func (s *Store) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		result = append(result, *job)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// expire drops finished jobs older than ttl. Callers hold mu.
func (s *Store) expire(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	kept := s.order[:0]
	for _, id := range s.order {
		job := s.jobs[id]
		if job.Done() && now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}
