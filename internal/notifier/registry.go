package notifier

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/api/job"
)

// Registry manages notifier instances
type Registry struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
}

// NewRegistry creates a new notifier registry
func NewRegistry() *Registry {
	return &Registry{
		notifiers: make(map[string]Notifier),
	}
}

// Register adds a notifier to the registry
func (r *Registry) Register(n Notifier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := n.Name()
	if _, exists := r.notifiers[name]; exists {
		return fmt.Errorf("notifier %s already registered", name)
	}

	r.notifiers[name] = n
	return nil
}

// Get retrieves a notifier by name
func (r *Registry) Get(name string) (Notifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, exists := r.notifiers[name]
	if !exists {
		return nil, fmt.Errorf("notifier %s not found", name)
	}
	return n, nil
}

// GetAll returns all registered notifiers ordered by name
func (r *Registry) GetAll() []Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Notifier, 0, len(r.notifiers))
	for _, n := range r.notifiers {
		result = append(result, n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Len returns the number of registered notifiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notifiers)
}

// NotifyAll sends an event to all registered notifiers
func (r *Registry) NotifyAll(ctx context.Context, ev Event) map[string]error {
	errors := make(map[string]error)
	for _, n := range r.GetAll() {
		if err := n.Send(ctx, ev); err != nil {
			errors[n.Name()] = err
		}
	}
	return errors
}

// Watch sends every job that finishes in jobs to all notifiers. Each
// delivery runs in its own goroutine bounded by timeout.
func (r *Registry) Watch(jobs *job.Store, timeout time.Duration, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	jobs.OnDone(func(j job.Job) {
		ev := FromJob(j)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			for name, err := range r.NotifyAll(ctx, ev) {
				logger.Warn("notification failed",
					zap.String("notifier", name),
					zap.String("run_id", ev.RunID),
					zap.Error(err),
				)
			}
		}()
	})
}
