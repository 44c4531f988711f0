package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/api/job"
	"github.com/newthinker/pricedash/internal/core"
)

type mockNotifier struct {
	mu         sync.Mutex
	name       string
	sent       []Event
	shouldFail bool
}

func (m *mockNotifier) Name() string { return m.name }

func (m *mockNotifier) Init(cfg Config) error { return nil }

func (m *mockNotifier) Send(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, ev)
	if m.shouldFail {
		return errors.New("send failed")
	}
	return nil
}

func (m *mockNotifier) events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.sent...)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	mock := &mockNotifier{name: "test"}
	err := r.Register(mock)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Duplicate registration should fail
	err = r.Register(mock)
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockNotifier{name: "test"})

	n, err := r.Get("test")
	require.NoError(t, err)
	assert.Equal(t, "test", n.Name())

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestRegistry_GetAllSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockNotifier{name: "webhook"})
	r.Register(&mockNotifier{name: "telegram"})

	all := r.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "telegram", all[0].Name())
	assert.Equal(t, "webhook", all[1].Name())
}

func TestRegistry_NotifyAll(t *testing.T) {
	r := NewRegistry()
	ok := &mockNotifier{name: "ok"}
	bad := &mockNotifier{name: "bad", shouldFail: true}
	r.Register(ok)
	r.Register(bad)

	errs := r.NotifyAll(context.Background(), Event{RunID: "run-1"})

	assert.Len(t, ok.events(), 1)
	assert.Len(t, bad.events(), 1)
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "bad")
}

func TestFromJob(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	ev := FromJob(job.Job{
		ID:        "run-1",
		Type:      job.TypeTraining,
		Status:    job.StatusFailed,
		Error:     core.ErrTrainingConflict,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	})

	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, "training", ev.RunType)
	assert.True(t, ev.Failed())
	assert.Contains(t, ev.Error, "TRAINING_CONFLICT")
	assert.Equal(t, time.Minute, ev.FinishedAt.Sub(ev.StartedAt))
}

func TestRegistry_Watch(t *testing.T) {
	r := NewRegistry()
	mock := &mockNotifier{name: "test"}
	r.Register(mock)

	jobs := job.NewStore(10, time.Hour)
	r.Watch(jobs, time.Second, zap.NewNop())

	j := jobs.Create(job.TypeSampleData)
	require.NoError(t, jobs.Complete(j.ID, "Generated 5 products", nil))

	require.Eventually(t, func() bool { return len(mock.events()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, j.ID, mock.events()[0].RunID)
	assert.Equal(t, "complete", mock.events()[0].Status)
}
