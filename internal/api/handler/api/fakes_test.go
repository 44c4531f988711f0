package api

import (
	"context"
	"sync"
	"time"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
)

// fakeDashboard is an in-memory snapshot source and publisher.
type fakeDashboard struct {
	mu         sync.Mutex
	latest     *dashboard.Snapshot
	refreshErr error
	triggered  int
	subs       []chan *dashboard.Snapshot
}

func newFakeDashboard(snap *dashboard.Snapshot) *fakeDashboard {
	return &fakeDashboard{latest: snap}
}

func (f *fakeDashboard) Latest() (*dashboard.Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.latest != nil
}

func (f *fakeDashboard) Refresh(ctx context.Context) (*dashboard.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	seq := uint64(1)
	if f.latest != nil {
		seq = f.latest.Sequence + 1
	}
	f.latest = dashboard.NewSnapshot(sampleData(), seq, time.Now())
	return f.latest, nil
}

func (f *fakeDashboard) Trigger() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
}

func (f *fakeDashboard) Subscribe() (<-chan *dashboard.Snapshot, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan *dashboard.Snapshot, 1)
	f.subs = append(f.subs, ch)
	return ch, func() {}
}

func (f *fakeDashboard) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *fakeDashboard) publish(snap *dashboard.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = snap
	for _, ch := range f.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (f *fakeDashboard) triggers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.triggered
}

// fakeTrainer records forwarded requests.
type fakeTrainer struct {
	mu       sync.Mutex
	requests []core.TrainingRequest
	err      error
	products []core.Product
}

func (f *fakeTrainer) StartTraining(ctx context.Context, req core.TrainingRequest) (core.TrainingAck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return core.TrainingAck{}, f.err
	}
	return core.TrainingAck{Success: true, Message: "Training started"}, nil
}

func (f *fakeTrainer) GenerateSampleData(ctx context.Context) (core.SampleData, error) {
	if f.err != nil {
		return core.SampleData{}, f.err
	}
	return core.SampleData{Products: f.products}, nil
}

func sampleData() dashboard.Data {
	return dashboard.Data{
		Products: []core.Product{
			{ID: 1, Name: "Widget", CurrentPrice: 10, Stock: 5},
			{ID: 2, Name: "Gadget", CurrentPrice: 20, Stock: 2},
		},
		Segments: []core.Segment{{Name: "Budget", Size: 0.25}, {Name: "Premium", Size: 0.75}},
		Status:   core.TrainingStatus{IsTraining: true, CurrentEpisode: 3, TotalEpisodes: 10},
		Results: core.TrainingResults{
			FinalReward:     30,
			RewardHistory:   core.Values{10, 20, 30},
			BaselineHistory: core.Values{15, 15, 15},
		},
	}
}

func sampleSnapshot() *dashboard.Snapshot {
	return dashboard.NewSnapshot(sampleData(), 7, time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC))
}
