package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/metrics"
)

// Default polling cadence.
const (
	DefaultPollInterval     = 30 * time.Second
	DefaultTrainingInterval = 2 * time.Second

	subscriberBuffer = 1
)

// Source provides the raw datasets of the dashboard.
type Source interface {
	Products(ctx context.Context) ([]core.Product, error)
	Segments(ctx context.Context) ([]core.Segment, error)
	PriceCurves(ctx context.Context) ([]core.PriceCurve, error)
	TimePricing(ctx context.Context) (core.TimePricing, error)
	TrainingStatus(ctx context.Context) (core.TrainingStatus, error)
	TrainingResults(ctx context.Context) (core.TrainingResults, error)
}

// Archiver persists published snapshots.
type Archiver interface {
	Save(ctx context.Context, snap *Snapshot) (string, error)
}

// Service keeps the latest dashboard snapshot up to date.
type Service struct {
	source   Source
	logger   *zap.Logger
	metrics  *metrics.Registry
	archiver Archiver

	pollInterval     time.Duration
	trainingInterval time.Duration

	latest  atomic.Pointer[Snapshot]
	seq     atomic.Uint64
	refresh sync.Mutex
	trigger chan struct{}

	subMu  sync.Mutex
	subs   map[uint64]chan *Snapshot
	nextID uint64

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records refreshes and composed layouts in reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.metrics = reg }
}

// WithArchiver saves every published snapshot.
func WithArchiver(a Archiver) Option {
	return func(s *Service) { s.archiver = a }
}

// WithIntervals sets the idle and training poll intervals. Non-positive
// values keep the defaults.
func WithIntervals(poll, training time.Duration) Option {
	return func(s *Service) {
		if poll > 0 {
			s.pollInterval = poll
		}
		if training > 0 {
			s.trainingInterval = training
		}
	}
}

// New creates a dashboard service reading from source.
func New(source Source, opts ...Option) *Service {
	s := &Service{
		source:           source,
		logger:           zap.NewNop(),
		pollInterval:     DefaultPollInterval,
		trainingInterval: DefaultTrainingInterval,
		trigger:          make(chan struct{}, 1),
		subs:             make(map[uint64]chan *Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latest returns the most recently published snapshot.
func (s *Service) Latest() (*Snapshot, bool) {
	snap := s.latest.Load()
	return snap, snap != nil
}

// Restore publishes a previously archived snapshot when nothing has been
// published yet. It reports whether the snapshot was used.
func (s *Service) Restore(snap *Snapshot) bool {
	if snap == nil || !s.latest.CompareAndSwap(nil, snap) {
		return false
	}
	for {
		cur := s.seq.Load()
		if cur >= snap.Sequence || s.seq.CompareAndSwap(cur, snap.Sequence) {
			break
		}
	}
	s.broadcast(snap)
	return true
}

// Refresh fetches every dataset, composes a new snapshot and publishes it.
// Datasets whose endpoint fails are treated as empty; Refresh only fails
// when every endpoint fails.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.refresh.Lock()
	defer s.refresh.Unlock()

	start := time.Now()
	data, failed, err := s.fetch(ctx)
	if err != nil {
		s.recordRefresh("error", start)
		s.logger.Error("dashboard refresh failed", zap.Error(err))
		return nil, err
	}

	snap := NewSnapshot(data, s.seq.Add(1), time.Now().UTC())
	snap.Failed = failed
	s.latest.Store(snap)
	s.broadcast(snap)

	status := "success"
	if len(failed) > 0 {
		status = "partial"
		s.logger.Warn("dashboard refreshed with missing data", zap.Strings("failed", failed))
	}
	s.recordRefresh(status, start)
	if s.metrics != nil {
		for _, l := range snap.Charts {
			s.metrics.RecordLayout(l.Chart, string(l.Kind))
		}
		s.metrics.SetTrainingProgress(snap.Summary.ProgressPct)
	}

	s.logger.Debug("dashboard refreshed",
		zap.Uint64("sequence", snap.Sequence),
		zap.Bool("training", snap.Training()),
		zap.Duration("duration", time.Since(start)),
	)

	s.save(ctx, snap)
	return snap, nil
}

// Trigger requests a refresh from the running loop as soon as possible.
func (s *Service) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Subscribe returns a channel receiving every published snapshot and a
// function that ends the subscription. A subscriber that falls behind only
// receives the newest snapshot.
func (s *Service) Subscribe() (<-chan *Snapshot, func()) {
	ch := make(chan *Snapshot, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

// Start refreshes immediately and then on every poll interval until ctx is
// cancelled or Stop is called. The interval shortens while training.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("dashboard service already running")
	}
	s.running = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("dashboard service starting",
		zap.Duration("poll_interval", s.pollInterval),
		zap.Duration("training_interval", s.trainingInterval),
	)

	s.Refresh(ctx)

	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dashboard service stopping")
			return ctx.Err()
		case <-s.trigger:
			s.Refresh(ctx)
		case <-timer.C:
			s.Refresh(ctx)
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.nextInterval())
	}
}

// Stop ends a running Start loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) nextInterval() time.Duration {
	if snap, ok := s.Latest(); ok && snap.Training() {
		return s.trainingInterval
	}
	return s.pollInterval
}

func (s *Service) fetch(ctx context.Context) (Data, []string, error) {
	var (
		data Data
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	failed := make([]string, 0)

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				s.logger.Warn("backend dataset unavailable", zap.String("dataset", name), zap.Error(err))
				mu.Lock()
				failed = append(failed, name)
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run("products", into(&data.Products, s.source.Products))
	run("segments", into(&data.Segments, s.source.Segments))
	run("price_curves", into(&data.PriceCurves, s.source.PriceCurves))
	run("time_pricing", into(&data.TimePricing, s.source.TimePricing))
	run("training_status", into(&data.Status, s.source.TrainingStatus))
	run("training_results", into(&data.Results, s.source.TrainingResults))
	wg.Wait()

	const datasets = 6
	if len(errs) == datasets {
		return Data{}, nil, core.WrapError(core.ErrBackendFailed, errors.Join(errs...))
	}
	if len(failed) == 0 {
		failed = nil
	}
	sort.Strings(failed)
	return data, failed, nil
}

// into stores the result of fetch in dst when it succeeds. A failed fetch
// leaves dst at its zero value.
func into[T any](dst *T, fetch func(context.Context) (T, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (s *Service) broadcast(snap *Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Replace the stale pending snapshot with the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Service) save(ctx context.Context, snap *Snapshot) {
	if s.archiver == nil {
		return
	}
	key, err := s.archiver.Save(ctx, snap)
	status := "success"
	if err != nil {
		status = "error"
		s.logger.Error("archiving snapshot failed", zap.Uint64("sequence", snap.Sequence), zap.Error(err))
	} else {
		s.logger.Debug("snapshot archived", zap.String("key", key))
	}
	if s.metrics != nil {
		s.metrics.RecordArchiveWrite(status)
	}
}

func (s *Service) recordRefresh(status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRefresh(status, time.Since(start).Seconds())
	}
}
