package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/pricedash/internal/core"
	"github.com/newthinker/pricedash/internal/dashboard"
)

// SnapshotPrefix is the directory every archived snapshot is written under.
const SnapshotPrefix = "snapshots"

// SnapshotArchive persists dashboard snapshots as JSON documents keyed by
// generation time, so the newest key sorts last.
type SnapshotArchive struct {
	store  Storage
	logger *zap.Logger
	retain int
}

// SnapshotOption configures a SnapshotArchive.
type SnapshotOption func(*SnapshotArchive)

// WithLogger sets the archive logger.
func WithLogger(logger *zap.Logger) SnapshotOption {
	return func(a *SnapshotArchive) {
		a.logger = logger
	}
}

// WithRetain keeps only the newest n snapshots after each save. Zero keeps
// everything.
func WithRetain(n int) SnapshotOption {
	return func(a *SnapshotArchive) {
		if n > 0 {
			a.retain = n
		}
	}
}

// NewSnapshotArchive creates a snapshot archive on top of store.
func NewSnapshotArchive(store Storage, opts ...SnapshotOption) *SnapshotArchive {
	a := &SnapshotArchive{
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SnapshotKey returns the storage key of a snapshot generated at t.
func SnapshotKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%s/%020d.json", SnapshotPrefix, t.Format("2006/01/02"), t.UnixNano())
}

// Save writes snap and returns its key.
func (a *SnapshotArchive) Save(ctx context.Context, snap *dashboard.Snapshot) (string, error) {
	if snap == nil {
		return "", core.WrapError(core.ErrArchiveFailed, errors.New("nil snapshot"))
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	key := SnapshotKey(snap.GeneratedAt)
	if err := a.store.Write(ctx, key, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	a.logger.Debug("snapshot archived", zap.String("key", key), zap.Uint64("sequence", snap.Sequence))

	if a.retain > 0 {
		if _, err := a.Prune(ctx, a.retain); err != nil {
			a.logger.Warn("pruning snapshots failed", zap.Error(err))
		}
	}
	return key, nil
}

// Load reads the snapshot stored at key.
func (a *SnapshotArchive) Load(ctx context.Context, key string) (*dashboard.Snapshot, error) {
	ok, err := a.store.Exists(ctx, key)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	if !ok {
		return nil, core.WrapError(core.ErrNoSnapshot, fmt.Errorf("%s: %w", key, fs.ErrNotExist))
	}

	data, err := a.store.Read(ctx, key)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	var snap dashboard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding %s: %w", key, err))
	}
	return &snap, nil
}

// Keys lists archived snapshot keys, oldest first.
func (a *SnapshotArchive) Keys(ctx context.Context) ([]string, error) {
	paths, err := a.store.List(ctx, SnapshotPrefix)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	keys := paths[:0]
	for _, p := range paths {
		if strings.HasSuffix(p, ".json") {
			keys = append(keys, p)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Latest returns the newest archived snapshot, or core.ErrNoSnapshot when the
// archive is empty.
func (a *SnapshotArchive) Latest(ctx context.Context) (*dashboard.Snapshot, error) {
	keys, err := a.Keys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, core.ErrNoSnapshot
	}
	return a.Load(ctx, keys[len(keys)-1])
}

// Prune deletes all but the newest keep snapshots and returns how many were
// removed.
func (a *SnapshotArchive) Prune(ctx context.Context, keep int) (int, error) {
	keys, err := a.Keys(ctx)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	if len(keys) <= keep {
		return 0, nil
	}

	removed := 0
	for _, key := range keys[:len(keys)-keep] {
		if err := a.store.Delete(ctx, key); err != nil {
			return removed, core.WrapError(core.ErrArchiveFailed, err)
		}
		removed++
	}
	return removed, nil
}
