// Package store implements the record store of the re-use registry. The store
// owns the users, item types and items collections in memory and mirrors them
// to one JSON snapshot file, rewritten in full after every mutation.
//
// A Store is not safe for concurrent use and assumes it is the only writer of
// its snapshot file.
package store

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// Store holds the registry collections and their snapshot path.
type Store struct {
	path   string
	logger *zap.Logger

	newID  func() string // id for an item added without one
	reroll func() string // replacement id after a collision
	data   types.Snapshot
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerators replaces the functions that produce item ids: gen for items
// added without an id, reroll for the single regeneration after a collision.
func WithIDGenerators(gen, reroll func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
		if reroll != nil {
			s.reroll = reroll
		}
	}
}

// Open creates a Store backed by cfg.DBFile (types.DefaultDBFile when empty)
// and loads the snapshot. Open never fails: a missing, unreadable or
// malformed snapshot yields empty collections and a log entry.
func Open(cfg types.Config, opts ...Option) *Store {
	path := cfg.DBFile
	if path == "" {
		path = types.DefaultDBFile
	}
	s := &Store{
		path:   path,
		logger: zap.NewNop(),
		newID:  types.GenerateItemID,
		reroll: types.RegenerateItemID,
		data:   types.Snapshot{}.Clone(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load()
	return s
}

func (s *Store) load() {
	snap, err := readSnapshot(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Info("snapshot not found, starting empty", zap.String("path", s.path))
	case err != nil:
		s.logger.Warn("snapshot unreadable, starting empty", zap.String("path", s.path), zap.Error(err))
	default:
		s.data = snap
		s.logger.Info("snapshot loaded",
			zap.String("path", s.path),
			zap.Int("users", len(snap.Users)),
			zap.Int("item_types", len(snap.ItemTypes)),
			zap.Int("items", len(snap.Items)),
		)
	}
}

// Path returns the snapshot file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a deep copy of all three collections.
func (s *Store) Snapshot() types.Snapshot {
	return s.data.Clone()
}

// Save writes the full snapshot. Mutating operations call it themselves; it
// is exported for explicit re-saves.
func (s *Store) Save() error {
	return s.save()
}

// save serializes every collection and replaces the snapshot file. On failure
// the in-memory state is kept and the returned error wraps types.ErrPersist.
func (s *Store) save() error {
	data, err := encodeSnapshot(s.data)
	if err == nil {
		err = writeFileAtomic(s.path, data)
	}
	if err != nil {
		s.logger.Error("snapshot save failed", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", types.ErrPersist, s.path, err)
	}
	s.logger.Debug("snapshot saved", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}
