package store

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// AddItem appends it and saves, returning the item as committed.
//
// Identity is settled in fixed steps: an item without an id gets a generated
// one; if that id (normalized) is already taken, it is regenerated exactly
// once; then the item is appended. A caller-supplied duplicate id is therefore
// replaced rather than rejected.
func (s *Store) AddItem(it types.Item) (types.Item, error) {
	it = it.Clone()
	it.ID = types.NormalizeID(it.ID)
	if it.ID == "" {
		it.ID = s.newID()
	}
	if s.itemIndex(it.ID) >= 0 {
		taken := it.ID
		it.ID = s.reroll()
		s.logger.Warn("item id already exists, regenerated",
			zap.String("id", taken), zap.String("new_id", it.ID))
	}
	s.data.Items = append(s.data.Items, it)
	s.logger.Debug("item added", zap.String("id", it.ID), zap.String("item_type", it.ItemType))
	return it.Clone(), s.save()
}

// Items returns the items passing f, in collection order. A zero filter
// returns every item.
func (s *Store) Items(f types.ItemFilter) []types.Item {
	out := []types.Item{}
	for _, it := range s.data.Items {
		if f.Match(it) {
			out = append(out, it.Clone())
		}
	}
	return out
}

// GetItem returns the first item whose id equals id after normalization.
func (s *Store) GetItem(id string) (types.Item, bool) {
	i := s.itemIndex(id)
	if i < 0 {
		return types.Item{}, false
	}
	return s.data.Items[i].Clone(), true
}

// DeleteItem removes the item with the given id and saves. It reports whether
// anything was removed; nothing is written when nothing matched.
func (s *Store) DeleteItem(id string) (bool, error) {
	id = types.NormalizeID(id)
	before := len(s.data.Items)
	kept := s.data.Items[:0]
	for _, it := range s.data.Items {
		if types.NormalizeID(it.ID) != id {
			kept = append(kept, it)
		}
	}
	clear(s.data.Items[len(kept):])
	s.data.Items = kept
	after := len(s.data.Items)

	s.logger.Info("delete item",
		zap.String("id", id), zap.Int("before", before), zap.Int("after", after))
	if after == before {
		return false, nil
	}
	return true, s.save()
}

// UpdateItem merges upd into the item with the given id and saves. It reports
// whether the item exists.
func (s *Store) UpdateItem(id string, upd types.ItemUpdate) (bool, error) {
	i := s.itemIndex(id)
	if i < 0 {
		return false, nil
	}
	upd.Apply(&s.data.Items[i])
	s.logger.Debug("item updated", zap.String("id", s.data.Items[i].ID))
	return true, s.save()
}

func (s *Store) itemIndex(id string) int {
	id = types.NormalizeID(id)
	for i, it := range s.data.Items {
		if types.NormalizeID(it.ID) == id {
			return i
		}
	}
	return -1
}
