package store

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// AddItemType appends t and saves. Like AddUser it does not check for an
// existing name.
func (s *Store) AddItemType(t types.ItemType) error {
	s.data.ItemTypes = append(s.data.ItemTypes, t.Clone())
	s.logger.Debug("item type added", zap.String("name", t.Name))
	return s.save()
}

// ItemTypes returns every item type in collection order.
func (s *Store) ItemTypes() []types.ItemType {
	out := make([]types.ItemType, len(s.data.ItemTypes))
	for i, t := range s.data.ItemTypes {
		out[i] = t.Clone()
	}
	return out
}

// GetItemType returns the first item type called name.
func (s *Store) GetItemType(name string) (types.ItemType, bool) {
	i := s.itemTypeIndex(name)
	if i < 0 {
		return types.ItemType{}, false
	}
	return s.data.ItemTypes[i].Clone(), true
}

// UpdateItemType replaces the whole item type called oldName with t (name and
// attribute list) and saves. Unlike UpdateUser and UpdateItem this is not a
// merge. It reports whether oldName existed.
func (s *Store) UpdateItemType(oldName string, t types.ItemType) (bool, error) {
	i := s.itemTypeIndex(oldName)
	if i < 0 {
		return false, nil
	}
	s.data.ItemTypes[i] = t.Clone()
	s.logger.Debug("item type replaced", zap.String("old_name", oldName), zap.String("name", t.Name))
	return true, s.save()
}

func (s *Store) itemTypeIndex(name string) int {
	for i, t := range s.data.ItemTypes {
		if t.Name == name {
			return i
		}
	}
	return -1
}
