package types

// Snapshot is the whole registry as persisted in the db_file: three ordered
// collections under fixed member names.
type Snapshot struct {
	Users     []User     `json:"users"`
	ItemTypes []ItemType `json:"item_types"`
	Items     []Item     `json:"items"`
}

// Clone returns a deep copy with non-nil collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Users:     make([]User, len(s.Users)),
		ItemTypes: make([]ItemType, len(s.ItemTypes)),
		Items:     make([]Item, len(s.Items)),
	}
	copy(out.Users, s.Users)
	for i, t := range s.ItemTypes {
		out.ItemTypes[i] = t.Clone()
	}
	for i, it := range s.Items {
		out.Items[i] = it.Clone()
	}
	return out
}
