package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Item is a surplus item listed by a user. ID is unique within the store.
// ItemType and User reference an ItemType name and a username; neither
// reference is enforced. ExtraAttributes holds the values collected for the
// item type's attributes.
type Item struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Address         string            `json:"address"`
	ContactPhone    string            `json:"contact_phone"`
	ContactEmail    string            `json:"contact_email"`
	ItemType        string            `json:"item_type"`
	User            string            `json:"user"`
	ExtraAttributes map[string]string `json:"extra_attributes"`
}

// UnmarshalJSON accepts an id written either as a JSON string or as a JSON
// number; a number is kept as its literal decimal text.
func (it *Item) UnmarshalJSON(data []byte) error {
	type itemAlias Item
	aux := struct {
		ID json.RawMessage `json:"id"`
		*itemAlias
	}{itemAlias: (*itemAlias)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	it.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("item id %s: %w", raw, ErrInvalidValue)
	}
	return n.String(), nil
}

// Validate checks that the item has a name, a description, a pickup address
// and both contact fields.
func (it Item) Validate() error {
	if it.Name == "" {
		return ErrInvalidName
	}
	return requireFields(
		field{"description", it.Description},
		field{"address", it.Address},
		field{"contact_phone", it.ContactPhone},
		field{"contact_email", it.ContactEmail},
	)
}

// Clone returns a copy that shares no memory with it. A nil attribute map
// becomes an empty one so the snapshot never encodes null.
func (it Item) Clone() Item {
	out := it
	out.ExtraAttributes = make(map[string]string, len(it.ExtraAttributes))
	maps.Copy(out.ExtraAttributes, it.ExtraAttributes)
	return out
}

// NormalizeID puts an item id into the form used for comparisons, so that ids
// typed by hand or read back from a table cell match the stored value.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

// ItemFilter narrows Store.Items. Empty fields do not filter.
type ItemFilter struct {
	ItemType string // exact item type name
	Keyword  string // case-insensitive substring of name, description or address
}

// Match reports whether it passes every filter that is set.
func (f ItemFilter) Match(it Item) bool {
	if f.ItemType != "" && it.ItemType != f.ItemType {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(it.Name), kw) &&
			!strings.Contains(strings.ToLower(it.Description), kw) &&
			!strings.Contains(strings.ToLower(it.Address), kw) {
			return false
		}
	}
	return true
}

// ItemUpdate is a partial update for an Item. A nil field is left untouched.
// A non-nil ExtraAttributes replaces the whole attribute map. ID has no
// counterpart here because it is the record's identity.
type ItemUpdate struct {
	Name            *string
	Description     *string
	Address         *string
	ContactPhone    *string
	ContactEmail    *string
	ItemType        *string
	User            *string
	ExtraAttributes map[string]string
}

// IsEmpty reports whether the update mentions no field at all.
func (u ItemUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Address == nil &&
		u.ContactPhone == nil && u.ContactEmail == nil && u.ItemType == nil &&
		u.User == nil && u.ExtraAttributes == nil
}

// Apply merges the mentioned fields into it.
func (u ItemUpdate) Apply(it *Item) {
	if u.Name != nil {
		it.Name = *u.Name
	}
	if u.Description != nil {
		it.Description = *u.Description
	}
	if u.Address != nil {
		it.Address = *u.Address
	}
	if u.ContactPhone != nil {
		it.ContactPhone = *u.ContactPhone
	}
	if u.ContactEmail != nil {
		it.ContactEmail = *u.ContactEmail
	}
	if u.ItemType != nil {
		it.ItemType = *u.ItemType
	}
	if u.User != nil {
		it.User = *u.User
	}
	if u.ExtraAttributes != nil {
		it.ExtraAttributes = maps.Clone(u.ExtraAttributes)
	}
}

// extraAttributePrefix marks flat keys that address one extra attribute,
// e.g. "extra_attributes.quantity".
const extraAttributePrefix = "extra_attributes."

// ParseItemUpdate builds an ItemUpdate from flat field/value pairs keyed by
// the snapshot field names. Keys of the form "extra_attributes.<name>" are
// collected into ExtraAttributes.
func ParseItemUpdate(fields map[string]string) (ItemUpdate, error) {
	var upd ItemUpdate
	for field, value := range fields {
		switch field {
		case "id":
			return ItemUpdate{}, fmt.Errorf("%s: %w", field, ErrImmutableField)
		case "name":
			upd.Name = Ptr(value)
		case "description":
			upd.Description = Ptr(value)
		case "address":
			upd.Address = Ptr(value)
		case "contact_phone":
			upd.ContactPhone = Ptr(value)
		case "contact_email":
			upd.ContactEmail = Ptr(value)
		case "item_type":
			upd.ItemType = Ptr(value)
		case "user":
			upd.User = Ptr(value)
		default:
			attr, ok := strings.CutPrefix(field, extraAttributePrefix)
			if !ok || attr == "" {
				return ItemUpdate{}, fmt.Errorf("%s: %w", field, ErrUnknownField)
			}
			if upd.ExtraAttributes == nil {
				upd.ExtraAttributes = make(map[string]string)
			}
			upd.ExtraAttributes[attr] = value
		}
	}
	return upd, nil
}
