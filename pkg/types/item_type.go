package types

import (
	"fmt"
	"slices"
	"strings"
)

// ItemType is a category of items. Attributes names the extra fields that
// items of this type collect, in prompt order.
type ItemType struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// Validate checks that the item type has a name and that its attribute names
// are non-empty and distinct.
func (t ItemType) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	seen := make(map[string]struct{}, len(t.Attributes))
	for i, attr := range t.Attributes {
		if strings.TrimSpace(attr) == "" {
			return fmt.Errorf("attribute %d of %q: %w", i+1, t.Name, ErrInvalidAttr)
		}
		if _, dup := seen[attr]; dup {
			return fmt.Errorf("%q of %q: %w", attr, t.Name, ErrDuplicateAttr)
		}
		seen[attr] = struct{}{}
	}
	return nil
}

// Normalize returns a copy with the name and every attribute name trimmed of
// surrounding whitespace.
func (t ItemType) Normalize() ItemType {
	out := t.Clone()
	out.Name = strings.TrimSpace(out.Name)
	for i, attr := range out.Attributes {
		out.Attributes[i] = strings.TrimSpace(attr)
	}
	return out
}

// HasAttribute reports whether name is one of the type's attributes.
func (t ItemType) HasAttribute(name string) bool {
	return slices.Contains(t.Attributes, name)
}

// Clone returns a copy that shares no memory with t. A nil attribute list
// becomes an empty one so the snapshot never encodes null.
func (t ItemType) Clone() ItemType {
	out := t
	out.Attributes = make([]string, len(t.Attributes))
	copy(out.Attributes, t.Attributes)
	return out
}
