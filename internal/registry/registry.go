// Package registry holds the caller-side rules of the re-use registry that
// sit on top of the record store: duplicate-username checks on registration,
// the login gate, approval, item-type administration, and listing an item
// against its type's attribute list.
package registry

import (
	"errors"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/internal/store"
	"github.com/mesh-intelligence/reuse/pkg/types"
)

// Service applies registry rules to a Store.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// New returns a Service over st. A nil logger discards output.
func New(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger}
}

// Store returns the underlying record store.
func (s *Service) Store() *store.Store {
	return s.store
}

// Register adds u as a new, unapproved, non-admin user. It returns
// ErrUserExists when the username is taken.
func (s *Service) Register(u types.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if _, ok := s.store.GetUser(u.Username); ok {
		return fmt.Errorf("%q: %w", u.Username, types.ErrUserExists)
	}
	u.IsAdmin = false
	u.IsApproved = false
	if err := s.store.AddUser(u); err != nil {
		return err
	}
	s.logger.Info("user registered", zap.String("username", u.Username))
	return nil
}

// Login returns the user when username exists, password matches verbatim,
// and the account has been approved.
func (s *Service) Login(username, password string) (types.User, error) {
	u, ok := s.store.GetUser(username)
	if !ok {
		return types.User{}, fmt.Errorf("%q: %w", username, types.ErrUserNotFound)
	}
	if u.Password != password {
		return types.User{}, types.ErrWrongPassword
	}
	if !u.IsApproved {
		return types.User{}, fmt.Errorf("%q: %w", username, types.ErrNotApproved)
	}
	return u, nil
}

// Approve marks each named user approved on behalf of actor, who must be an
// administrator. Unknown names are reported together after the known ones
// have been applied.
func (s *Service) Approve(actor string, usernames ...string) error {
	if err := s.requireAdmin(actor, "approve users"); err != nil {
		return err
	}
	var errs []error
	for _, name := range usernames {
		found, err := s.store.UpdateUser(name, types.Approval())
		if !found {
			errs = append(errs, fmt.Errorf("%q: %w", name, types.ErrUserNotFound))
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s.logger.Info("user approved", zap.String("username", name))
	}
	return errors.Join(errs...)
}

// UpdateUser merges upd into the named user.
func (s *Service) UpdateUser(username string, upd types.UserUpdate) error {
	found, err := s.store.UpdateUser(username, upd)
	if !found {
		return fmt.Errorf("%q: %w", username, types.ErrUserNotFound)
	}
	return err
}

// AddItemType adds t on behalf of actor, who must be an administrator, unless
// an item type with the same name exists. Names are trimmed before checking.
func (s *Service) AddItemType(actor string, t types.ItemType) error {
	if err := s.requireAdmin(actor, "add item types"); err != nil {
		return err
	}
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := s.store.GetItemType(t.Name); ok {
		return fmt.Errorf("%q: %w", t.Name, types.ErrItemTypeExists)
	}
	return s.store.AddItemType(t)
}

// EditItemType replaces the item type oldName with t on behalf of actor, who
// must be an administrator. Renaming onto the name of another existing type
// is refused.
func (s *Service) EditItemType(actor, oldName string, t types.ItemType) error {
	if err := s.requireAdmin(actor, "edit item types"); err != nil {
		return err
	}
	t = t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}
	if t.Name != oldName {
		if _, ok := s.store.GetItemType(t.Name); ok {
			return fmt.Errorf("%q: %w", t.Name, types.ErrItemTypeExists)
		}
	}
	found, err := s.store.UpdateItemType(oldName, t)
	if !found {
		return fmt.Errorf("%q: %w", oldName, types.ErrItemTypeNotFound)
	}
	return err
}

// ListItem records it as listed by owner. The owner must be an approved user
// and it.ItemType an existing item type; extra attributes must be among the
// type's attributes, and empty values are dropped. The returned item carries
// the id the store committed.
func (s *Service) ListItem(owner string, it types.Item) (types.Item, error) {
	u, ok := s.store.GetUser(owner)
	if !ok {
		return types.Item{}, fmt.Errorf("%q: %w", owner, types.ErrUserNotFound)
	}
	if !u.IsApproved {
		return types.Item{}, fmt.Errorf("%q: %w", owner, types.ErrNotApproved)
	}
	if err := it.Validate(); err != nil {
		return types.Item{}, err
	}
	typ, ok := s.store.GetItemType(it.ItemType)
	if !ok {
		return types.Item{}, fmt.Errorf("%q: %w", it.ItemType, types.ErrItemTypeNotFound)
	}

	attrs := make(map[string]string, len(it.ExtraAttributes))
	for k, v := range it.ExtraAttributes {
		if !typ.HasAttribute(k) {
			return types.Item{}, fmt.Errorf("%q for %q: %w", k, typ.Name, types.ErrUnknownAttribute)
		}
		if v != "" {
			attrs[k] = v
		}
	}
	it.ExtraAttributes = attrs
	it.User = owner

	added, err := s.store.AddItem(it)
	if err != nil {
		return added, err
	}
	s.logger.Info("item listed",
		zap.String("id", added.ID), zap.String("item_type", added.ItemType), zap.String("user", owner))
	return added, nil
}

// UpdateItem merges upd into the item with the given id. Extra attributes in
// upd are laid over the item's current ones instead of replacing them.
func (s *Service) UpdateItem(id string, upd types.ItemUpdate) error {
	cur, ok := s.store.GetItem(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, types.ErrItemNotFound)
	}
	if upd.ExtraAttributes != nil {
		merged := make(map[string]string, len(cur.ExtraAttributes)+len(upd.ExtraAttributes))
		maps.Copy(merged, cur.ExtraAttributes)
		maps.Copy(merged, upd.ExtraAttributes)
		upd.ExtraAttributes = merged
	}
	found, err := s.store.UpdateItem(id, upd)
	if !found {
		return fmt.Errorf("%q: %w", id, types.ErrItemNotFound)
	}
	return err
}

// RemoveItem deletes the item with the given id on behalf of actor. Only the
// item's owner or an administrator may remove it. An empty actor skips the
// ownership check.
func (s *Service) RemoveItem(actor, id string) error {
	it, ok := s.store.GetItem(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, types.ErrItemNotFound)
	}
	if actor != it.User {
		if err := s.requireAdmin(actor, "delete "+types.NormalizeID(id)); err != nil {
			return err
		}
	}
	removed, err := s.store.DeleteItem(id)
	if !removed {
		return fmt.Errorf("%q: %w", id, types.ErrItemNotFound)
	}
	return err
}

// requireAdmin returns ErrForbidden unless actor is an administrator. An empty
// actor is a trusted caller and passes.
func (s *Service) requireAdmin(actor, action string) error {
	if actor == "" {
		return nil
	}
	if u, ok := s.store.GetUser(actor); ok && u.IsAdmin {
		return nil
	}
	s.logger.Warn("forbidden", zap.String("actor", actor), zap.String("action", action))
	return fmt.Errorf("%q may not %s: %w", actor, action, types.ErrForbidden)
}
