package types

import "errors"

// Persistence errors. A mutating store operation returns ErrPersist (wrapped)
// when the in-memory change was applied but the snapshot could not be written.
var (
	ErrPersist = errors.New("snapshot not persisted")
)

// Field and value errors raised while building records or partial updates.
var (
	ErrInvalidName     = errors.New("name must not be empty")
	ErrInvalidUsername = errors.New("username must not be empty")
	ErrInvalidPassword = errors.New("password must not be empty")
	ErrMissingField    = errors.New("required field is empty")
	ErrInvalidAttr     = errors.New("attribute name must not be empty")
	ErrDuplicateAttr   = errors.New("attribute listed twice")
	ErrUnknownField    = errors.New("unknown field")
	ErrImmutableField  = errors.New("field cannot be updated")
	ErrInvalidValue    = errors.New("invalid field value")
)

// Registry errors.
var (
	ErrUserExists       = errors.New("username already exists")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrNotApproved      = errors.New("account is waiting for approval")
	ErrItemTypeExists   = errors.New("item type already exists")
	ErrItemTypeNotFound = errors.New("item type not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrUnknownAttribute = errors.New("attribute not defined by item type")
	ErrForbidden        = errors.New("operation not permitted")
)
