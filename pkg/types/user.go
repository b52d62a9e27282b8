package types

import (
	"fmt"
	"strconv"
)

// User is a registered community member. Username is the identity and never
// changes once the record exists. Password is an opaque string compared
// verbatim.
type User struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"is_admin"`
	IsApproved bool   `json:"is_approved"`
}

// Validate checks the fields a registration must carry: credentials and
// every profile field.
func (u User) Validate() error {
	if u.Username == "" {
		return ErrInvalidUsername
	}
	if u.Password == "" {
		return ErrInvalidPassword
	}
	return requireFields(
		field{"name", u.Name},
		field{"address", u.Address},
		field{"phone", u.Phone},
		field{"email", u.Email},
	)
}

// UserUpdate is a partial update for a User. A nil field is left untouched.
// Username has no counterpart here because it is the record's identity.
type UserUpdate struct {
	Password   *string
	Name       *string
	Address    *string
	Phone      *string
	Email      *string
	IsAdmin    *bool
	IsApproved *bool
}

// Approval is the update applied when an administrator approves a user.
func Approval() UserUpdate {
	return UserUpdate{IsApproved: Ptr(true)}
}

// IsEmpty reports whether the update mentions no field at all.
func (u UserUpdate) IsEmpty() bool {
	return u == UserUpdate{}
}

// Apply merges the mentioned fields into user.
func (u UserUpdate) Apply(user *User) {
	if u.Password != nil {
		user.Password = *u.Password
	}
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Address != nil {
		user.Address = *u.Address
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.IsAdmin != nil {
		user.IsAdmin = *u.IsAdmin
	}
	if u.IsApproved != nil {
		user.IsApproved = *u.IsApproved
	}
}

// ParseUserUpdate builds a UserUpdate from flat field/value pairs keyed by the
// snapshot field names (e.g. "is_approved" -> "true").
func ParseUserUpdate(fields map[string]string) (UserUpdate, error) {
	var upd UserUpdate
	for field, value := range fields {
		switch field {
		case "username":
			return UserUpdate{}, fmt.Errorf("%s: %w", field, ErrImmutableField)
		case "password":
			upd.Password = Ptr(value)
		case "name":
			upd.Name = Ptr(value)
		case "address":
			upd.Address = Ptr(value)
		case "phone":
			upd.Phone = Ptr(value)
		case "email":
			upd.Email = Ptr(value)
		case "is_admin", "is_approved":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return UserUpdate{}, fmt.Errorf("%s=%q: %w", field, value, ErrInvalidValue)
			}
			if field == "is_admin" {
				upd.IsAdmin = Ptr(b)
			} else {
				upd.IsApproved = Ptr(b)
			}
		default:
			return UserUpdate{}, fmt.Errorf("%s: %w", field, ErrUnknownField)
		}
	}
	return upd, nil
}
