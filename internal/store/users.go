package store

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/reuse/pkg/types"
)

// AddUser appends u and saves. It does not check for an existing username;
// callers look the name up with GetUser first.
func (s *Store) AddUser(u types.User) error {
	s.data.Users = append(s.data.Users, u)
	s.logger.Debug("user added", zap.String("username", u.Username))
	return s.save()
}

// GetUser returns the first user whose username equals username exactly.
func (s *Store) GetUser(username string) (types.User, bool) {
	i := s.userIndex(username)
	if i < 0 {
		return types.User{}, false
	}
	return s.data.Users[i], true
}

// Users returns every user in collection order.
func (s *Store) Users() []types.User {
	out := make([]types.User, len(s.data.Users))
	copy(out, s.data.Users)
	return out
}

// UpdateUser merges upd into the user named username and saves. It reports
// whether the user exists; a save failure is returned as the error and does
// not undo the merge.
func (s *Store) UpdateUser(username string, upd types.UserUpdate) (bool, error) {
	i := s.userIndex(username)
	if i < 0 {
		return false, nil
	}
	upd.Apply(&s.data.Users[i])
	s.logger.Debug("user updated", zap.String("username", username))
	return true, s.save()
}

// PendingUsers returns the users that are not approved, in collection order.
func (s *Store) PendingUsers() []types.User {
	out := []types.User{}
	for _, u := range s.data.Users {
		if !u.IsApproved {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) userIndex(username string) int {
	for i, u := range s.data.Users {
		if u.Username == username {
			return i
		}
	}
	return -1
}
