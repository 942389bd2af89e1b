package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// UserStore keeps users in memory.
type UserStore struct {
	db *DB
}

func (s *UserStore) Create(_ context.Context, u *model.User, roleNames ...string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.db.users {
		if other.Email == email {
			return repository.ErrDuplicate
		}
	}

	assigned := make(map[string]struct{}, len(roleNames))
	for _, name := range roleNames {
		role := s.db.roleByName(name)
		if role == nil {
			return fmt.Errorf("role %s: %w", name, repository.ErrNotFound)
		}
		assigned[role.ID] = struct{}{}
	}

	u.ID = uuid.New().String()
	u.Email = email
	u.CreatedAt = time.Now().UTC()

	stored := *u
	stored.Roles = nil
	s.db.users[u.ID] = &stored
	s.db.userRoles[u.ID] = assigned
	u.Roles = s.db.rolesOf(u.ID)
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.db.users {
		if u.Email == email {
			return s.withRoles(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.withRoles(u), nil
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	users := make([]model.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, *s.withRoles(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (s *UserStore) DeleteByEmail(_ context.Context, email string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for id, u := range s.db.users {
		if u.Email == email {
			delete(s.db.users, id)
			delete(s.db.userRoles, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// withRoles must be called with db.mu held.
func (s *UserStore) withRoles(u *model.User) *model.User {
	out := *u
	out.Roles = s.db.rolesOf(u.ID)
	return &out
}
