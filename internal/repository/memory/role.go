package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// RoleStore keeps roles and assignments in memory.
type RoleStore struct {
	db *DB
}

func (s *RoleStore) List(_ context.Context) ([]model.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	roles := make([]model.Role, 0, len(s.db.roles))
	for _, r := range s.db.roles {
		roles = append(roles, *r)
	}
	sortRoles(roles)
	return roles, nil
}

func (s *RoleStore) Create(_ context.Context, name string) (*model.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if s.db.roleByName(name) != nil {
		return nil, repository.ErrDuplicate
	}
	role := &model.Role{ID: uuid.New().String(), Name: name}
	s.db.roles[role.ID] = role

	out := *role
	return &out, nil
}

func (s *RoleStore) GetByID(_ context.Context, id string) (*model.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	role, ok := s.db.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *role
	return &out, nil
}

func (s *RoleStore) GetByName(_ context.Context, name string) (*model.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	role := s.db.roleByName(name)
	if role == nil {
		return nil, repository.ErrNotFound
	}
	out := *role
	return &out, nil
}

func (s *RoleStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.roles[id]; !ok {
		return repository.ErrNotFound
	}
	s.db.unassignAll(id)
	delete(s.db.roles, id)
	return nil
}

func (s *RoleStore) RemoveAllUsers(_ context.Context, id string) (*model.Role, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	role, ok := s.db.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.db.unassignAll(id)
	out := *role
	return &out, nil
}

func (s *RoleStore) AddUser(_ context.Context, roleID, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.roles[roleID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := s.db.users[userID]; !ok {
		return repository.ErrNotFound
	}
	assigned := s.db.userRoles[userID]
	if assigned == nil {
		assigned = make(map[string]struct{})
		s.db.userRoles[userID] = assigned
	}
	if _, ok := assigned[roleID]; ok {
		return repository.ErrDuplicate
	}
	assigned[roleID] = struct{}{}
	return nil
}

func (s *RoleStore) RemoveUser(_ context.Context, roleID, userID string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	assigned := s.db.userRoles[userID]
	if _, ok := assigned[roleID]; !ok {
		return repository.ErrNotFound
	}
	delete(assigned, roleID)
	return nil
}

// roleByName must be called with db.mu held.
func (db *DB) roleByName(name string) *model.Role {
	for _, r := range db.roles {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// unassignAll must be called with db.mu held.
func (db *DB) unassignAll(roleID string) {
	for _, assigned := range db.userRoles {
		delete(assigned, roleID)
	}
}

func sortRoles(roles []model.Role) {
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
}
