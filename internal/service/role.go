package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// RoleService manages roles and their assignment to users.
type RoleService struct {
	roles RoleStore
	users UserStore
	log   logrus.FieldLogger
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles RoleStore, users UserStore, log logrus.FieldLogger) *RoleService {
	return &RoleService{roles: roles, users: users, log: log.WithField("service", "roles")}
}

// EnsureDefaults creates ROLE_USER and ROLE_ADMIN when missing.
func (s *RoleService) EnsureDefaults(ctx context.Context) error {
	for _, name := range []string{model.RoleUser, model.RoleAdmin} {
		_, err := s.roles.Create(ctx, name)
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("ensure role %s: %w", name, err)
		}
	}
	return nil
}

func (s *RoleService) List(ctx context.Context) ([]model.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	if roles == nil {
		roles = []model.Role{}
	}
	return roles, nil
}

// Create adds a role. The name is stored upper-case with a ROLE_ prefix.
func (s *RoleService) Create(ctx context.Context, req model.CreateRoleRequest) (*model.Role, error) {
	ctx, span := tracer().Start(ctx, "RoleService.Create")
	defer span.End()

	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	name := model.RoleName(req.Name)
	if name == "ROLE_" {
		return nil, newError(ErrValidation, "name is required")
	}

	role, err := s.roles.Create(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, name+" role already exists")
		}
		return nil, fail(span, fmt.Errorf("create role: %w", err))
	}
	s.log.WithField("role", role.Name).Info("role created")
	return role, nil
}

// Delete unassigns a role from every user and removes it.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer().Start(ctx, "RoleService.Delete")
	defer span.End()

	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fail(span, fmt.Errorf("delete role: %w", err))
	}
	s.log.WithField("role_id", id).Info("role deleted")
	return nil
}

func (s *RoleService) RemoveAllUsers(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.roles.RemoveAllUsers(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("remove all users from role: %w", err)
	}
	return role, nil
}

// Assign grants roleID to userID and returns the updated user.
func (s *RoleService) Assign(ctx context.Context, userID, roleID string) (*model.User, error) {
	ctx, span := tracer().Start(ctx, "RoleService.Assign")
	defer span.End()

	u, role, err := s.lookup(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if u.HasRole(role.ID) {
		return nil, newError(ErrConflict, fmt.Sprintf("%s is already assigned to the %s role", u.FirstName, role.Name))
	}

	if err := s.roles.AddUser(ctx, role.ID, u.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrRoleAssigned
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fail(span, fmt.Errorf("assign role: %w", err))
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": role.Name}).Info("role assigned")
	return s.reload(ctx, u.ID)
}

// RemoveUser revokes roleID from userID and returns the updated user.
func (s *RoleService) RemoveUser(ctx context.Context, userID, roleID string) (*model.User, error) {
	ctx, span := tracer().Start(ctx, "RoleService.RemoveUser")
	defer span.End()

	u, role, err := s.lookup(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(role.ID) {
		return nil, ErrRoleNotAssigned
	}

	if err := s.roles.RemoveUser(ctx, role.ID, u.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotAssigned
		}
		return nil, fail(span, fmt.Errorf("remove role: %w", err))
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": role.Name}).Info("role removed")
	return s.reload(ctx, u.ID)
}

func (s *RoleService) lookup(ctx context.Context, userID, roleID string) (*model.User, *model.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrRoleNotFound
		}
		return nil, nil, fmt.Errorf("get role: %w", err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	return u, role, nil
}

func (s *RoleService) reload(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return u, nil
}
