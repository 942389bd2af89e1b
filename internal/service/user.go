package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/auth"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
	"github.com/Shivanand-hulikatti/hotel-booking/internal/repository"
)

// UserService handles registration, login and account lookups.
type UserService struct {
	users  UserStore
	roles  RoleStore
	tokens TokenIssuer
	log    logrus.FieldLogger
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, roles RoleStore, tokens TokenIssuer, log logrus.FieldLogger) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		tokens: tokens,
		log:    log.WithField("service", "users"),
	}
}

// Register creates an account holding ROLE_USER.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	ctx, span := tracer().Start(ctx, "UserService.Register")
	defer span.End()

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fail(span, err)
	}
	u := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
	}
	if err := s.users.Create(ctx, u, model.RoleUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fail(span, fmt.Errorf("register user: %w", err))
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")
	return u, nil
}

// Login checks credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.JWTResponse, error) {
	ctx, span := tracer().Start(ctx, "UserService.Login")
	defer span.End()

	if err := validate.Struct(req); err != nil {
		return nil, invalid(err)
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fail(span, fmt.Errorf("login: %w", err))
	}
	if err := auth.CheckPassword(u.Password, req.Password); err != nil {
		s.log.WithField("email", u.Email).Warn("failed login attempt")
		return nil, ErrBadCredentials
	}

	roles := u.RoleNames()
	token, err := s.tokens.Issue(u.ID, u.Email, roles)
	if err != nil {
		return nil, fail(span, fmt.Errorf("login: %w", err))
	}
	return &model.JWTResponse{
		ID:    u.ID,
		Email: u.Email,
		Token: token,
		Type:  "Bearer",
		Roles: roles,
	}, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// ByEmail returns one account.
func (s *UserService) ByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Delete removes an account and its role assignments.
func (s *UserService) Delete(ctx context.Context, email string) error {
	ctx, span := tracer().Start(ctx, "UserService.Delete")
	defer span.End()

	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fail(span, fmt.Errorf("delete user: %w", err))
	}
	s.log.WithField("email", email).Info("user deleted")
	return nil
}

// EnsureAdmin makes sure an account with ROLE_ADMIN exists for email. An
// empty email is a no-op.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		admin, err := s.roles.GetByName(ctx, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		if u.HasRole(admin.ID) {
			return nil
		}
		if err := s.roles.AddUser(ctx, admin.ID, u.ID); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
		s.log.WithField("email", u.Email).Info("granted admin role")
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("ensure admin: %w", err)
	}

	if len(password) < 8 {
		return newError(ErrValidation, "admin password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	u = &model.User{FirstName: "Admin", LastName: "Admin", Email: email, Password: hash}
	if err := s.users.Create(ctx, u, model.RoleUser, model.RoleAdmin); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	s.log.WithField("email", u.Email).Info("admin account created")
	return nil
}
