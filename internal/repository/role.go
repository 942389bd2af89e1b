package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/hotel-booking/internal/model"
)

// RoleRepository handles persistence for roles and their user assignments.
type RoleRepository struct {
	db *pgxpool.Pool
}

// NewRoleRepository constructs a RoleRepository.
func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

// List returns all roles ordered by name.
func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Create inserts a role named name or returns ErrDuplicate.
func (r *RoleRepository) Create(ctx context.Context, name string) (*model.Role, error) {
	role := &model.Role{ID: uuid.New().String(), Name: name}
	_, err := r.db.Exec(ctx, `INSERT INTO roles (id, name) VALUES ($1, $2)`, role.ID, role.Name)
	if err != nil {
		if pgCode(err) == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return role, nil
}

// GetByID returns a role or ErrNotFound.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*model.Role, error) {
	return r.get(ctx, `SELECT id, name FROM roles WHERE id = $1`, id)
}

// GetByName returns a role or ErrNotFound.
func (r *RoleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	return r.get(ctx, `SELECT id, name FROM roles WHERE name = $1`, name)
}

func (r *RoleRepository) get(ctx context.Context, query string, arg any) (*model.Role, error) {
	var role model.Role
	if err := r.db.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// Delete removes every assignment of the role and then the role itself.
func (r *RoleRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, id); err != nil {
		return fmt.Errorf("remove role assignments: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrNotFound
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RemoveAllUsers clears every assignment of the role and returns it.
func (r *RoleRepository) RemoveAllUsers(ctx context.Context, id string) (*model.Role, error) {
	role, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM user_roles WHERE role_id = $1`, id); err != nil {
		return nil, fmt.Errorf("remove role assignments: %w", err)
	}
	return role, nil
}

// AddUser assigns the role to the user. It returns ErrDuplicate when the
// assignment exists and ErrNotFound when either side is missing.
func (r *RoleRepository) AddUser(ctx context.Context, roleID, userID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
		userID, roleID,
	)
	switch pgCode(err) {
	case "":
	case uniqueViolation:
		return ErrDuplicate
	case foreignKeyViolation:
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// RemoveUser removes one assignment or returns ErrNotFound.
func (r *RoleRepository) RemoveUser(ctx context.Context, roleID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`,
		userID, roleID,
	)
	if err != nil {
		return fmt.Errorf("remove role assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
