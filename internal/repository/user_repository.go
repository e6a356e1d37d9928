package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/acadport/acadport-api/internal/models"
)

// UserRepository manages persistence for portal users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail fetches a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, department_id, active, last_login, created_at, updated_at
        FROM users WHERE email = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, department_id, active, last_login, created_at, updated_at
        FROM users WHERE id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindTeacher fetches an active teacher within the department scope.
func (r *UserRepository) FindTeacher(ctx context.Context, departmentID, id string) (*models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, department_id, active, last_login, created_at, updated_at
        FROM users WHERE id = $1 AND department_id = $2 AND role = $3 AND active = true`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, departmentID, models.RoleTeacher); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListTeachers returns active teachers for a department.
func (r *UserRepository) ListTeachers(ctx context.Context, departmentID string) ([]models.User, error) {
	const query = `SELECT id, email, password_hash, full_name, role, department_id, active, last_login, created_at, updated_at
        FROM users WHERE department_id = $1 AND role = $2 AND active = true ORDER BY full_name`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, departmentID, models.RoleTeacher); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return users, nil
}

// FindDepartment fetches a department by ID.
func (r *UserRepository) FindDepartment(ctx context.Context, id string) (*models.Department, error) {
	const query = `SELECT id, name FROM departments WHERE id = $1`
	var dept models.Department
	if err := r.db.GetContext(ctx, &dept, query, id); err != nil {
		return nil, err
	}
	return &dept, nil
}

// UpdateLastLogin records the most recent login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
