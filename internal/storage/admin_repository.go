package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// AdminRepository handles operator account database operations
type AdminRepository struct {
	db *DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByEmail retrieves an admin account by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	query := `
		SELECT email, password_hash, role, is_active, created_at, created_by
		FROM admins
		WHERE email = $1
	`

	err := r.db.conn.GetContext(ctx, &admin, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

// Create inserts a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	query := `
		INSERT INTO admins (email, password_hash, role, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, NOW(), $5)
	`

	_, err := r.db.conn.ExecContext(ctx, query,
		admin.Email, admin.PasswordHash, admin.Role, admin.IsActive, admin.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// List returns all admin accounts
func (r *AdminRepository) List(ctx context.Context) ([]*models.AdminUser, error) {
	query := `
		SELECT email, password_hash, role, is_active, created_at, created_by
		FROM admins
		ORDER BY created_at
	`

	var admins []*models.AdminUser
	err := r.db.conn.SelectContext(ctx, &admins, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	return admins, nil
}

// SetActive enables or disables an admin account
func (r *AdminRepository) SetActive(ctx context.Context, email string, active bool) error {
	res, err := r.db.conn.ExecContext(ctx, `UPDATE admins SET is_active = $1 WHERE email = $2`, active, email)
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return ErrAdminNotFound
	}

	return nil
}
