package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// UserRepository handles user account database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user account by its external identity
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserAccount, error) {
	var user models.UserAccount
	query := `
		SELECT id, email, account_type, credit_balance, assigned_provider, role, created_at
		FROM users
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user account
func (r *UserRepository) Create(ctx context.Context, user *models.UserAccount) error {
	query := `
		INSERT INTO users (id, email, account_type, credit_balance, assigned_provider, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.db.conn.ExecContext(ctx, query,
		user.ID, user.Email, user.AccountType, user.CreditBalance,
		user.AssignedProvider, user.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// List returns all user accounts
func (r *UserRepository) List(ctx context.Context) ([]*models.UserAccount, error) {
	query := `
		SELECT id, email, account_type, credit_balance, assigned_provider, role, created_at
		FROM users
		ORDER BY created_at DESC
	`

	var users []*models.UserAccount
	err := r.db.conn.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// AdjustBalance applies an atomic delta to a user's credit balance. The
// mutation is expressed server-side so concurrent requests for the same
// identity serialize without a read lock; a locally computed balance is
// never written back.
func (r *UserRepository) AdjustBalance(ctx context.Context, id string, delta int64) error {
	query := `UPDATE users SET credit_balance = credit_balance + $1 WHERE id = $2`

	res, err := r.db.conn.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjusted rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AdjustBalanceTx applies an atomic balance delta inside an existing transaction.
func (r *UserRepository) AdjustBalanceTx(ctx context.Context, tx *sqlx.Tx, id string, delta int64) error {
	query := `UPDATE users SET credit_balance = credit_balance + $1 WHERE id = $2`

	res, err := tx.ExecContext(ctx, query, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjusted rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// AdminUpdate contains the fields an operator may overwrite on a user.
type AdminUpdate struct {
	AccountType   *models.AccountType
	CreditBalance *int64
}

// ApplyAdminUpdate overwrites account fields from the dashboard. Unlike
// AdjustBalance this sets an absolute balance, which is the intended
// semantics for manual operator corrections.
func (r *UserRepository) ApplyAdminUpdate(ctx context.Context, id string, update AdminUpdate) error {
	if update.AccountType == nil && update.CreditBalance == nil {
		return nil
	}

	setClauses := ""
	args := []interface{}{}
	argCount := 1

	if update.AccountType != nil {
		setClauses += fmt.Sprintf("account_type = $%d", argCount)
		args = append(args, *update.AccountType)
		argCount++
	}
	if update.CreditBalance != nil {
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += fmt.Sprintf("credit_balance = $%d", argCount)
		args = append(args, *update.CreditBalance)
		argCount++
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", setClauses, argCount)

	res, err := r.db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
