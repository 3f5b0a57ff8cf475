package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// PackageRepository handles credit package database operations
type PackageRepository struct {
	db *DB
}

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// GetByID retrieves a package by ID
func (r *PackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CreditPackage, error) {
	var pkg models.CreditPackage
	query := `
		SELECT id, name, price, credits, description, features, created_at, updated_at
		FROM packages
		WHERE id = $1
	`

	err := r.db.conn.GetContext(ctx, &pkg, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return &pkg, nil
}

// List returns all packages ordered by price ascending
func (r *PackageRepository) List(ctx context.Context) ([]*models.CreditPackage, error) {
	query := `
		SELECT id, name, price, credits, description, features, created_at, updated_at
		FROM packages
		ORDER BY price ASC
	`

	var packages []*models.CreditPackage
	err := r.db.conn.SelectContext(ctx, &packages, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}

	return packages, nil
}

// Create inserts a new package and returns its generated ID
func (r *PackageRepository) Create(ctx context.Context, pkg *models.CreditPackage) (uuid.UUID, error) {
	pkg.ID = uuid.New()
	query := `
		INSERT INTO packages (id, name, price, credits, description, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := r.db.conn.ExecContext(ctx, query,
		pkg.ID, pkg.Name, pkg.Price, pkg.Credits, pkg.Description, pkg.Features,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create package: %w", err)
	}

	return pkg.ID, nil
}

// Update overwrites an existing package
func (r *PackageRepository) Update(ctx context.Context, pkg *models.CreditPackage) error {
	query := `
		UPDATE packages
		SET name = $1, price = $2, credits = $3, description = $4, features = $5, updated_at = NOW()
		WHERE id = $6
	`

	res, err := r.db.conn.ExecContext(ctx, query,
		pkg.Name, pkg.Price, pkg.Credits, pkg.Description, pkg.Features, pkg.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if rows == 0 {
		return ErrPackageNotFound
	}

	return nil
}

// Delete removes a package. Past purchase transactions keep their snapshot
// of the package and are unaffected.
func (r *PackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if rows == 0 {
		return ErrPackageNotFound
	}

	return nil
}
