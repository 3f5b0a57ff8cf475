package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// TransactionRepository handles the append-only ledger. There are insert
// and read methods only; ledger rows are never mutated.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const insertTransactionQuery = `
	INSERT INTO transactions
		(id, user_id, provider, type, status, timestamp,
		 package_id, package_name, credits_added, amount_paid, tokens_in, tokens_out)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

// Insert appends a ledger entry
func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	prepare(tx)

	_, err := r.db.conn.ExecContext(ctx, insertTransactionQuery,
		tx.ID, tx.UserID, tx.Provider, tx.Type, tx.Status, tx.Timestamp,
		tx.PackageID, tx.PackageName, tx.CreditsAdded, tx.AmountPaid,
		tx.TokensIn, tx.TokensOut,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// InsertTx appends a ledger entry inside an existing database transaction.
// Used by the purchase flow so the balance increment and the ledger write
// commit together or not at all.
func (r *TransactionRepository) InsertTx(ctx context.Context, dbTx *sqlx.Tx, tx *models.Transaction) error {
	prepare(tx)

	_, err := dbTx.ExecContext(ctx, insertTransactionQuery,
		tx.ID, tx.UserID, tx.Provider, tx.Type, tx.Status, tx.Timestamp,
		tx.PackageID, tx.PackageName, tx.CreditsAdded, tx.AmountPaid,
		tx.TokensIn, tx.TokensOut,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// List returns ledger entries, newest first
func (r *TransactionRepository) List(ctx context.Context) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, provider, type, status, timestamp,
		       package_id, package_name, credits_added, amount_paid, tokens_in, tokens_out
		FROM transactions
		ORDER BY timestamp DESC
	`

	var transactions []*models.Transaction
	err := r.db.conn.SelectContext(ctx, &transactions, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func prepare(tx *models.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}
}
