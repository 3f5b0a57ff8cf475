package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
)

// PurchaseService applies credit package purchases. The balance increment
// and the ledger entry are committed in one database transaction so a
// partial failure can never leave a credited-but-unlogged (or the reverse)
// state.
//
// Payment is trusted-client in this design; a production deployment would
// drive this from a verified payment webhook instead.
type PurchaseService struct {
	db           *storage.DB
	users        *storage.UserRepository
	packages     *storage.PackageRepository
	transactions *storage.TransactionRepository
}

// NewPurchaseService creates a purchase service
func NewPurchaseService(db *storage.DB, users *storage.UserRepository, packages *storage.PackageRepository, transactions *storage.TransactionRepository) *PurchaseService {
	return &PurchaseService{
		db:           db,
		users:        users,
		packages:     packages,
		transactions: transactions,
	}
}

// PurchaseResult reports the outcome of a completed purchase
type PurchaseResult struct {
	CreditsAdded int64
	PackageName  string
}

// Purchase credits a user with a package's credits and appends the purchase
// to the ledger, atomically. The ledger entry snapshots the package's name,
// credits and price at purchase time; later package edits or deletion do
// not affect it.
func (s *PurchaseService) Purchase(ctx context.Context, userID string, packageID uuid.UUID) (*PurchaseResult, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin purchase transaction: %w", err)
	}
	defer func() {
		_ = dbTx.Rollback()
	}()

	if err := s.users.AdjustBalanceTx(ctx, dbTx, userID, pkg.Credits); err != nil {
		return nil, err
	}

	entry := &models.Transaction{
		UserID:       userID,
		Provider:     models.ProviderSystem,
		Type:         models.TxPurchase,
		Status:       models.TxCompleted,
		Timestamp:    time.Now().UTC(),
		PackageID:    &pkg.ID,
		PackageName:  pkg.Name,
		CreditsAdded: pkg.Credits,
		AmountPaid:   pkg.Price,
	}
	if err := s.transactions.InsertTx(ctx, dbTx, entry); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return &PurchaseResult{
		CreditsAdded: pkg.Credits,
		PackageName:  pkg.Name,
	}, nil
}
