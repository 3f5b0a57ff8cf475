package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TxUserChat       TransactionType = "user_chat"
	TxInternalWidget TransactionType = "internal_widget"
	TxPurchase       TransactionType = "purchase"
)

// TransactionStatus is the terminal state recorded for a ledger entry.
type TransactionStatus string

const (
	TxInitiated TransactionStatus = "initiated"
	TxCompleted TransactionStatus = "completed"
	TxError     TransactionStatus = "error"
	TxFailed    TransactionStatus = "failed"
)

// SystemUserID is recorded on ledger entries that are not tied to an end
// user (internal widget calls).
const SystemUserID = "system"

// Transaction is an append-only ledger entry. Every generation attempt and
// every purchase produces exactly one; rows are never mutated after insert.
type Transaction struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	UserID    string            `db:"user_id" json:"userId"`
	Provider  Provider          `db:"provider" json:"provider"`
	Type      TransactionType   `db:"type" json:"type"`
	Status    TransactionStatus `db:"status" json:"status"`
	Timestamp time.Time         `db:"timestamp" json:"timestamp"`

	// Purchase snapshot fields; zero-valued for chat entries.
	PackageID    *uuid.UUID `db:"package_id" json:"packageId,omitempty"`
	PackageName  string     `db:"package_name" json:"packageName,omitempty"`
	CreditsAdded int64      `db:"credits_added" json:"creditsAdded,omitempty"`
	AmountPaid   float64    `db:"amount_paid" json:"amountPaid,omitempty"`

	// Usage counters reported by providers; zero when unknown.
	TokensIn  int64 `db:"tokens_in" json:"tokensIn,omitempty"`
	TokensOut int64 `db:"tokens_out" json:"tokensOut,omitempty"`
}
