package models

import "time"

// AccountType classifies how an account is billed.
type AccountType string

const (
	AccountStandard  AccountType = "standard"
	AccountPro       AccountType = "pro"
	AccountExclusive AccountType = "exclusive"
)

// UserAccount is the per-user billing profile. The identity is issued by the
// external identity provider and never changes. CreditBalance may go negative
// by at most one request (the pre-decrement check only blocks when the balance
// is already below zero).
type UserAccount struct {
	ID               string      `db:"id"`
	Email            string      `db:"email"`
	AccountType      AccountType `db:"account_type"`
	CreditBalance    int64       `db:"credit_balance"`
	AssignedProvider Provider    `db:"assigned_provider"`
	Role             string      `db:"role"`
	CreatedAt        time.Time   `db:"created_at"`
}

// Exempt reports whether the account is exempt from credit metering.
func (u *UserAccount) Exempt() bool {
	return u.AccountType == AccountExclusive
}
