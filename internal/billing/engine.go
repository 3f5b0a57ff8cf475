package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
)

// AccountStore is the slice of the user repository the engine needs.
type AccountStore interface {
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
	AdjustBalance(ctx context.Context, id string, delta int64) error
}

// SettingsSource loads the global routing configuration. The engine reads
// it per call rather than holding process-wide mutable state.
type SettingsSource interface {
	Get(ctx context.Context) (*models.GlobalSettings, error)
}

// Decision is the outcome of the billing check for one generation request.
type Decision struct {
	Provider models.Provider
	Billable bool
	UserID   string
	Kind     models.TransactionType
}

// Engine decides, per generation request, which provider to target, whether
// the call is billable, and applies the credit deduction.
type Engine struct {
	accounts AccountStore
	settings SettingsSource
}

// NewEngine creates a billing decision engine
func NewEngine(accounts AccountStore, settings SettingsSource) *Engine {
	return &Engine{accounts: accounts, settings: settings}
}

// Decide runs the billing decision procedure.
//
// Internal widget calls bypass identity and credit checks entirely and route
// via the configured internal widget provider. Exclusive accounts are
// billing-exempt and route via their assigned provider. Standard and pro
// accounts are blocked only when the balance is already negative, so a
// balance of exactly zero still buys one request before the account locks
// (one free overdraft, intentional). The deduction is issued as an atomic
// delta against the store; a locally computed balance is never written back.
func (e *Engine) Decide(ctx context.Context, ident *auth.Identity, internalCall bool) (*Decision, error) {
	if internalCall {
		settings, err := e.settings.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		return &Decision{
			Provider: settings.InternalWidgetProvider.OrDefault(),
			Billable: false,
			UserID:   models.SystemUserID,
			Kind:     models.TxInternalWidget,
		}, nil
	}

	if ident == nil {
		return nil, auth.ErrMissingCredential
	}

	user, err := e.accounts.GetByID(ctx, ident.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load user profile: %w", err)
	}

	decision := &Decision{
		Provider: user.AssignedProvider.OrDefault(),
		UserID:   user.ID,
		Kind:     models.TxUserChat,
	}

	if user.Exempt() {
		return decision, nil
	}

	if user.CreditBalance < 0 {
		return nil, ErrInsufficientCredit
	}

	if err := e.accounts.AdjustBalance(ctx, user.ID, -1); err != nil {
		return nil, fmt.Errorf("failed to deduct credit: %w", err)
	}
	decision.Billable = true

	return decision, nil
}
