package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
)

// Store is the slice of the user repository the account service needs.
type Store interface {
	GetByID(ctx context.Context, id string) (*models.UserAccount, error)
	Create(ctx context.Context, user *models.UserAccount) error
}

// SyncStatus reports whether a sync call provisioned a new profile.
type SyncStatus string

const (
	SyncCreated  SyncStatus = "created"
	SyncExisting SyncStatus = "existing"
)

// SyncResult is the outcome of an identity sync call.
type SyncResult struct {
	Status   SyncStatus
	Provider models.Provider
}

// Service provisions billing profiles for verified identities.
type Service struct {
	users    Store
	settings billing.SettingsSource
}

// NewService creates an account service
func NewService(users Store, settings billing.SettingsSource) *Service {
	return &Service{users: users, settings: settings}
}

// Sync provisions a billing profile for a verified identity on first sight
// and is a no-op afterwards. New profiles start at zero balance, standard
// type, user role, and the global default provider captured at creation
// time (later settings changes do not reassign existing users).
func (s *Service) Sync(ctx context.Context, ident *auth.Identity) (*SyncResult, error) {
	existing, err := s.users.GetByID(ctx, ident.Subject)
	if err == nil {
		return &SyncResult{
			Status:   SyncExisting,
			Provider: existing.AssignedProvider,
		}, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	user := &models.UserAccount{
		ID:               ident.Subject,
		Email:            ident.Email,
		AccountType:      models.AccountStandard,
		CreditBalance:    0,
		AssignedProvider: settings.DefaultProvider,
		Role:             "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to provision profile: %w", err)
	}

	return &SyncResult{
		Status:   SyncCreated,
		Provider: settings.DefaultProvider,
	}, nil
}
