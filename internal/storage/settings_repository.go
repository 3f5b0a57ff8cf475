package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zamzuriyaakob/AiCoach/internal/models"
)

// SettingsRepository handles the global settings singleton. The row is
// created lazily with DeepSeek defaults on first read.
type SettingsRepository struct {
	db    *DB
	cache *SettingsCache
}

// NewSettingsRepository creates a new settings repository. cache may be nil,
// in which case every read hits the database.
func NewSettingsRepository(db *DB, cache *SettingsCache) *SettingsRepository {
	return &SettingsRepository{db: db, cache: cache}
}

// Get returns the global settings, seeding the defaults when absent.
func (r *SettingsRepository) Get(ctx context.Context) (*models.GlobalSettings, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	var settings models.GlobalSettings
	query := `SELECT default_provider, internal_widget_provider FROM global_settings WHERE id = 'global'`

	err := r.db.conn.GetContext(ctx, &settings, query)
	if err == sql.ErrNoRows {
		settings = models.DefaultGlobalSettings()
		if err := r.seed(ctx, &settings); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if r.cache != nil {
		// Best-effort; a failed cache write never fails the read.
		_ = r.cache.Set(ctx, &settings)
	}

	return &settings, nil
}

// Update overwrites the provided fields and invalidates the cache. Empty
// fields keep their stored value (merge semantics, matching the dashboard
// which may save one provider at a time).
func (r *SettingsRepository) Update(ctx context.Context, update models.GlobalSettings) error {
	current, err := r.Get(ctx)
	if err != nil {
		return err
	}

	if update.DefaultProvider != "" {
		current.DefaultProvider = update.DefaultProvider
	}
	if update.InternalWidgetProvider != "" {
		current.InternalWidgetProvider = update.InternalWidgetProvider
	}

	query := `
		INSERT INTO global_settings (id, default_provider, internal_widget_provider)
		VALUES ('global', $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET default_provider = EXCLUDED.default_provider,
		    internal_widget_provider = EXCLUDED.internal_widget_provider
	`

	_, err = r.db.conn.ExecContext(ctx, query, current.DefaultProvider, current.InternalWidgetProvider)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if r.cache != nil {
		_ = r.cache.Invalidate(ctx)
	}

	return nil
}

func (r *SettingsRepository) seed(ctx context.Context, settings *models.GlobalSettings) error {
	query := `
		INSERT INTO global_settings (id, default_provider, internal_widget_provider)
		VALUES ('global', $1, $2)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.conn.ExecContext(ctx, query, settings.DefaultProvider, settings.InternalWidgetProvider)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	return nil
}
