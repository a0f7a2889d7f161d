package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jiten-project/umbrella-app/internal/schedule"
	"github.com/jiten-project/umbrella-app/internal/types"
)

// settingsRowID is the fixed primary key of the single settings document.
// The service is single-profile; the schema still keys the row so a
// multi-profile extension stays a schema change, not a rewrite.
const settingsRowID = 1

// SettingsRepository persists the full settings document as one JSONB row.
// It implements types.SettingsStore. Loads run the versioned migration
// pipeline, so documents written by older releases upgrade transparently.
type SettingsRepository struct {
	db DBTX
}

// NewSettingsRepository creates a SettingsRepository backed by the given
// database connection (pool or transaction).
func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Load fetches and migrates the settings document. An empty store yields
// defaults, not an error.
func (r *SettingsRepository) Load(ctx context.Context) (*types.Settings, error) {
	var raw []byte
	err := r.db.QueryRow(ctx,
		`SELECT document FROM user_settings WHERE id = $1`,
		settingsRowID,
	).Scan(&raw)

	if errors.Is(err, pgx.ErrNoRows) {
		return types.DefaultSettings(), nil
	}
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB,
			"failed to load settings", err)
	}

	return schedule.Migrate(raw)
}

// Save replaces the whole settings document.
func (r *SettingsRepository) Save(ctx context.Context, settings *types.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to encode settings", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO user_settings (id, document, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		settingsRowID, raw,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB,
			"failed to save settings", err)
	}
	return nil
}
