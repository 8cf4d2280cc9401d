package orchestrator

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/busylight-core/internal/light"
)

// settingsRowID is the fixed primary key of the single settings row.
const settingsRowID = 1

// SQLiteSettingsStore persists daemon settings in a single-row table so
// mode and manual action survive restarts.
type SQLiteSettingsStore struct {
	db *sql.DB
}

// NewSQLiteSettingsStore creates a SQLite-backed settings store.
func NewSQLiteSettingsStore(db *sql.DB) *SQLiteSettingsStore {
	return &SQLiteSettingsStore{db: db}
}

// Save upserts the settings row.
func (s *SQLiteSettingsStore) Save(ctx context.Context, settings Settings) error {
	manualJSON, err := json.Marshal(settings.Manual)
	if err != nil {
		return fmt.Errorf("marshalling manual action: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, enabled, rules_mode, manual, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			enabled = excluded.enabled,
			rules_mode = excluded.rules_mode,
			manual = excluded.manual,
			updated_at = excluded.updated_at`,
		settingsRowID,
		boolToInt(settings.Enabled),
		boolToInt(settings.RulesMode),
		string(manualJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Load reads the persisted settings. A missing row returns sensible
// first-run defaults: enabled, rules mode on, manual off.
func (s *SQLiteSettingsStore) Load(ctx context.Context) (Settings, error) {
	defaults := Settings{Enabled: true, RulesMode: true, Manual: light.Off()}

	var (
		enabled    int
		rulesMode  int
		manualJSON string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT enabled, rules_mode, manual FROM settings WHERE id = ?",
		settingsRowID,
	).Scan(&enabled, &rulesMode, &manualJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("loading settings: %w", err)
	}

	settings := Settings{Enabled: enabled != 0, RulesMode: rulesMode != 0}
	if err := json.Unmarshal([]byte(manualJSON), &settings.Manual); err != nil {
		return defaults, fmt.Errorf("unmarshalling manual action: %w", err)
	}
	return settings, nil
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
