package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cardlens/internal/model"
)

// settingsKey is the single row under which the app settings record lives.
const settingsKey = "appSettings"

// GetSettings loads the stored settings record, returning defaults when
// nothing has been stored yet.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (model.Settings, error) {
	if err := validateContext(ctx); err != nil {
		return model.Settings{}, err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	var settings model.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return model.Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings persists the settings record.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		settingsKey, string(value))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
