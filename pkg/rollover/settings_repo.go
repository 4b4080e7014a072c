package rollover

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SettingsStore is a small key-value store for rollover settings. Values
// survive restarts; a missing key reads back as the empty string.
type SettingsStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
	Clear(ctx context.Context) error
}

type SettingsRepoImpl struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepoImpl {
	return &SettingsRepoImpl{db: db}
}

func (r *SettingsRepoImpl) Get(ctx context.Context, name string) (string, error) {
	row := r.db.QueryRowContext(ctx, "SELECT value FROM rollover_setting WHERE name = $1", name)
	var value string
	err := row.Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		err := fmt.Errorf("could not read setting %s: %w", name, err)
		log.Error(err)
		return "", err
	}
	return value, nil
}

func (r *SettingsRepoImpl) Set(ctx context.Context, name, value string) error {
	query := `INSERT INTO rollover_setting (name, value) VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.ExecContext(ctx, query, name, value); err != nil {
		err := fmt.Errorf("could not write setting %s: %w", name, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *SettingsRepoImpl) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM rollover_setting"); err != nil {
		err := fmt.Errorf("could not clear settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
