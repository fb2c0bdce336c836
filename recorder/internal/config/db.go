package config

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/domtrail/dbopen"
	"github.com/hazyhaar/domtrail/locator"
)

// Schema for the locator_settings table. attributes is a JSON array of
// arrays of names.
const Schema = `
CREATE TABLE IF NOT EXISTS locator_settings (
	id           TEXT PRIMARY KEY,
	attributes   TEXT NOT NULL DEFAULT '[]',
	id_exclusion TEXT NOT NULL DEFAULT '',
	updated_at   INTEGER NOT NULL
);
`

// DefaultSettingsID names the profile used when none is given.
const DefaultSettingsID = "default"

// ErrSettingsNotFound is returned by LoadSettings for unknown profiles.
var ErrSettingsNotFound = errors.New("config: settings not found")

// Settings is a row of locator_settings.
type Settings struct {
	ID          string
	Attributes  [][]string
	IDExclusion string
	UpdatedAt   time.Time
}

// LoadSettings reads the settings profile id.
func LoadSettings(ctx context.Context, db *sql.DB, id string) (*Settings, error) {
	var (
		s     = Settings{ID: id}
		attrs string
		ms    int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT attributes, id_exclusion, updated_at FROM locator_settings WHERE id = ?`, id,
	).Scan(&attrs, &s.IDExclusion, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("config: load settings %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(attrs), &s.Attributes); err != nil {
		return nil, fmt.Errorf("config: settings %s: attributes: %w", id, err)
	}
	s.UpdatedAt = time.UnixMilli(ms)
	return &s, nil
}

// SaveSettings inserts or replaces s after validating it compiles.
func SaveSettings(ctx context.Context, db *sql.DB, s *Settings) error {
	if _, err := s.Options(); err != nil {
		return err
	}
	attrs, err := json.Marshal(s.Attributes)
	if err != nil {
		return fmt.Errorf("config: save settings: %w", err)
	}
	if s.Attributes == nil {
		attrs = []byte("[]")
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}
	_, err = dbopen.Exec(ctx, db, `
		INSERT INTO locator_settings (id, attributes, id_exclusion, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			attributes = excluded.attributes,
			id_exclusion = excluded.id_exclusion,
			updated_at = excluded.updated_at`,
		s.ID, string(attrs), s.IDExclusion, s.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("config: save settings %s: %w", s.ID, err)
	}
	return nil
}

// ListSettings returns every stored profile ordered by id.
func ListSettings(ctx context.Context, db *sql.DB) ([]*Settings, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, attributes, id_exclusion, updated_at FROM locator_settings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("config: list settings: %w", err)
	}
	defer rows.Close()

	var out []*Settings
	for rows.Next() {
		var (
			s     Settings
			attrs string
			ms    int64
		)
		if err := rows.Scan(&s.ID, &attrs, &s.IDExclusion, &ms); err != nil {
			return nil, fmt.Errorf("config: list settings: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &s.Attributes); err != nil {
			return nil, fmt.Errorf("config: settings %s: attributes: %w", s.ID, err)
		}
		s.UpdatedAt = time.UnixMilli(ms)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// DeleteSettings removes the profile id.
func DeleteSettings(ctx context.Context, db *sql.DB, id string) error {
	res, err := dbopen.Exec(ctx, db, `DELETE FROM locator_settings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("config: delete settings %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSettingsNotFound
	}
	return nil
}

// Options compiles the settings into locator options.
func (s *Settings) Options() (*locator.Options, error) {
	specs := make([]locator.AttributeSpec, len(s.Attributes))
	for i, a := range s.Attributes {
		specs[i] = locator.AttributeSpec(a)
	}
	return options(specs, s.IDExclusion)
}

// FromConfig returns the settings equivalent of the locator section.
func FromConfig(id string, lc LocatorConfig) *Settings {
	s := &Settings{ID: id, IDExclusion: lc.IDExclusion, Attributes: make([][]string, len(lc.AttributesToStore))}
	for i, e := range lc.AttributesToStore {
		s.Attributes[i] = append([]string(nil), e...)
	}
	return s
}
