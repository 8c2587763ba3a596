package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

const (
	docOverride      = "override_roster"
	docModifications = "modified_shifts"
	docRequests      = "schedule_requests"
	docSyncConfig    = "sync_config"
)

// readDoc loads one named document. An absent row leaves dst untouched
// and returns fresh=true; a corrupt payload is logged and likewise
// treated as fresh, matching the file store's empty-bootstrap policy.
func (d *DB) readDoc(ctx context.Context, name string, dst any) (bool, error) {
	var raw []byte
	err := d.pool.QueryRow(ctx, `SELECT data FROM documents WHERE name = $1`, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("failed to load document %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		d.logger.Warn("Corrupt document, treating as empty",
			zap.String("document", name), zap.Error(err))
		return true, nil
	}
	return false, nil
}

func (d *DB) writeDoc(ctx context.Context, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	_, err = d.pool.Exec(ctx, `
		INSERT INTO documents (name, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, name, raw)
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}
	return nil
}

// LoadAuthoritative reads one monthly roster partition.
func (d *DB) LoadAuthoritative(ctx context.Context, monthKey string) (model.RosterData, bool, error) {
	data := model.NewRosterData()
	if monthKey == "" {
		return data, true, nil
	}
	var raw []byte
	err := d.pool.QueryRow(ctx, `SELECT data FROM roster_months WHERE month_key = $1`, monthKey).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return data, true, nil
	}
	if err != nil {
		return data, true, fmt.Errorf("failed to load roster month %s: %w", monthKey, err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		d.logger.Warn("Corrupt roster partition, treating as empty",
			zap.String("month", monthKey), zap.Error(err))
		return model.NewRosterData(), true, nil
	}
	return data, false, nil
}

// SaveAuthoritative upserts one monthly roster partition.
func (d *DB) SaveAuthoritative(ctx context.Context, monthKey string, data model.RosterData) error {
	if monthKey == "" {
		return fmt.Errorf("month key is required")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal roster month %s: %w", monthKey, err)
	}
	_, err = d.pool.Exec(ctx, `
		INSERT INTO roster_months (month_key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (month_key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, monthKey, raw)
	if err != nil {
		return fmt.Errorf("failed to save roster month %s: %w", monthKey, err)
	}
	return nil
}

// ListMonths enumerates the stored roster partitions in key order.
func (d *DB) ListMonths(ctx context.Context) ([]string, error) {
	rows, err := d.pool.Query(ctx, `SELECT month_key FROM roster_months ORDER BY month_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster months: %w", err)
	}
	defer rows.Close()
	var months []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan roster month: %w", err)
		}
		months = append(months, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster months: %w", err)
	}
	return months, nil
}

func (d *DB) LoadOverride(ctx context.Context) (model.RosterData, bool, error) {
	data := model.NewRosterData()
	fresh, err := d.readDoc(ctx, docOverride, &data)
	return data, fresh, err
}

func (d *DB) SaveOverride(ctx context.Context, data model.RosterData) error {
	return d.writeDoc(ctx, docOverride, data)
}

func (d *DB) LoadModifications(ctx context.Context) (model.ModificationLog, bool, error) {
	log := model.NewModificationLog()
	fresh, err := d.readDoc(ctx, docModifications, &log)
	return log, fresh, err
}

func (d *DB) SaveModifications(ctx context.Context, log model.ModificationLog) error {
	return d.writeDoc(ctx, docModifications, log)
}

func (d *DB) LoadRequests(ctx context.Context) (model.RequestLedger, bool, error) {
	ledger := model.NewRequestLedger()
	fresh, err := d.readDoc(ctx, docRequests, &ledger)
	return ledger, fresh, err
}

func (d *DB) SaveRequests(ctx context.Context, ledger model.RequestLedger) error {
	return d.writeDoc(ctx, docRequests, ledger)
}

func (d *DB) LoadSyncConfig(ctx context.Context) (model.SyncConfig, bool, error) {
	cfg := model.NewSyncConfig()
	fresh, err := d.readDoc(ctx, docSyncConfig, &cfg)
	return cfg, fresh, err
}

func (d *DB) SaveSyncConfig(ctx context.Context, cfg model.SyncConfig) error {
	return d.writeDoc(ctx, docSyncConfig, cfg)
}
