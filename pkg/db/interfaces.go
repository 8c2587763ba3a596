package db

import (
	"context"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

// Store persists the engine's datasets, one document per concern. The
// authoritative roster is partitioned per calendar month key (YYYY-MM).
//
// Load methods never fail on an absent document: they return the zero
// value with fresh=true so callers can tell an empty bootstrap from
// real data. Errors are reserved for backend failures.
//
// Both the JSON FileStore and postgres.DB implement this interface.
type Store interface {
	LoadAuthoritative(ctx context.Context, monthKey string) (data model.RosterData, fresh bool, err error)
	SaveAuthoritative(ctx context.Context, monthKey string, data model.RosterData) error
	ListMonths(ctx context.Context) ([]string, error)

	LoadOverride(ctx context.Context) (data model.RosterData, fresh bool, err error)
	SaveOverride(ctx context.Context, data model.RosterData) error

	LoadModifications(ctx context.Context) (log model.ModificationLog, fresh bool, err error)
	SaveModifications(ctx context.Context, log model.ModificationLog) error

	LoadRequests(ctx context.Context) (ledger model.RequestLedger, fresh bool, err error)
	SaveRequests(ctx context.Context, ledger model.RequestLedger) error

	LoadSyncConfig(ctx context.Context) (cfg model.SyncConfig, fresh bool, err error)
	SaveSyncConfig(ctx context.Context, cfg model.SyncConfig) error
}
