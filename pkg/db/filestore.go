package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/model"
)

const (
	overrideFile      = "override_roster.json"
	modificationsFile = "modified_shifts.json"
	requestsFile      = "schedule_requests.json"
	syncConfigFile    = "sync_config.json"

	// legacyAuthoritativeFile is the pre-partitioning combined roster.
	// It is still read as a fallback and mirrored on every save so
	// older consumers keep working.
	legacyAuthoritativeFile = "authoritative_roster.json"

	authoritativePrefix = "authoritative_roster_"
)

// FileStore persists each concern as one JSON document under a data
// directory. Authoritative rosters are partitioned per month key.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the data directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func monthFileName(monthKey string) string {
	return authoritativePrefix + monthKey + ".json"
}

// readDoc loads one JSON document. A missing file is not an error: the
// destination is left untouched and fresh=true is returned. A corrupt
// file is logged and likewise treated as fresh, per the empty-bootstrap
// policy.
func (s *FileStore) readDoc(name string, dst any) (fresh bool) {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Unreadable data file, treating as empty",
				zap.String("file", name), zap.Error(err))
		}
		return true
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.Warn("Corrupt data file, treating as empty",
			zap.String("file", name), zap.Error(err))
		return true
	}
	return false
}

func (s *FileStore) writeDoc(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	tmp := s.path(name + ".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// LoadAuthoritative reads the monthly partition, falling back to the
// legacy combined file when the partition holds no data.
func (s *FileStore) LoadAuthoritative(ctx context.Context, monthKey string) (model.RosterData, bool, error) {
	data := model.NewRosterData()
	fresh := true
	if monthKey != "" {
		fresh = s.readDoc(monthFileName(monthKey), &data)
	}
	if fresh || data.IsEmpty() {
		legacy := model.NewRosterData()
		if legacyFresh := s.readDoc(legacyAuthoritativeFile, &legacy); !legacyFresh && !legacy.IsEmpty() {
			return legacy, false, nil
		}
	}
	return data, fresh, nil
}

// SaveAuthoritative writes the monthly partition and mirrors the write
// to the legacy combined file.
func (s *FileStore) SaveAuthoritative(ctx context.Context, monthKey string, data model.RosterData) error {
	if monthKey != "" {
		if err := s.writeDoc(monthFileName(monthKey), data); err != nil {
			return err
		}
	}
	return s.writeDoc(legacyAuthoritativeFile, data)
}

// ListMonths enumerates the month keys of the partitions actually on disk.
func (s *FileStore) ListMonths(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	var months []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, authoritativePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, authoritativePrefix), ".json")
		if key != "" {
			months = append(months, key)
		}
	}
	sort.Strings(months)
	return months, nil
}

func (s *FileStore) LoadOverride(ctx context.Context) (model.RosterData, bool, error) {
	data := model.NewRosterData()
	fresh := s.readDoc(overrideFile, &data)
	return data, fresh, nil
}

func (s *FileStore) SaveOverride(ctx context.Context, data model.RosterData) error {
	return s.writeDoc(overrideFile, data)
}

func (s *FileStore) LoadModifications(ctx context.Context) (model.ModificationLog, bool, error) {
	log := model.NewModificationLog()
	fresh := s.readDoc(modificationsFile, &log)
	return log, fresh, nil
}

func (s *FileStore) SaveModifications(ctx context.Context, log model.ModificationLog) error {
	return s.writeDoc(modificationsFile, log)
}

func (s *FileStore) LoadRequests(ctx context.Context) (model.RequestLedger, bool, error) {
	ledger := model.NewRequestLedger()
	fresh := s.readDoc(requestsFile, &ledger)
	return ledger, fresh, nil
}

func (s *FileStore) SaveRequests(ctx context.Context, ledger model.RequestLedger) error {
	return s.writeDoc(requestsFile, ledger)
}

func (s *FileStore) LoadSyncConfig(ctx context.Context) (model.SyncConfig, bool, error) {
	cfg := model.NewSyncConfig()
	fresh := s.readDoc(syncConfigFile, &cfg)
	return cfg, fresh, nil
}

func (s *FileStore) SaveSyncConfig(ctx context.Context, cfg model.SyncConfig) error {
	return s.writeDoc(syncConfigFile, cfg)
}
