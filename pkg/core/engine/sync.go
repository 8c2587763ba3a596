package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/shiftdesk/shiftdesk/pkg/core/roster"
)

// SourceFetcher retrieves the CSV text behind one configured roster
// link. Implementations exist for plain HTTP export URLs and for
// Google Sheets references.
type SourceFetcher interface {
	Fetch(ctx context.Context, link string) (string, error)
}

// HTTPFetcher downloads CSV export links with a bounded timeout.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher with the given per-request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the link body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch link: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s fetching link", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// SyncResult summarises one sync-from-links run.
type SyncResult struct {
	Employees int
	Sheets    int
	Months    []string
	Failed    int
}

var monthKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// SyncFromLinks fetches every configured roster link, parses each as a
// roster CSV and installs it as that month's authoritative dataset.
// Individual link failures are logged and counted; the run only fails
// outright when no links are configured or every link failed.
func (e *Engine) SyncFromLinks(ctx context.Context) (SyncResult, error) {
	links := e.GetSyncConfig().Links
	if len(links) == 0 {
		return SyncResult{}, ErrNoSyncLinks
	}

	e.mu.RLock()
	fetcher := e.fetcher
	e.mu.RUnlock()

	var result SyncResult
	for monthYear, link := range links {
		text, err := fetcher.Fetch(ctx, link)
		if err != nil {
			e.logger.Error("Failed to fetch roster link",
				zap.String("month", monthYear), zap.Error(err))
			result.Failed++
			continue
		}

		rows, degraded := roster.ParseCSV(text)
		if degraded {
			e.logger.Warn("Roster link parse degraded to naive splitting",
				zap.String("month", monthYear))
		}
		parsed := roster.ParseRosterRows(rows)
		if parsed.IsEmpty() {
			e.logger.Error("Roster link produced no data",
				zap.String("month", monthYear))
			result.Failed++
			continue
		}

		// Prefer the month detected from the sheet's own headers when
		// the configured key is not already a YYYY-MM key.
		targetMonth := monthYear
		if !monthKeyPattern.MatchString(monthYear) {
			if detected := roster.ExtractDominantMonth(parsed.Headers); detected != "" {
				targetMonth = roster.MonthKeyFor(detected, monthYear)
			}
		}

		if err := e.SetAuthoritative(ctx, parsed, targetMonth); err != nil {
			e.logger.Error("Failed to install synced roster",
				zap.String("month", targetMonth), zap.Error(err))
			result.Failed++
			continue
		}

		result.Sheets++
		result.Employees += len(parsed.AllEmployees)
		result.Months = append(result.Months, targetMonth)
	}

	if result.Sheets == 0 {
		return result, ErrNoSheetsSynced
	}

	e.logger.Info("Roster links synced",
		zap.Int("sheets", result.Sheets),
		zap.Int("employees", result.Employees),
		zap.Int("failed", result.Failed),
		zap.Strings("months", result.Months))
	return result, nil
}
