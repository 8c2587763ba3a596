package sheetsclient

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"time"

	"github.com/shiftdesk/shiftdesk/pkg/core/engine"
)

// spreadsheetLinkPattern matches Google Sheets URLs and captures the
// spreadsheet ID.
var spreadsheetLinkPattern = regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// Fetcher resolves roster links. Google Sheets URLs are read through
// the authenticated Sheets API; anything else falls back to a plain
// HTTP download of the link body.
type Fetcher struct {
	client   *Client
	fallback *engine.HTTPFetcher
}

// NewFetcher wraps a Sheets client with an HTTP fallback for non-Sheets
// links. client may be nil, in which case every link uses the fallback.
func NewFetcher(client *Client, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:   client,
		fallback: engine.NewHTTPFetcher(timeout),
	}
}

// Fetch returns the link's roster table as CSV text.
func (f *Fetcher) Fetch(ctx context.Context, link string) (string, error) {
	match := spreadsheetLinkPattern.FindStringSubmatch(link)
	if match == nil || f.client == nil {
		return f.fallback.Fetch(ctx, link)
	}

	values, err := f.client.GetAllValues(match[1], "")
	if err != nil {
		return "", fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	return valuesToCSV(values)
}

func valuesToCSV(values [][]interface{}) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range values {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to encode sheet row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode sheet values: %w", err)
	}
	return buf.String(), nil
}
