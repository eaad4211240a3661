// Package archive exports the event log as newline-delimited JSON.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
)

const pageSize = 500

// Result describes one export run.
type Result struct {
	Events int
	LastID uint64
}

// Export streams every entry with id > afterID to w, oldest first, one JSON object per line.
func Export(ctx context.Context, repo repository.EventLogRepository, w io.Writer, afterID uint64) (Result, error) {
	enc := json.NewEncoder(w)
	res := Result{LastID: afterID}
	for {
		page, err := repo.ListAfter(ctx, res.LastID, pageSize)
		if err != nil {
			return res, fmt.Errorf("list events after %d: %w", res.LastID, err)
		}
		for i := range page {
			if err := enc.Encode(line(&page[i])); err != nil {
				return res, fmt.Errorf("encode event %d: %w", page[i].ID, err)
			}
			res.LastID = page[i].ID
			res.Events++
		}
		if len(page) < pageSize {
			return res, nil
		}
	}
}

type record struct {
	ID        uint64          `json:"id"`
	EventType string          `json:"event_type"`
	Timestamp int64           `json:"timestamp"`
	Details   json.RawMessage `json:"details,omitempty"`
}

func line(e *model.EventLog) record {
	r := record{ID: e.ID, EventType: e.EventType, Timestamp: e.Timestamp}
	if len(e.Details) > 0 {
		r.Details = json.RawMessage(e.Details)
	}
	return r
}
