package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogRecordAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.audit.Record(ctx, model.EventRoundCreated, map[string]any{"round_id": 1})
	f.clock.Advance(5 * time.Second)
	f.audit.Record(ctx, model.EventRoundClosed, map[string]any{"round_id": 1})
	f.audit.Record(ctx, "", nil)

	all, err := f.audit.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.EventRoundClosed, all[0].EventType, "newest first")
	assert.Equal(t, t0+5, all[0].Timestamp)

	var details map[string]any
	require.NoError(t, json.Unmarshal(all[1].Details, &details))
	assert.EqualValues(t, 1, details["round_id"])

	closed, err := f.audit.List(ctx, model.EventRoundClosed, 10)
	require.NoError(t, err)
	assert.Len(t, closed, 1)
}

func TestEventLogRecordSurvivesCanceledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.audit.Record(ctx, model.EventDailyCheckin, map[string]any{"user_identifier": "fid-1"})
	assert.EqualValues(t, 1, f.countEvents(t, model.EventDailyCheckin))
}
