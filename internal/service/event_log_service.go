package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/metrics"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type EventLogService interface {
	Record(ctx context.Context, eventType string, details map[string]any)
	List(ctx context.Context, eventType string, limit int) ([]model.EventLog, error)
}

type eventLogService struct {
	repo  repository.EventLogRepository
	clock clock.Clock
}

func NewEventLogService(repo repository.EventLogRepository, clk clock.Clock) EventLogService {
	return &eventLogService{repo: repo, clock: clk}
}

// Record is best-effort; failures are logged and counted but never returned so the
// operation being audited is unaffected.
func (s *eventLogService) Record(ctx context.Context, eventType string, details map[string]any) {
	if eventType == "" {
		return
	}
	raw, err := json.Marshal(details)
	if err != nil {
		s.fail(eventType, err)
		return
	}
	ctx, cancel := withShortDeadline(context.WithoutCancel(ctx))
	defer cancel()
	e := &model.EventLog{
		EventType: eventType,
		Details:   datatypes.JSON(raw),
		Timestamp: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.fail(eventType, err)
	}
}

func (s *eventLogService) fail(eventType string, err error) {
	metrics.AuditWriteFailures.Inc()
	logger.Warn("audit write failed", zap.String("event_type", eventType), zap.Error(err))
}

func (s *eventLogService) List(ctx context.Context, eventType string, limit int) ([]model.EventLog, error) {
	list, err := s.repo.List(ctx, eventType, limit)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// withShortDeadline keeps a slow audit sink from holding up the caller.
func withShortDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 2*time.Second)
}
