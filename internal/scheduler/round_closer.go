package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"go.uber.org/zap"
)

// AutoCloser is the part of the round service the ticker drives.
type AutoCloser interface {
	AutoCloseDue(ctx context.Context) (int, error)
}

// RoundCloser periodically closes rounds whose submission window has ended.
type RoundCloser struct {
	cron     *cron.Cron
	rounds   AutoCloser
	interval time.Duration
	timeout  time.Duration
}

// cronLogger sends cron's own messages (panics, skipped runs) to the service logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}

func NewRoundCloser(rounds AutoCloser, interval time.Duration) *RoundCloser {
	cl := cronLogger{s: logger.L().Named("cron").Sugar()}
	return &RoundCloser{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		rounds:   rounds,
		interval: interval,
		timeout:  30 * time.Second,
	}
}

func (s *RoundCloser) Start() error {
	if s.interval < time.Second {
		return fmt.Errorf("auto-close interval %s is below one second", s.interval)
	}
	if _, err := s.cron.AddFunc("@every "+s.interval.String(), s.tick); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("round auto-close scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop waits for a running tick to finish.
func (s *RoundCloser) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("round auto-close scheduler stopped")
}

func (s *RoundCloser) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n, err := s.rounds.AutoCloseDue(ctx)
	if err != nil {
		logger.Error("auto-close failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("auto-close tick", zap.Int("closed", n))
	}
}
