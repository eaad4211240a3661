package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/config"
	"github.com/shinyyama/blockguess-backend/internal/db"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
	"github.com/shinyyama/blockguess-backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedGuess struct {
	FID      int64
	Username string
	Guess    int64
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := logger.Initialize(logger.Configuration{Level: cfg.LogLevel, Console: true}); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	canSeed, err := shouldSeed(gdb.WithContext(ctx).Model(&model.Round{}))
	if err != nil {
		return err
	}
	if !canSeed {
		logger.Info("rounds already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	clk := clock.System()
	audit := service.NewEventLogService(repository.NewEventLogRepository(gdb), clk)
	prizeRepo := repository.NewPrizeConfigRepository(gdb)
	prizes := service.NewPrizeConfigService(prizeRepo, audit, clk)
	rounds := service.NewRoundService(
		repository.NewTransactor(gdb),
		repository.NewRoundRepository(gdb),
		repository.NewGuessRepository(gdb),
		prizeRepo,
		audit,
		clk,
	)

	if _, err := prizes.Save(ctx, service.PrizeConfigInput{
		JackpotAmount:     1000,
		FirstPlaceAmount:  100,
		SecondPlaceAmount: 50,
		CurrencyType:      "USDC",
	}); err != nil {
		return fmt.Errorf("save prize config: %w", err)
	}

	block := int64(900000)
	r, err := rounds.CreateRound(ctx, service.CreateRoundInput{
		RoundNumber:     1,
		DurationMinutes: int64((24 * time.Hour).Minutes()),
		Prize:           "1000 USDC",
		BlockNumber:     &block,
	})
	if err != nil {
		return fmt.Errorf("create round: %w", err)
	}
	guesses := buildSeedGuesses()
	for _, g := range guesses {
		if _, err := rounds.SubmitGuess(ctx, service.SubmitGuessInput{
			RoundID:  r.ID,
			FID:      g.FID,
			Username: g.Username,
			Guess:    g.Guess,
		}); err != nil {
			return fmt.Errorf("submit guess for fid %d: %w", g.FID, err)
		}
	}

	logger.Info("seeded round", zap.Uint64("round_id", r.ID), zap.Int("guesses", len(guesses)))
	return nil
}

func buildSeedGuesses() []seedGuess {
	names := []string{"satoshi", "hal", "nakamoto", "gavin", "adam", "nick"}
	var out []seedGuess
	for i, n := range names {
		out = append(out, seedGuess{
			FID:      int64(1000 + i),
			Username: n,
			Guess:    int64(2500 + i*350),
		})
	}
	return out
}

func shouldSeed(q *gorm.DB) (bool, error) {
	var cnt int64
	if err := q.Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count rounds: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	force := os.Getenv("FORCE_SEED")
	return strings.EqualFold(force, "true"), nil
}
