package service

import (
	"context"
	"strings"

	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
)

type PrizeConfigService interface {
	Save(ctx context.Context, in PrizeConfigInput) (*model.PrizeConfig, error)
	Get(ctx context.Context) (*model.PrizeConfig, error)
}

type PrizeConfigInput struct {
	JackpotAmount        int64
	FirstPlaceAmount     int64
	SecondPlaceAmount    int64
	CurrencyType         string
	TokenContractAddress string
}

type prizeConfigService struct {
	repo  repository.PrizeConfigRepository
	audit EventLogService
	clock clock.Clock
}

func NewPrizeConfigService(repo repository.PrizeConfigRepository, audit EventLogService, clk clock.Clock) PrizeConfigService {
	return &prizeConfigService{repo: repo, audit: audit, clock: clk}
}

// Save replaces the prize configuration.
func (s *prizeConfigService) Save(ctx context.Context, in PrizeConfigInput) (*model.PrizeConfig, error) {
	if in.JackpotAmount <= 0 || in.FirstPlaceAmount <= 0 || in.SecondPlaceAmount <= 0 {
		return nil, invalidArg("prize amounts must be positive")
	}
	currency := strings.TrimSpace(in.CurrencyType)
	if currency == "" {
		return nil, invalidArg("currency_type is required")
	}
	cfg := &model.PrizeConfig{
		ID:                   model.PrizeConfigID,
		JackpotAmount:        in.JackpotAmount,
		FirstPlaceAmount:     in.FirstPlaceAmount,
		SecondPlaceAmount:    in.SecondPlaceAmount,
		CurrencyType:         currency,
		TokenContractAddress: strings.TrimSpace(in.TokenContractAddress),
		UpdatedAt:            s.clock.Now(),
	}
	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, classify(err)
	}
	s.audit.Record(ctx, model.EventPrizeConfigSaved, map[string]any{
		"jackpot_amount":      cfg.JackpotAmount,
		"first_place_amount":  cfg.FirstPlaceAmount,
		"second_place_amount": cfg.SecondPlaceAmount,
		"currency_type":       cfg.CurrencyType,
	})
	return cfg, nil
}

func (s *prizeConfigService) Get(ctx context.Context) (*model.PrizeConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return cfg, nil
}
