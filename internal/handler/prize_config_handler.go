package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type PrizeConfigHandler struct {
	svc service.PrizeConfigService
}

func NewPrizeConfigHandler(svc service.PrizeConfigService) *PrizeConfigHandler {
	return &PrizeConfigHandler{svc: svc}
}

type PrizeConfigRequest struct {
	JackpotAmount        int64  `json:"jackpotAmount"`
	FirstPlaceAmount     int64  `json:"firstPlaceAmount"`
	SecondPlaceAmount    int64  `json:"secondPlaceAmount"`
	CurrencyType         string `json:"currencyType"`
	TokenContractAddress string `json:"tokenContractAddress"`
}

type PrizeConfigResponse struct {
	JackpotAmount        int64  `json:"jackpotAmount"`
	FirstPlaceAmount     int64  `json:"firstPlaceAmount"`
	SecondPlaceAmount    int64  `json:"secondPlaceAmount"`
	CurrencyType         string `json:"currencyType"`
	TokenContractAddress string `json:"tokenContractAddress,omitempty"`
	UpdatedAt            int64  `json:"updatedAt"`
}

func toPrizeConfigResponse(p *model.PrizeConfig) PrizeConfigResponse {
	return PrizeConfigResponse{
		JackpotAmount:        p.JackpotAmount,
		FirstPlaceAmount:     p.FirstPlaceAmount,
		SecondPlaceAmount:    p.SecondPlaceAmount,
		CurrencyType:         p.CurrencyType,
		TokenContractAddress: p.TokenContractAddress,
		UpdatedAt:            p.UpdatedAt,
	}
}

func (h *PrizeConfigHandler) Save(c echo.Context) error {
	var req PrizeConfigRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	cfg, err := h.svc.Save(c.Request().Context(), service.PrizeConfigInput{
		JackpotAmount:        req.JackpotAmount,
		FirstPlaceAmount:     req.FirstPlaceAmount,
		SecondPlaceAmount:    req.SecondPlaceAmount,
		CurrencyType:         req.CurrencyType,
		TokenContractAddress: req.TokenContractAddress,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPrizeConfigResponse(cfg))
}

func (h *PrizeConfigHandler) Get(c echo.Context) error {
	cfg, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPrizeConfigResponse(cfg))
}
