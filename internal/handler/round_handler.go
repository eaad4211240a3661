package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type RoundHandler struct {
	svc service.RoundService
}

func NewRoundHandler(svc service.RoundService) *RoundHandler {
	return &RoundHandler{svc: svc}
}

type RoundResponse struct {
	ID              uint64  `json:"id"`
	RoundNumber     int64   `json:"roundNumber"`
	Prize           string  `json:"prize"`
	BlockNumber     *int64  `json:"blockNumber,omitempty"`
	StartTime       int64   `json:"startTime"`
	EndTime         int64   `json:"endTime"`
	DurationMinutes int64   `json:"durationMinutes"`
	Status          string  `json:"status"`
	ActualTxCount   *int64  `json:"actualTxCount,omitempty"`
	WinningFID      *int64  `json:"winningFid,omitempty"`
	RunnerUpFID     *int64  `json:"runnerUpFid,omitempty"`
	BlockHash       *string `json:"blockHash,omitempty"`
	IsJackpot       bool    `json:"isJackpot"`
	CreatedAt       int64   `json:"createdAt"`
}

type GuessResponse struct {
	ID          uint64  `json:"id"`
	RoundID     uint64  `json:"roundId"`
	FID         int64   `json:"fid"`
	Username    string  `json:"username"`
	Guess       int64   `json:"guess"`
	PfpURL      *string `json:"pfpUrl,omitempty"`
	SubmittedAt int64   `json:"submittedAt"`
}

type PayoutsResponse struct {
	Currency       string `json:"currency"`
	TokenContract  string `json:"tokenContract,omitempty"`
	WinnerAmount   int64  `json:"winnerAmount"`
	RunnerUpAmount int64  `json:"runnerUpAmount"`
}

type OutcomeResponse struct {
	Round    RoundResponse    `json:"round"`
	Winner   *GuessResponse   `json:"winner,omitempty"`
	RunnerUp *GuessResponse   `json:"runnerUp,omitempty"`
	Payouts  *PayoutsResponse `json:"payouts,omitempty"`
}

type LeaderboardEntryResponse struct {
	Rank     int           `json:"rank"`
	Guess    GuessResponse `json:"guess"`
	Distance int64         `json:"distance"`
	Winner   bool          `json:"winner,omitempty"`
	RunnerUp bool          `json:"runnerUp,omitempty"`
}

func toRoundResponse(r *model.Round) RoundResponse {
	return RoundResponse{
		ID:              r.ID,
		RoundNumber:     r.RoundNumber,
		Prize:           r.Prize,
		BlockNumber:     r.BlockNumber,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		ActualTxCount:   r.ActualTxCount,
		WinningFID:      r.WinningFID,
		RunnerUpFID:     r.RunnerUpFID,
		BlockHash:       r.BlockHash,
		IsJackpot:       r.IsJackpot,
		CreatedAt:       r.CreatedAt,
	}
}

func toGuessResponse(g *model.Guess) GuessResponse {
	return GuessResponse{
		ID:          g.ID,
		RoundID:     g.RoundID,
		FID:         g.FID,
		Username:    g.Username,
		Guess:       g.Guess,
		PfpURL:      g.PfpURL,
		SubmittedAt: g.SubmittedAt,
	}
}

func toOutcomeResponse(o *service.RoundOutcome) OutcomeResponse {
	res := OutcomeResponse{Round: toRoundResponse(o.Round)}
	if o.Winner != nil {
		w := toGuessResponse(o.Winner)
		res.Winner = &w
	}
	if o.RunnerUp != nil {
		r := toGuessResponse(o.RunnerUp)
		res.RunnerUp = &r
	}
	if p := o.Payouts; p != nil {
		res.Payouts = &PayoutsResponse{
			Currency:       p.Currency,
			TokenContract:  p.TokenContract,
			WinnerAmount:   p.WinnerAmount,
			RunnerUpAmount: p.RunnerUpAmount,
		}
	}
	return res
}

type CreateRoundRequest struct {
	RoundNumber     int64  `json:"roundNumber"`
	DurationMinutes int64  `json:"durationMinutes"`
	Prize           string `json:"prize"`
	BlockNumber     *int64 `json:"blockNumber"`
}

func (h *RoundHandler) Create(c echo.Context) error {
	var req CreateRoundRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	r, err := h.svc.CreateRound(c.Request().Context(), service.CreateRoundInput{
		RoundNumber:     req.RoundNumber,
		DurationMinutes: req.DurationMinutes,
		Prize:           req.Prize,
		BlockNumber:     req.BlockNumber,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoundResponse(r))
}

func (h *RoundHandler) Close(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	r, err := h.svc.CloseRound(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRoundResponse(r))
}

type FinalizeRequest struct {
	ActualTxCount *int64 `json:"actualTxCount"`
	BlockHash     string `json:"blockHash"`
}

func (h *RoundHandler) Finalize(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	var req FinalizeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.ActualTxCount == nil {
		return badRequest(c, "actualTxCount is required")
	}
	out, err := h.svc.FinalizeRound(c.Request().Context(), id, *req.ActualTxCount, req.BlockHash)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOutcomeResponse(out))
}

func (h *RoundHandler) AutoClose(c echo.Context) error {
	n, err := h.svc.AutoCloseDue(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int{"closed": n})
}

func (h *RoundHandler) Active(c echo.Context) error {
	r, err := h.svc.ActiveRound(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	if r == nil {
		return c.JSON(http.StatusOK, map[string]any{"round": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"round": toRoundResponse(r)})
}

func (h *RoundHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")
	rounds, total, err := h.svc.ListRounds(c.Request().Context(), limit, offset, model.RoundStatus(c.QueryParam("status")))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]RoundResponse, 0, len(rounds))
	for i := range rounds {
		items = append(items, toRoundResponse(&rounds[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *RoundHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	r, err := h.svc.GetRound(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRoundResponse(r))
}

type SubmitGuessRequest struct {
	FID      int64   `json:"fid"`
	Username string  `json:"username"`
	Guess    *int64  `json:"guess"`
	PfpURL   *string `json:"pfpUrl"`
}

func (h *RoundHandler) SubmitGuess(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	var req SubmitGuessRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.Guess == nil {
		return badRequest(c, "guess is required")
	}
	g, err := h.svc.SubmitGuess(c.Request().Context(), service.SubmitGuessInput{
		RoundID:  id,
		FID:      req.FID,
		Username: req.Username,
		Guess:    *req.Guess,
		PfpURL:   req.PfpURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toGuessResponse(g))
}

func (h *RoundHandler) ListGuesses(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	guesses, err := h.svc.ListGuesses(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]GuessResponse, 0, len(guesses))
	for i := range guesses {
		items = append(items, toGuessResponse(&guesses[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Leaderboard ranks a round's guesses. Before the round is finished the caller passes
// ?actual= with a provisional count.
func (h *RoundHandler) Leaderboard(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	var provisional *int64
	if s := c.QueryParam("actual"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return badRequest(c, "invalid actual")
		}
		provisional = &v
	}
	board, err := h.svc.RoundLeaderboard(c.Request().Context(), id, provisional)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]LeaderboardEntryResponse, 0, len(board))
	for i := range board {
		e := board[i]
		items = append(items, LeaderboardEntryResponse{
			Rank:     e.Rank,
			Guess:    toGuessResponse(&e.Guess),
			Distance: e.Distance,
			Winner:   e.Winner,
			RunnerUp: e.RunnerUp,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
