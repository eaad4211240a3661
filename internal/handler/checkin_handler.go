package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/game"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type CheckInHandler struct {
	svc service.CheckInService
}

func NewCheckInHandler(svc service.CheckInService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

type CheckInRequest struct {
	UserIdentifier string `json:"userIdentifier"`
	Username       string `json:"username"`
	PfpURL         string `json:"pfpUrl"`
}

type CheckInResponse struct {
	Streak        int64 `json:"streak"`
	PointsEarned  int64 `json:"pointsEarned"`
	TotalPoints   int64 `json:"totalPoints"`
	LongestStreak int64 `json:"longestStreak"`
	TotalCheckins int64 `json:"totalCheckins"`
}

type UserStatResponse struct {
	UserIdentifier string `json:"userIdentifier"`
	Username       string `json:"username"`
	PfpURL         string `json:"pfpUrl,omitempty"`
	TotalPoints    int64  `json:"totalPoints"`
	CurrentStreak  int64  `json:"currentStreak"`
	LongestStreak  int64  `json:"longestStreak"`
	LastCheckinDay int64  `json:"lastCheckinDay"`
	TotalCheckins  int64  `json:"totalCheckins"`
	CheckedInToday *bool  `json:"checkedInToday,omitempty"`
	NextPoints     *int64 `json:"nextPoints,omitempty"`
}

type CheckInRecordResponse struct {
	CheckinDay   int64 `json:"checkinDay"`
	CheckedInAt  int64 `json:"checkedInAt"`
	PointsEarned int64 `json:"pointsEarned"`
	StreakCount  int64 `json:"streakCount"`
}

type WeeklyEntryResponse struct {
	UserIdentifier string `json:"userIdentifier"`
	Username       string `json:"username"`
	PfpURL         string `json:"pfpUrl,omitempty"`
	WeeklyCheckins int64  `json:"weeklyCheckins"`
	CurrentStreak  int64  `json:"currentStreak"`
	TotalPoints    int64  `json:"totalPoints"`
}

func toUserStatResponse(s *model.UserStat) UserStatResponse {
	return UserStatResponse{
		UserIdentifier: s.UserIdentifier,
		Username:       s.Username,
		PfpURL:         s.PfpURL,
		TotalPoints:    s.TotalPoints,
		CurrentStreak:  s.CurrentStreak,
		LongestStreak:  s.LongestStreak,
		LastCheckinDay: s.LastCheckinDay,
		TotalCheckins:  s.TotalCheckins,
	}
}

func toWeeklyEntryResponse(e game.WeeklyEntry) WeeklyEntryResponse {
	return WeeklyEntryResponse{
		UserIdentifier: e.UserIdentifier,
		Username:       e.Username,
		PfpURL:         e.PfpURL,
		WeeklyCheckins: e.WeeklyCheckins,
		CurrentStreak:  e.CurrentStreak,
		TotalPoints:    e.TotalPoints,
	}
}

func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req CheckInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	res, err := h.svc.CheckIn(c.Request().Context(), service.CheckInInput{
		UserIdentifier: req.UserIdentifier,
		Username:       req.Username,
		PfpURL:         req.PfpURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, CheckInResponse{
		Streak:        res.Streak,
		PointsEarned:  res.PointsEarned,
		TotalPoints:   res.TotalPoints,
		LongestStreak: res.LongestStreak,
		TotalCheckins: res.TotalCheckins,
	})
}

func (h *CheckInHandler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), c.Param("user"))
	if err != nil {
		return writeError(c, err)
	}
	res := toUserStatResponse(&st.UserStat)
	res.CheckedInToday = &st.CheckedInToday
	if !st.CheckedInToday {
		res.NextPoints = &st.NextPoints
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CheckInHandler) History(c echo.Context) error {
	list, err := h.svc.History(c.Request().Context(), c.Param("user"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]CheckInRecordResponse, 0, len(list))
	for _, ci := range list {
		items = append(items, CheckInRecordResponse{
			CheckinDay:   ci.CheckinDay,
			CheckedInAt:  ci.CheckedInAt,
			PointsEarned: ci.PointsEarned,
			StreakCount:  ci.StreakCount,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *CheckInHandler) Leaderboard(c echo.Context) error {
	list, err := h.svc.Leaderboard(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]UserStatResponse, 0, len(list))
	for i := range list {
		items = append(items, toUserStatResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *CheckInHandler) WeeklyLeaderboard(c echo.Context) error {
	list, err := h.svc.WeeklyLeaderboard(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]WeeklyEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toWeeklyEntryResponse(e))
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
