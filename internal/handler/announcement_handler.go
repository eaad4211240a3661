package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type AnnouncementHandler struct {
	svc service.AnnouncementService
}

func NewAnnouncementHandler(svc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

type AnnouncementResponse struct {
	RoundID  uint64 `json:"roundId"`
	Text     string `json:"text"`
	Polished bool   `json:"polished"`
	Posted   bool   `json:"posted"`
}

func (h *AnnouncementHandler) Draft(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	a, err := h.svc.DraftRoundResult(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AnnouncementResponse{RoundID: a.RoundID, Text: a.Text, Polished: a.Polished})
}

// Post stores the announcement in the global chat room under the admin's name.
func (h *AnnouncementHandler) Post(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid round id")
	}
	uid, _ := c.Get("uid").(string)
	name, _ := c.Get("name").(string)
	pic, _ := c.Get("picture").(string)
	if name == "" {
		name = "admin"
	}
	a, err := h.svc.PostRoundResult(c.Request().Context(), id, service.ChatAuthor{Address: uid, Username: name, PfpURL: pic})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, AnnouncementResponse{RoundID: a.RoundID, Text: a.Text, Polished: a.Polished, Posted: true})
}
