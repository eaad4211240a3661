package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/service"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatMessageRequest struct {
	Address  string `json:"address"`
	Username string `json:"username"`
	Message  string `json:"message"`
	PfpURL   string `json:"pfpUrl"`
	MsgType  string `json:"msgType"`
}

func (h *ChatHandler) Send(c echo.Context) error {
	var req ChatMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	msg, err := h.svc.Send(c.Request().Context(), service.ChatInput{
		RoundID:  c.Param("room"),
		Address:  req.Address,
		Username: req.Username,
		Message:  req.Message,
		PfpURL:   req.PfpURL,
		MsgType:  model.ChatMessageType(req.MsgType),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) List(c echo.Context) error {
	msgs, err := h.svc.ListByRound(c.Request().Context(), c.Param("room"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": msgs})
}
