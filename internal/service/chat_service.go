package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/shinyyama/blockguess-backend/internal/clock"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/repository"
)

const (
	MaxChatMessageLength = 500
	GlobalChatRoom       = "global"
)

type ChatService interface {
	Send(ctx context.Context, in ChatInput) (*model.ChatMessage, error)
	ListByRound(ctx context.Context, roundID string, limit int) ([]model.ChatMessage, error)
}

type ChatInput struct {
	RoundID  string
	Address  string
	Username string
	Message  string
	PfpURL   string
	MsgType  model.ChatMessageType
}

type chatService struct {
	repo  repository.ChatRepository
	audit EventLogService
	clock clock.Clock
}

func NewChatService(repo repository.ChatRepository, audit EventLogService, clk clock.Clock) ChatService {
	return &chatService{repo: repo, audit: audit, clock: clk}
}

func (s *chatService) Send(ctx context.Context, in ChatInput) (*model.ChatMessage, error) {
	room := strings.TrimSpace(in.RoundID)
	if room == "" {
		room = GlobalChatRoom
	}
	body := strings.TrimSpace(in.Message)
	if body == "" {
		return nil, invalidArg("message is empty")
	}
	if utf8.RuneCountInString(body) > MaxChatMessageLength {
		return nil, invalidArg("message exceeds %d characters", MaxChatMessageLength)
	}
	typ := in.MsgType
	switch typ {
	case "":
		typ = model.ChatTypeChat
	case model.ChatTypeChat, model.ChatTypeGuess, model.ChatTypeSystem, model.ChatTypeWinner:
	default:
		return nil, invalidArg("unknown message type %q", typ)
	}
	msg := &model.ChatMessage{
		RoundID:   room,
		Address:   in.Address,
		Username:  in.Username,
		Message:   body,
		PfpURL:    in.PfpURL,
		MsgType:   typ,
		Timestamp: s.clock.Now(),
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, classify(err)
	}
	s.audit.Record(ctx, model.EventChatMessageSent, map[string]any{
		"room":     msg.RoundID,
		"message":  msg.ID,
		"msg_type": msg.MsgType,
	})
	return msg, nil
}

func (s *chatService) ListByRound(ctx context.Context, roundID string, limit int) ([]model.ChatMessage, error) {
	room := strings.TrimSpace(roundID)
	if room == "" {
		room = GlobalChatRoom
	}
	list, err := s.repo.ListMessages(ctx, room, clampLimit(limit, 50))
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}
