package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shinyyama/blockguess-backend/internal/ai"
	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/shinyyama/blockguess-backend/internal/reqctx"
	"go.uber.org/zap"
)

// Polisher rewrites an announcement draft. *ai.RoundAnnouncer implements it.
type Polisher interface {
	Polish(ctx context.Context, draft string) (string, error)
}

type AnnouncementService interface {
	DraftRoundResult(ctx context.Context, roundID uint64) (*Announcement, error)
	PostRoundResult(ctx context.Context, roundID uint64, author ChatAuthor) (*Announcement, error)
}

type Announcement struct {
	RoundID  uint64
	Text     string
	Polished bool
}

// ChatAuthor is who a system message in the global room is attributed to.
type ChatAuthor struct {
	Address  string
	Username string
	PfpURL   string
}

type announcementService struct {
	rounds   RoundService
	chat     ChatService
	polisher Polisher
}

// NewAnnouncementService builds the drafter. polisher may be nil, in which case the
// plain template is returned.
func NewAnnouncementService(rounds RoundService, chat ChatService, polisher Polisher) AnnouncementService {
	return &announcementService{rounds: rounds, chat: chat, polisher: polisher}
}

func (s *announcementService) DraftRoundResult(ctx context.Context, roundID uint64) (*Announcement, error) {
	out, err := s.rounds.Outcome(ctx, roundID)
	if err != nil {
		return nil, err
	}
	draft := ai.FitCast(ResultTemplate(out))
	a := &Announcement{RoundID: roundID, Text: draft}
	if s.polisher == nil {
		return a, nil
	}
	text, err := s.polisher.Polish(reqctx.WithRoundID(ctx, roundID), draft)
	if err != nil {
		logger.Warn("announcement falls back to template", zap.Uint64("round_id", roundID), zap.Error(err))
		return a, nil
	}
	a.Text = ai.FitCast(text)
	a.Polished = true
	return a, nil
}

// PostRoundResult drafts the announcement and stores it as a system message in the
// global chat room.
func (s *announcementService) PostRoundResult(ctx context.Context, roundID uint64, author ChatAuthor) (*Announcement, error) {
	a, err := s.DraftRoundResult(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.chat.Send(ctx, ChatInput{
		RoundID:  GlobalChatRoom,
		Address:  author.Address,
		Username: author.Username,
		PfpURL:   author.PfpURL,
		Message:  a.Text,
		MsgType:  model.ChatTypeSystem,
	}); err != nil {
		return nil, err
	}
	return a, nil
}

// ResultTemplate renders the result announcement for a finished round.
func ResultTemplate(out *RoundOutcome) string {
	r := out.Round
	var b strings.Builder
	var actual int64
	if r.ActualTxCount != nil {
		actual = *r.ActualTxCount
	}
	if r.BlockNumber != nil {
		fmt.Fprintf(&b, "📊 Block #%d had %d transactions.\n\n", *r.BlockNumber, actual)
	} else {
		fmt.Fprintf(&b, "📊 Round %d: the block had %d transactions.\n\n", r.RoundNumber, actual)
	}
	if out.Winner == nil {
		b.WriteString("No predictions this round.")
	} else {
		fmt.Fprintf(&b, "🥇 Winner: %s", handle(out.Winner))
		if r.IsJackpot {
			b.WriteString(" 🎯 exact hit, JACKPOT!")
		}
		b.WriteString("\n")
		if out.RunnerUp != nil {
			fmt.Fprintf(&b, "🥈 Runner-Up: %s\n", handle(out.RunnerUp))
		} else {
			b.WriteString("🥈 Runner-Up: N/A\n")
		}
	}
	if p := out.Payouts; p != nil && p.WinnerAmount > 0 {
		fmt.Fprintf(&b, "\n💰 Prize: %d %s", p.WinnerAmount, p.Currency)
		if p.RunnerUpAmount > 0 {
			fmt.Fprintf(&b, " / %d %s", p.RunnerUpAmount, p.Currency)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n#BitcoinBlocks")
	return b.String()
}

func handle(g *model.Guess) string {
	if g.Username != "" {
		return "@" + strings.TrimPrefix(g.Username, "@")
	}
	return fmt.Sprintf("fid:%d", g.FID)
}
