package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shinyyama/blockguess-backend/internal/ai"
	"github.com/shinyyama/blockguess-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPolisher struct {
	text  string
	err   error
	calls int
}

func (p *stubPolisher) Polish(_ context.Context, draft string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func finishedRound(t *testing.T, f *fixture) *model.Round {
	t.Helper()
	ctx := context.Background()
	block := int64(880001)
	r, err := f.rounds.CreateRound(ctx, CreateRoundInput{RoundNumber: 3, DurationMinutes: 10, BlockNumber: &block})
	require.NoError(t, err)
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 1, Username: "alice", Guess: 3100})
	require.NoError(t, err)
	_, err = f.rounds.SubmitGuess(ctx, SubmitGuessInput{RoundID: r.ID, FID: 2, Username: "@bob", Guess: 2800})
	require.NoError(t, err)
	_, err = f.rounds.CloseRound(ctx, r.ID)
	require.NoError(t, err)
	_, err = f.rounds.FinalizeRound(ctx, r.ID, 3050, "0xhash")
	require.NoError(t, err)
	return r
}

func TestDraftRoundResultTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.prizes.Save(ctx, PrizeConfigInput{JackpotAmount: 1000, FirstPlaceAmount: 100, SecondPlaceAmount: 40, CurrencyType: "USDC"})
	require.NoError(t, err)
	r := finishedRound(t, f)

	svc := NewAnnouncementService(f.rounds, f.chat, nil)
	a, err := svc.DraftRoundResult(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, a.Polished)
	assert.Contains(t, a.Text, "Block #880001 had 3050 transactions.")
	assert.Contains(t, a.Text, "🥇 Winner: @alice")
	assert.Contains(t, a.Text, "🥈 Runner-Up: @bob")
	assert.Contains(t, a.Text, "100 USDC / 40 USDC")
	assert.True(t, strings.HasSuffix(a.Text, "#BitcoinBlocks"))
	assert.LessOrEqual(t, len(a.Text), ai.MaxCastBytes)
}

func TestDraftRoundResultRequiresFinished(t *testing.T) {
	f := newFixture(t)
	r := f.createRound(t, 10)
	svc := NewAnnouncementService(f.rounds, f.chat, nil)

	_, err := svc.DraftRoundResult(context.Background(), r.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.DraftRoundResult(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftRoundResultPolish(t *testing.T) {
	f := newFixture(t)
	r := finishedRound(t, f)

	p := &stubPolisher{text: strings.Repeat("🎉", 100)}
	a, err := NewAnnouncementService(f.rounds, f.chat, p).DraftRoundResult(context.Background(), r.ID)
	require.NoError(t, err)
	assert.True(t, a.Polished)
	assert.Equal(t, 1, p.calls)
	assert.LessOrEqual(t, len(a.Text), ai.MaxCastBytes)

	failing := &stubPolisher{err: errors.New("quota")}
	a, err = NewAnnouncementService(f.rounds, f.chat, failing).DraftRoundResult(context.Background(), r.ID)
	require.NoError(t, err, "falls back to the template")
	assert.False(t, a.Polished)
	assert.Contains(t, a.Text, "@alice")
}

func TestPostRoundResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := finishedRound(t, f)

	a, err := NewAnnouncementService(f.rounds, f.chat, nil).PostRoundResult(ctx, r.ID, ChatAuthor{Address: "fid-250704", Username: "admin"})
	require.NoError(t, err)

	msgs, err := f.chat.ListByRound(ctx, GlobalChatRoom, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, model.ChatTypeSystem, msgs[0].MsgType)
	assert.Equal(t, a.Text, msgs[0].Message)
}

func TestResultTemplateNoGuesses(t *testing.T) {
	actual := int64(12)
	text := ResultTemplate(&RoundOutcome{Round: &model.Round{RoundNumber: 9, ActualTxCount: &actual}})
	assert.Contains(t, text, "Round 9: the block had 12 transactions.")
	assert.Contains(t, text, "No predictions this round.")
}
