package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/blockguess-backend/internal/logger"
	"github.com/shinyyama/blockguess-backend/internal/reqctx"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// RoundAnnouncer asks Gemini to rewrite a result announcement. It never invents facts:
// the template it receives already carries every number.
type RoundAnnouncer struct {
	model   string
	tone    string
	timeout time.Duration
}

func NewRoundAnnouncer(model, tone string) *RoundAnnouncer {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &RoundAnnouncer{model: model, tone: tone, timeout: 20 * time.Second}
}

// Polish returns Gemini's rewrite of draft, already cleaned and cut to MaxCastBytes.
func (a *RoundAnnouncer) Polish(ctx context.Context, draft string) (string, error) {
	tags := reqctx.Fields(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		logger.Warn("announce client init failed", append(tags, zap.Error(err))...)
		return "", err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(BuildAnnouncePrompt(a.tone)),
			genai.NewPartFromText("Announcement:\n" + draft),
		}, genai.RoleUser),
	}
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	logger.Debug("announce gemini start", append(tags, zap.String("model", a.model))...)
	res, err := client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		logger.Warn("announce gemini failed", append(tags, zap.Error(err))...)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	raw := res.Text()
	text, err := CleanCastText(raw)
	if err != nil {
		preview := strings.ReplaceAll(raw, "\n", " ")
		if len(preview) > 80 {
			preview = preview[:80]
		}
		logger.Warn("announce parse failed", append(tags, zap.String("text", preview), zap.Error(err))...)
		return "", err
	}
	logger.Info("announce polished", append(tags,
		zap.Int("bytes", len(text)),
		zap.Int64("total_ms", time.Since(start).Milliseconds()),
	)...)
	return text, nil
}
