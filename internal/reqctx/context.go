// Package reqctx carries per-request metadata through context for log correlation.
package reqctx

import (
	"context"

	"go.uber.org/zap"
)

// Meta is what a request knows about itself once it reaches the service layer.
type Meta struct {
	RID     string
	RoundID uint64
}

type metaKey struct{}

// From returns the metadata on ctx; the zero Meta when none was attached.
func From(ctx context.Context) Meta {
	m, _ := ctx.Value(metaKey{}).(Meta)
	return m
}

func with(ctx context.Context, update func(*Meta)) context.Context {
	m := From(ctx)
	update(&m)
	return context.WithValue(ctx, metaKey{}, m)
}

func WithRID(ctx context.Context, rid string) context.Context {
	return with(ctx, func(m *Meta) { m.RID = rid })
}

func WithRoundID(ctx context.Context, id uint64) context.Context {
	return with(ctx, func(m *Meta) { m.RoundID = id })
}

func RID(ctx context.Context) string {
	return From(ctx).RID
}

// Fields renders the set values as zap fields.
func Fields(ctx context.Context) []zap.Field {
	m := From(ctx)
	fields := make([]zap.Field, 0, 2)
	if m.RID != "" {
		fields = append(fields, zap.String("rid", m.RID))
	}
	if m.RoundID != 0 {
		fields = append(fields, zap.Uint64("round_id", m.RoundID))
	}
	return fields
}
