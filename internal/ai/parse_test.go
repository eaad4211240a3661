package ai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanCastText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "Block #1 had 42 txs", "Block #1 had 42 txs", false},
		{"fenced", "```text\nBlock #1 had 42 txs\n```", "Block #1 had 42 txs", false},
		{"quoted", `"Winner: @alice"`, "Winner: @alice", false},
		{"labelled", "Announcement: Winner: @alice", "Winner: @alice", false},
		{"blank lines", "a\n\n\n\nb", "a\n\nb", false},
		{"empty", "   ", "", true},
		{"empty fence", "```\n```", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanCastText(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("got=%q want=%q", got, tt.want)
			}
		})
	}
}

func TestFitCast(t *testing.T) {
	short := "🥇 Winner"
	if got := FitCast(short); got != short {
		t.Fatalf("got=%q want=%q", got, short)
	}

	long := strings.Repeat("🎉", 100) // 400 bytes
	got := FitCast(long)
	if len(got) > MaxCastBytes {
		t.Fatalf("len=%d exceeds %d", len(got), MaxCastBytes)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("cut inside a rune: %q", got)
	}
	if len(got) != 320 {
		t.Fatalf("len=%d want 320", len(got))
	}
}

func TestBuildAnnouncePrompt(t *testing.T) {
	if p := BuildAnnouncePrompt("PLAIN"); !strings.Contains(p, "Tone (plain)") {
		t.Fatalf("plain tone missing: %q", p)
	}
	if p := BuildAnnouncePrompt("unknown"); !strings.Contains(p, "Tone (hype)") {
		t.Fatalf("fallback tone missing: %q", p)
	}
}
