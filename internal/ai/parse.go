package ai

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxCastBytes is the longest text a single cast can carry.
const MaxCastBytes = 320

var (
	fencePattern   = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	blankLines     = regexp.MustCompile(`\n{3,}`)
	trailingSpaces = regexp.MustCompile(`[ \t]+\n`)
	ErrParseFailed = errors.New("parse_failed")
)

// CleanCastText strips what models tend to wrap around an answer (code fences, quotes,
// a leading label) and fits the rest into MaxCastBytes.
func CleanCastText(text string) (string, error) {
	s := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(s); len(m) >= 2 {
		s = strings.TrimSpace(m[1])
	}
	if low := strings.ToLower(s); strings.HasPrefix(low, "announcement:") {
		s = strings.TrimSpace(s[len("announcement:"):])
	}
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"') {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = trailingSpaces.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	if s == "" {
		return "", fmt.Errorf("%w: empty announcement", ErrParseFailed)
	}
	return FitCast(s), nil
}

// FitCast cuts s to at most MaxCastBytes without splitting a UTF-8 sequence.
func FitCast(s string) string {
	if len(s) <= MaxCastBytes {
		return s
	}
	cut := MaxCastBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], " \n")
}
