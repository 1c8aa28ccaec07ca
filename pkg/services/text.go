package services

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"pulse-news/pkg/models"
)

const wordsPerMinute = 200

// FormatDate renders an RFC 3339 timestamp as "January 02, 2006".
// Unparseable input is returned unchanged.
func FormatDate(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return ts
	}
	return t.Format("January 02, 2006")
}

func parseTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", ts)
}

// ReadingTime estimates minutes to read text, rounded up.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// PlainText joins the text runs of every text block in body with spaces.
func PlainText(body []models.Block) string {
	parts := make([]string, 0, len(body))
	for _, b := range body {
		if t := blockText(map[string]interface{}(b)); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
