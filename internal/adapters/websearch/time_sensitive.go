package websearch

import "strings"

var timeIndicators = []string{
	"latest", "current", "recent", "new", "updated",
	"2024", "2025", "today", "this year",
}

var guidelineIndicators = []string{
	"guideline", "recommendation", "protocol",
	"standard of care", "best practice",
}

// IsTimeSensitive reports whether a query warrants a web search: it mentions
// time-sensitive language or asks about guidelines. Ordered substring match,
// case-insensitive, first hit wins.
func IsTimeSensitive(query string) bool {
	q := strings.ToLower(query)
	for _, indicator := range timeIndicators {
		if strings.Contains(q, indicator) {
			return true
		}
	}
	for _, indicator := range guidelineIndicators {
		if strings.Contains(q, indicator) {
			return true
		}
	}
	return false
}
