package agentflow

import (
	"regexp"
	"strings"
)

// clinicalKeywords is the fixed routing vocabulary: any single
// case-insensitive substring hit sends the query to the clinical agent.
// Ordered, first match wins, no scoring.
var clinicalKeywords = []string{
	// Symptoms and conditions
	"symptom", "pain", "swelling", "fever", "nausea", "headache",
	"kidney", "disease", "infection", "dysfunction", "failure",
	"chronic", "acute", "diagnosis", "condition",

	// Medical questions
	"what is", "what are", "how does", "why", "explain",
	"treatment", "medication", "side effect", "warning sign",
	"blood pressure", "dialysis", "creatinine", "gfr",

	// Time-sensitive
	"latest", "current", "guideline", "recommendation",
}

// IsClinicalQuery reports whether the query should be routed to the clinical
// agent.
func IsClinicalQuery(query string) bool {
	q := strings.ToLower(query)
	for _, keyword := range clinicalKeywords {
		if strings.Contains(q, keyword) {
			return true
		}
	}
	return false
}

var namePatterns = []*regexp.Regexp{
	// Self-introduction phrasing, any casing.
	regexp.MustCompile(`(?i)(?:my name is|i'm|i am|this is)\s+([a-zA-Z]{2,}(?:\s+[a-zA-Z]{2,})*)`),
	// A bare capitalized name on its own. Case-sensitive so that plain
	// lowercase phrases ("kidney pain") are not mistaken for names.
	regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)$`),
}

// ExtractName pulls a personal name out of free text, returning "" when no
// pattern matches. The result is title-cased.
func ExtractName(text string) string {
	text = strings.TrimSpace(text)
	for _, pattern := range namePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return titleCase(m[1])
		}
	}
	return ""
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
