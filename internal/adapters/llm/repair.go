package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

const rawAnswerCap = 1000

var answerFieldPattern = regexp.MustCompile(`"answer":\s*"((?:[^"\\]|\\.)*)"`)

// ParseStructuredAnswer turns raw model output into a StructuredAnswer using
// three tiers, never failing:
//
//  1. strict JSON parse (after stripping markdown code fences),
//  2. regex salvage of the "answer" field from truncated or invalid JSON,
//  3. the raw text itself, capped, with no citations.
func ParseStructuredAnswer(raw, model string) domain.StructuredAnswer {
	text := stripCodeFences(raw)

	var answer domain.StructuredAnswer
	if err := json.Unmarshal([]byte(text), &answer); err == nil && answer.Answer != "" {
		if answer.ModelUsed == "" {
			answer.ModelUsed = model
		}
		if answer.Disclaimer == "" {
			answer.Disclaimer = domain.MedicalDisclaimer
		}
		return answer
	}

	if m := answerFieldPattern.FindStringSubmatch(text); m != nil {
		observability.Logger().Warn("salvaged answer field from malformed structured output", "model", model)
		return domain.StructuredAnswer{
			Answer:     unescapeJSONString(m[1]),
			Citations:  nil,
			ModelUsed:  model,
			Disclaimer: domain.MedicalDisclaimer,
		}
	}

	observability.Logger().Warn("structured output unrecoverable, using raw text", "model", model)
	if len(text) > rawAnswerCap {
		text = text[:rawAnswerCap]
	}
	return domain.StructuredAnswer{
		Answer:     text,
		Citations:  nil,
		ModelUsed:  model,
		Disclaimer: domain.MedicalDisclaimer,
	}
}

// stripCodeFences unwraps a ```json ... ``` (or plain ```) block if the model
// ignored the no-markdown instruction.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	start := strings.Index(trimmed, "```")
	if start < 0 {
		return trimmed
	}

	rest := trimmed[start+3:]
	rest = strings.TrimPrefix(rest, "json")
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func unescapeJSONString(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
