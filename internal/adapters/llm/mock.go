package llm

import (
	"context"
	"errors"

	"aftercare/internal/domain"
)

// Call records one prompt pair a mock received.
type Call struct {
	SystemPrompt string
	UserPrompt   string
	Structured   bool
}

// Mock is a scripted GenerationClient for tests. Replies are consumed in
// order; when the queue is empty the mock echoes a canned line. Set Err to
// make every call fail.
type Mock struct {
	Model   string
	Replies []string
	Answers []domain.StructuredAnswer
	Err     error

	Calls []Call
}

func NewMock(model string) *Mock {
	return &Mock{Model: model}
}

func (m *Mock) ModelName() string { return m.Model }

func (m *Mock) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls = append(m.Calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt})
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) > 0 {
		reply := m.Replies[0]
		m.Replies = m.Replies[1:]
		return reply, nil
	}
	return "I'm here to help with your recovery.", nil
}

func (m *Mock) GenerateStructured(_ context.Context, systemPrompt, userPrompt string) (domain.StructuredAnswer, error) {
	m.Calls = append(m.Calls, Call{SystemPrompt: systemPrompt, UserPrompt: userPrompt, Structured: true})
	if m.Err != nil {
		return domain.StructuredAnswer{}, m.Err
	}
	if len(m.Answers) > 0 {
		answer := m.Answers[0]
		m.Answers = m.Answers[1:]
		return answer, nil
	}
	return domain.StructuredAnswer{
		Answer:     "Mock clinical answer.",
		ModelUsed:  m.Model,
		Disclaimer: domain.MedicalDisclaimer,
	}, nil
}

// ErrBackendDown is a convenience error for failure scripting.
var ErrBackendDown = errors.New("backend unavailable")
