package llm

import (
	"context"

	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// FallbackChain implements the generation contract over a primary and a
// fallback backend. Discipline: always try primary first; on any error try
// fallback with the same prompts; if both fail, return a fixed stub. Either
// backend may be nil (credentials absent), which counts as a failure without
// attempting network I/O. No retries beyond the single chain.
type FallbackChain struct {
	primary  domain.GenerationClient
	fallback domain.GenerationClient
}

func NewFallbackChain(primary, fallback domain.GenerationClient) *FallbackChain {
	return &FallbackChain{primary: primary, fallback: fallback}
}

func (f *FallbackChain) ModelName() string {
	if f.primary != nil {
		return f.primary.ModelName()
	}
	if f.fallback != nil {
		return f.fallback.ModelName()
	}
	return domain.StubModelIdentifier
}

func (f *FallbackChain) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	log := observability.LoggerFromContext(ctx)

	if f.primary != nil {
		text, err := f.primary.Generate(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		log.Warn("primary generation failed, trying fallback", "model", f.primary.ModelName(), "error", err)
	}

	if f.fallback != nil {
		text, err := f.fallback.Generate(ctx, systemPrompt, userPrompt)
		if err == nil {
			return text, nil
		}
		log.Error("fallback generation also failed", "model", f.fallback.ModelName(), "error", err)
	}

	return stubText(), nil
}

func (f *FallbackChain) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string) (domain.StructuredAnswer, error) {
	log := observability.LoggerFromContext(ctx)

	if f.primary != nil {
		answer, err := f.primary.GenerateStructured(ctx, systemPrompt, userPrompt)
		if err == nil {
			return answer, nil
		}
		log.Warn("primary structured generation failed, trying fallback", "model", f.primary.ModelName(), "error", err)
	}

	if f.fallback != nil {
		answer, err := f.fallback.GenerateStructured(ctx, systemPrompt, userPrompt)
		if err == nil {
			return answer, nil
		}
		log.Error("fallback structured generation also failed", "model", f.fallback.ModelName(), "error", err)
	}

	return stubStructured(), nil
}

func stubText() string {
	return "I'm currently unable to access my knowledge base. Both the primary and fallback language services are unavailable. Please try again shortly, or consult your healthcare provider directly."
}

func stubStructured() domain.StructuredAnswer {
	return domain.StructuredAnswer{
		Answer:     stubText(),
		Citations:  nil,
		ModelUsed:  domain.StubModelIdentifier,
		Disclaimer: domain.MedicalDisclaimer,
	}
}
