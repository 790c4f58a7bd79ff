package agentflow

import (
	"context"
	"fmt"
	"strings"

	"aftercare/internal/adapters/llm"
	"aftercare/internal/adapters/websearch"
	"aftercare/internal/domain"
	"aftercare/internal/observability"
	"aftercare/internal/rag"
)

// ClinicalAgent answers medical questions with evidence: reference chunks
// retrieved from the indexed literature, web results for time-sensitive
// queries, and a structured, cited answer from the generation chain.
type ClinicalAgent struct {
	generator      domain.GenerationClient
	retriever      domain.Retriever
	searcher       domain.WebSearcher
	topK           int
	scoreThreshold float64
}

func NewClinicalAgent(
	generator domain.GenerationClient,
	retriever domain.Retriever,
	searcher domain.WebSearcher,
	topK int,
	scoreThreshold float64,
) *ClinicalAgent {
	return &ClinicalAgent{
		generator:      generator,
		retriever:      retriever,
		searcher:       searcher,
		topK:           topK,
		scoreThreshold: scoreThreshold,
	}
}

func (a *ClinicalAgent) Name() domain.AgentName {
	return domain.AgentClinical
}

func (a *ClinicalAgent) Process(ctx context.Context, state *domain.SessionState) (domain.StateUpdate, error) {
	query := state.LatestQuery
	log := observability.LoggerFromContext(ctx).With(
		"agent", a.Name(),
		"user_id", state.UserID,
	)

	var processingSteps []string

	// Step 1: reference retrieval.
	var chunks []domain.RetrievedChunk
	var ragCitations []domain.Citation

	if state.RAGEnabled {
		processingSteps = append(processingSteps, "searching_references")
		chunks, ragCitations = a.retriever.RetrieveWithCitations(ctx, query, a.topK, a.scoreThreshold)

		log.Info("reference retrieval done",
			"chunks_found", len(chunks),
			"top_scores", topScores(chunks, 3))
	}

	// Step 2: web search, only for time-sensitive queries.
	var webResults []domain.WebSearchResult
	var webCitations []domain.Citation
	requiresWebSearch := websearch.IsTimeSensitive(query)

	var webResponse domain.WebSearchResponse
	if state.WebSearchEnabled && requiresWebSearch {
		processingSteps = append(processingSteps, "searching_web")
		webResponse = a.searcher.Search(ctx, query)
		webResults = webResponse.Results

		for _, result := range webResults {
			webCitations = append(webCitations, domain.Citation{
				SourceType: result.SourceType,
				URL:        result.URL,
			})
		}

		log.Info("web search done",
			"results_found", len(webResults),
			"is_stub", webResponse.IsStub)
	}

	// Step 3: assemble evidence and generate the structured answer.
	evidence := a.buildContext(state, chunks, webResponse)
	answer := a.generateStructured(ctx, query, evidence, append(ragCitations, webCitations...))
	answer.Citations = rag.DeduplicateCitations(answer.Citations)

	log.Info("clinical answer generated",
		"model", answer.ModelUsed,
		"citations_count", len(answer.Citations))

	response := formatClinicalResponse(answer)
	return domain.StateUpdate{
		LatestResponse: &response,
		CurrentAgent:   agentNamePtr(domain.AgentClinical),
		Metadata: map[string]any{
			"model_used":          answer.ModelUsed,
			"citations":           answer.Citations,
			"rag_chunks":          len(chunks),
			"web_results":         len(webResults),
			"processing_steps":    processingSteps,
			"required_web_search": requiresWebSearch,
		},
	}, nil
}

func (a *ClinicalAgent) buildContext(
	state *domain.SessionState,
	chunks []domain.RetrievedChunk,
	webResponse domain.WebSearchResponse,
) string {
	var parts []string

	if patient := state.PatientRecord; patient != nil {
		parts = append(parts, fmt.Sprintf("Patient Context: %s, diagnosed with %s",
			patient.Name, patient.PrimaryDiagnosis))
	}

	if len(chunks) > 0 {
		parts = append(parts, "Reference Database Information:\n"+a.retriever.FormatContext(chunks))
	}

	if len(webResponse.Results) > 0 {
		parts = append(parts, "\n"+websearch.FormatResults(webResponse))
	}

	return strings.Join(parts, "\n\n")
}

const clinicalAnswerInstructions = `Please provide a comprehensive, evidence-based answer to the user's query.

Instructions:
1. Use the reference database information provided above
2. Include inline citations in your answer like [Ref p.14]
3. For web sources, mention them as (Web Source)
4. Keep language clear and patient-friendly
5. Acknowledge if information is limited
6. Always maintain a professional, supportive tone

Remember: Your response will be structured with citations automatically extracted.`

func (a *ClinicalAgent) generateStructured(
	ctx context.Context,
	query, evidence string,
	collected []domain.Citation,
) domain.StructuredAnswer {
	log := observability.LoggerFromContext(ctx)

	prompt := fmt.Sprintf("%s\n\nUser Query: %s\n\n%s", evidence, query, clinicalAnswerInstructions)

	answer, err := a.generator.GenerateStructured(ctx, llm.ClinicalSystemPrompt, prompt)
	if err != nil {
		log.Error("structured generation failed", "error", err)
		answer = domain.StructuredAnswer{
			Answer:     domain.MsgLLMUnavailable,
			ModelUsed:  domain.StubModelIdentifier,
			Disclaimer: domain.MedicalDisclaimer,
		}
	}

	// The generator's own citations win; the retrieval ones fill the gap.
	if len(answer.Citations) == 0 {
		answer.Citations = collected
	}
	return answer
}

func formatClinicalResponse(answer domain.StructuredAnswer) string {
	var parts []string

	for _, c := range answer.Citations {
		if c.SourceType == domain.SourceWeb {
			parts = append(parts, "*This answer includes recent information from web sources.*\n")
			break
		}
	}

	parts = append(parts, answer.Answer)

	if len(answer.Citations) > 0 {
		parts = append(parts, "\n\n"+rag.FormatCitationList(answer.Citations))
	}

	parts = append(parts, "\n\n⚠️ "+answer.Disclaimer)

	return strings.Join(parts, "\n")
}

func topScores(chunks []domain.RetrievedChunk, n int) []float64 {
	scores := make([]float64, 0, n)
	for i, chunk := range chunks {
		if i >= n {
			break
		}
		scores = append(scores, chunk.Score)
	}
	return scores
}
