package agentflow

import (
	"context"
	"fmt"
	"strings"

	"aftercare/internal/adapters/llm"
	"aftercare/internal/domain"
	"aftercare/internal/observability"
)

// ReceptionistAgent handles patient intake: identifying the caller, pulling
// up their discharge record, routing medical questions to the clinical agent,
// and answering everything else conversationally.
type ReceptionistAgent struct {
	generator domain.GenerationClient
	directory domain.PatientDirectory
}

func NewReceptionistAgent(generator domain.GenerationClient, directory domain.PatientDirectory) *ReceptionistAgent {
	return &ReceptionistAgent{generator: generator, directory: directory}
}

func (a *ReceptionistAgent) Name() domain.AgentName {
	return domain.AgentReceptionist
}

func (a *ReceptionistAgent) Process(ctx context.Context, state *domain.SessionState) (domain.StateUpdate, error) {
	query := state.LatestQuery
	log := observability.LoggerFromContext(ctx).With(
		"agent", a.Name(),
		"user_id", state.UserID,
	)

	// Step 1: resolve the patient's identity if we don't have it yet.
	if state.PatientName == "" {
		if name := ExtractName(query); name != "" {
			log.Info("extracted patient name", "name", name)

			result := a.directory.Lookup(name)

			var response string
			update := domain.StateUpdate{
				PatientName:  &name,
				CurrentAgent: agentNamePtr(domain.AgentReceptionist),
			}

			if result.Found {
				log.Info("patient record found",
					"patient_id", result.Patient.PatientID,
					"diagnosis", result.Patient.PrimaryDiagnosis)
				update.PatientRecord = result.Patient
				response = patientGreeting(result.Patient)
			} else {
				log.Warn("patient lookup failed", "error_kind", result.ErrorKind)
				response = result.Message
			}

			update.LatestResponse = &response
			return update, nil
		}
	}

	// Step 2: medical questions belong with the clinical agent.
	if IsClinicalQuery(query) {
		log.Info("routing to clinical agent", "query", truncate(query, 100))

		handoff := domain.HandoffReceptionistToClinical
		notice := domain.HandoffNotice
		return domain.StateUpdate{
			CurrentAgent:   agentNamePtr(domain.AgentClinical),
			Handoff:        &handoff,
			LatestResponse: &notice,
		}, nil
	}

	// Step 3: everything else gets a conversational reply.
	response := a.converse(ctx, state, query)
	return domain.StateUpdate{
		LatestResponse: &response,
		CurrentAgent:   agentNamePtr(domain.AgentReceptionist),
	}, nil
}

func (a *ReceptionistAgent) converse(ctx context.Context, state *domain.SessionState, query string) string {
	log := observability.LoggerFromContext(ctx)

	prompt := fmt.Sprintf("Context:\n%s\n\nUser: %s", a.buildContext(state), query)

	response, err := a.generator.Generate(ctx, llm.ReceptionistSystemPrompt, prompt)
	if err != nil {
		log.Error("receptionist generation failed", "error", err)
		return domain.MsgLLMUnavailable
	}
	return response
}

// patientGreeting composes the welcome message from the discharge record,
// prompting about medications, warning signs, and upcoming appointments when
// the record has them.
func patientGreeting(patient *domain.PatientRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello %s! I found your discharge record from %s.\n\n", patient.Name, patient.DischargeDate)
	fmt.Fprintf(&b, "I see you were discharged with a diagnosis of %s.", patient.PrimaryDiagnosis)

	if len(patient.Medications) > 0 {
		b.WriteString("\n\nHow are you managing your medications? Are you experiencing any issues?")
	}
	if len(patient.WarningSigns) > 0 {
		b.WriteString("\n\nAre you experiencing any of the warning signs we discussed?")
	}
	if patient.NextAppointment != "" {
		fmt.Fprintf(&b, "\n\nReminder: Your next appointment is scheduled for %s.", patient.NextAppointment)
	}

	b.WriteString("\n\nHow can I help you today?")
	return b.String()
}

func (a *ReceptionistAgent) buildContext(state *domain.SessionState) string {
	var parts []string

	if patient := state.PatientRecord; patient != nil {
		parts = append(parts, "Patient: "+patient.Name)
		parts = append(parts, "Diagnosis: "+patient.PrimaryDiagnosis)
		parts = append(parts, "Discharge Date: "+patient.DischargeDate)

		if len(patient.Medications) > 0 {
			parts = append(parts, "Medications: "+strings.Join(head(patient.Medications, 3), ", "))
		}
		if len(patient.WarningSigns) > 0 {
			parts = append(parts, "Warning Signs: "+strings.Join(head(patient.WarningSigns, 2), ", "))
		}
	}

	if len(state.ConversationHistory) > 0 {
		parts = append(parts, "\nRecent Conversation:")
		for _, msg := range state.RecentHistory(3) {
			label := roleLabel(msg)
			parts = append(parts, fmt.Sprintf("%s: %s", label, msg.Content))
		}
	}

	return strings.Join(parts, "\n")
}

func roleLabel(msg domain.ConversationMessage) string {
	label := strings.ToUpper(string(msg.Role)[:1]) + string(msg.Role)[1:]
	if msg.Agent != "" {
		label += fmt.Sprintf(" (%s)", msg.Agent)
	}
	return label
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func agentNamePtr(name domain.AgentName) *domain.AgentName {
	return &name
}
