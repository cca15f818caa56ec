package deliberation

import (
	"context"
	"fmt"

	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/pkg/llm"
)

// ModelSupervisor is the completion-backed arbitration unit. The structural
// heuristic gates the model's judgment: the model may veto consensus, it can
// never declare it without 2-of-3 structural agreement, so the termination
// decision stays deterministic given identical opinions.
type ModelSupervisor struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

var _ ArbitrationUnit = &ModelSupervisor{}

func NewModelSupervisor(provider llm.LLMProvider, log logger.ILogger) *ModelSupervisor {
	return &ModelSupervisor{provider: provider, log: log}
}

func (s *ModelSupervisor) Arbitrate(ctx context.Context, cc CaseContext, history []RoundRecord, current RoundRecord) (SupervisorDecision, error) {
	messages := []llm.Message{
		{Role: "system", Content: supervisorSystemPrompt},
		{Role: "user", Content: buildSupervisorPrompt(cc, history, current)},
	}

	raw, err := s.provider.Chat(ctx, messages,
		llm.WithTemperature(supervisorTemperature),
		llm.WithMaxTokens(supervisorMaxTokens),
	)
	if err != nil {
		return SupervisorDecision{}, fmt.Errorf("supervisor completion: %w", err)
	}

	parsed := parseSupervisorResponse(raw)
	structural := StructuralConsensus(current.Opinions)

	decision := SupervisorDecision{
		ConsensusHypotheses: parsed.hypotheses,
		PrioritizedTests:    parsed.tests,
		Rationale:           parsed.rationale,
	}
	if len(decision.ConsensusHypotheses) == 0 || len(decision.PrioritizedTests) == 0 {
		// Section extraction failed; fall back to the deterministic merge so
		// the decision stays structurally valid.
		s.log.Warn("Deliberation", "Supervisor response missing sections, using structural synthesis", map[string]interface{}{
			"round": current.Round,
		})
		fallback := Synthesize(current.Round, current.Opinions)
		if len(decision.ConsensusHypotheses) == 0 {
			decision.ConsensusHypotheses = fallback.ConsensusHypotheses
		}
		if len(decision.PrioritizedTests) == 0 {
			decision.PrioritizedTests = fallback.PrioritizedTests
		}
	}
	if decision.Rationale == "" {
		decision.Rationale = Synthesize(current.Round, current.Opinions).Rationale
	}

	if parsed.modelConsensus && structural {
		decision.TerminationReason = TerminationConsensusReached
	} else if parsed.modelConsensus && !structural {
		s.log.Info("Deliberation", "Model declared consensus without structural agreement, vetoed", map[string]interface{}{
			"round": current.Round,
		})
		decision.Rationale = fmt.Sprintf(
			"%s (Structural check: fewer than two doctors share the leading hypothesis; continuing.)",
			decision.Rationale)
	}

	return decision, nil
}
