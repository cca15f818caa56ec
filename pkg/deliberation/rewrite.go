package deliberation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/pkg/llm"
)

// Jargon stripping is deterministic and applied to every summary, model
// generated or templated: UMLS concept codes and raw confidence numbers
// never reach the patient.
var (
	cuiRe        = regexp.MustCompile(`\bC\d{7}\b`)
	confidenceRe = regexp.MustCompile(`(?i)\(?\s*confidence[:\s]*[0-9]*\.?[0-9]+\s*%?\s*\)?`)
	bareScoreRe  = regexp.MustCompile(`\b0\.\d{1,4}\b`)
)

// StripJargon removes concept codes and confidence values from a text.
func StripJargon(text string) string {
	out := cuiRe.ReplaceAllString(text, "")
	out = confidenceRe.ReplaceAllString(out, "")
	out = bareScoreRe.ReplaceAllString(out, "")
	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// ModelRewriter is the completion-backed rewrite unit (admin role).
type ModelRewriter struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

var _ RewriteUnit = &ModelRewriter{}

func NewModelRewriter(provider llm.LLMProvider, log logger.ILogger) *ModelRewriter {
	return &ModelRewriter{provider: provider, log: log}
}

func (r *ModelRewriter) Summarize(ctx context.Context, decision SupervisorDecision) (PatientSummary, error) {
	if err := validateFinalDecision(decision); err != nil {
		return PatientSummary{}, err
	}

	messages := []llm.Message{
		{Role: "system", Content: rewriteSystemPrompt},
		{Role: "user", Content: buildRewritePrompt(stripDecisionJargon(decision))},
	}

	raw, err := r.provider.Chat(ctx, messages,
		llm.WithTemperature(rewriteTemperature),
		llm.WithMaxTokens(rewriteMaxTokens),
	)
	if err != nil {
		// The rewrite step has a deterministic fallback; a completion error
		// must not lose the consensus that was already reached.
		r.log.Warn("Deliberation", "Rewrite completion failed, using templated summary", map[string]interface{}{
			"error": err.Error(),
		})
		return templateSummary(decision), nil
	}

	text, violated := SanitizeClaim(StripJargon(raw))
	if violated {
		r.log.Warn("Deliberation", "Definitive phrasing sanitized from patient summary", nil)
	}
	if strings.TrimSpace(text) == "" {
		return templateSummary(decision), nil
	}

	return PatientSummary{SummaryText: text, Disclaimers: SafetyDisclaimers}, nil
}

// templateSummary renders the decision without a model, offline-safe.
func templateSummary(decision SupervisorDecision) PatientSummary {
	var b strings.Builder
	b.WriteString("Consultation summary\n\n")
	b.WriteString("After review by a panel of medical reasoning assistants, the following possibilities were considered:\n")
	for _, h := range decision.ConsensusHypotheses {
		fmt.Fprintf(&b, "- %s\n", StripJargon(h))
	}
	b.WriteString("\nTests that may help clarify the picture:\n")
	for _, t := range decision.PrioritizedTests {
		fmt.Fprintf(&b, "- %s\n", StripJargon(t))
	}
	b.WriteString("\nThese results are for reference only; an accurate diagnosis requires consultation with a specialist.")

	text, _ := SanitizeClaim(b.String())
	return PatientSummary{SummaryText: text, Disclaimers: SafetyDisclaimers}
}

func stripDecisionJargon(d SupervisorDecision) SupervisorDecision {
	strip := func(items []string) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := StripJargon(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	d.ConsensusHypotheses = strip(d.ConsensusHypotheses)
	d.PrioritizedTests = strip(d.PrioritizedTests)
	d.Rationale = StripJargon(d.Rationale)
	return d
}

// validateFinalDecision guards the rewrite boundary: a malformed decision is
// rejected, never guessed at.
func validateFinalDecision(d SupervisorDecision) error {
	if err := ValidateDecision(d); err != nil {
		return err
	}
	if d.TerminationReason == "" {
		return &ValidationFailure{Field: "termination_reason", Reason: "must be set on the final decision"}
	}
	if strings.TrimSpace(d.Rationale) == "" {
		return &ValidationFailure{Field: "rationale", Reason: "must not be empty"}
	}
	return nil
}
