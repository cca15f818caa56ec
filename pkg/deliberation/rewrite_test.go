package deliberation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripJargon(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		removed []string
	}{
		{"cui removed", "Pneumonia C0032285 in the right lobe", []string{"C0032285"}},
		{"confidence removed", "Pleural effusion (confidence: 0.87)", []string{"confidence", "0.87"}},
		{"bare score removed", "Cardiomegaly 0.92 suspected", []string{"0.92"}},
		{"plain text untouched", "Follow-up imaging study", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripJargon(tt.in)
			for _, token := range tt.removed {
				assert.NotContains(t, strings.ToLower(got), strings.ToLower(token))
			}
			if tt.removed == nil {
				assert.Equal(t, tt.in, got)
			}
		})
	}
}

func TestTemplateSummary(t *testing.T) {
	decision := SupervisorDecision{
		ConsensusHypotheses: []string{"Community-acquired pneumonia C0032285"},
		PrioritizedTests:    []string{"Chest X-ray"},
		Rationale:           "Panel converged.",
		TerminationReason:   TerminationConsensusReached,
	}

	summary := templateSummary(decision)

	assert.NotContains(t, summary.SummaryText, "C0032285")
	assert.Contains(t, summary.SummaryText, "Community-acquired pneumonia")
	assert.Contains(t, summary.SummaryText, "Chest X-ray")
	require.Len(t, summary.Disclaimers, len(SafetyDisclaimers))
	assert.Equal(t, SafetyDisclaimers, summary.Disclaimers)
}

func TestOfflineRewriterRejectsMalformedDecision(t *testing.T) {
	rewriter := OfflineRewriter{}

	_, err := rewriter.Summarize(context.Background(), SupervisorDecision{
		ConsensusHypotheses: []string{"Pneumonia"},
		PrioritizedTests:    []string{"Chest X-ray"},
		Rationale:           "reasoned",
		// TerminationReason deliberately missing
	})
	require.Error(t, err)

	var vf *ValidationFailure
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, "termination_reason", vf.Field)
}

func TestOfflineRewriterProducesDisclaimers(t *testing.T) {
	rewriter := OfflineRewriter{}

	summary, err := rewriter.Summarize(context.Background(), SupervisorDecision{
		ConsensusHypotheses: []string{"Nonspecific findings requiring clinical correlation"},
		PrioritizedTests:    []string{"Specialist consultation"},
		Rationale:           "Round cap reached without convergence.",
		TerminationReason:   TerminationRoundCapExceeded,
	})
	require.NoError(t, err)
	assert.Equal(t, SafetyDisclaimers, summary.Disclaimers)
	assert.NotEmpty(t, summary.SummaryText)
}
