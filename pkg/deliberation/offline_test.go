package deliberation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlinePanel() []ReasoningUnit {
	units := make([]ReasoningUnit, 0, PanelSize)
	for i, id := range DoctorIDs {
		units = append(units, NewOfflineDoctor(id, i))
	}
	return units
}

func TestOfflineDoctorsKeepDistinctLeads(t *testing.T) {
	cc := testCaseContext()
	panel := offlinePanel()

	tops := map[string]bool{}
	for _, unit := range panel {
		op, err := unit.Propose(context.Background(), cc, nil)
		require.NoError(t, err)
		require.NotEmpty(t, op.Hypotheses)
		tops[NormalizeTerm(op.Hypotheses[0])] = true
	}
	assert.Len(t, tops, PanelSize, "offline doctors must not share a leading hypothesis")
}

func TestOfflineDoctorCritiqueReferencesPeers(t *testing.T) {
	cc := testCaseContext()
	doctor := NewOfflineDoctor(DoctorIDs[0], 0)

	history := []RoundRecord{{
		Round: 1,
		Opinions: []DoctorOpinion{
			scriptedOpinion(DoctorIDs[0], "alpha", 1),
			scriptedOpinion(DoctorIDs[1], "beta", 1),
			scriptedOpinion(DoctorIDs[2], "gamma", 1),
		},
	}}

	op, err := doctor.Propose(context.Background(), cc, history)
	require.NoError(t, err)
	assert.Contains(t, op.CritiqueOfPeers, DoctorIDs[1])
	assert.Contains(t, op.CritiqueOfPeers, DoctorIDs[2])
	assert.NotContains(t, op.CritiqueOfPeers, DoctorIDs[0]+" favored")
}

func TestOfflineSessionExhaustsRoundCap(t *testing.T) {
	ctrl, err := NewController(offlinePanel(), OfflineSupervisor{},
		Config{MaxRounds: DefaultMaxRounds, UnitTimeout: time.Second}, nil, nopLogger{})
	require.NoError(t, err)

	session := NewSession("offline-1", testCaseContext())
	decision, err := ctrl.Run(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, TerminationRoundCapExceeded, decision.TerminationReason)
	assert.Equal(t, DefaultMaxRounds, session.RoundsCompleted())
	assert.NotEmpty(t, decision.ConsensusHypotheses)
	assert.NotEmpty(t, decision.PrioritizedTests)

	summary, err := OfflineRewriter{}.Summarize(context.Background(), decision)
	require.NoError(t, err)
	assert.Equal(t, SafetyDisclaimers, summary.Disclaimers)
	assert.NotEmpty(t, summary.SummaryText)
}

func TestOfflineHypothesisPoolUsesFindings(t *testing.T) {
	cc := NewCaseContext(IntakeBundle{Symptoms: "cough"}, Findings{
		Description: "Right lower lobe consolidation.",
		Entities: []FindingEntity{
			{Label: "consolidation", CUI: "C0521530", Confidence: 0.7},
			{Label: "pleural effusion", CUI: "C0032227", Confidence: 0.4},
		},
	})

	op, err := NewOfflineDoctor(DoctorIDs[0], 0).Propose(context.Background(), cc, nil)
	require.NoError(t, err)
	assert.Contains(t, op.Hypotheses[0], "consolidation")
}
