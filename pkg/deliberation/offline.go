package deliberation

import (
	"context"
	"fmt"
	"strings"
)

// Offline units. When no completion service is configured the session still
// runs end to end on deterministic templates. Each offline doctor ranks the
// shared candidate pool from a different starting point, so the panel keeps
// a genuine spread of leading hypotheses and the structural heuristic is
// exercised honestly instead of being short-circuited.

var genericHypotheses = []string{
	"Nonspecific findings requiring clinical correlation",
	"Early inflammatory process",
	"Benign incidental finding",
}

var genericTests = []string{
	"Specialist consultation",
	"Follow-up imaging study",
	"Basic laboratory panel",
}

// OfflineDoctor is the templated reasoning unit.
type OfflineDoctor struct {
	id    string
	index int
}

var _ ReasoningUnit = &OfflineDoctor{}

func NewOfflineDoctor(id string, index int) *OfflineDoctor {
	return &OfflineDoctor{id: id, index: index}
}

func (d *OfflineDoctor) DoctorID() string { return d.id }

func (d *OfflineDoctor) Propose(_ context.Context, cc CaseContext, history []RoundRecord) (DoctorOpinion, error) {
	round := len(history) + 1

	pool := hypothesisPool(cc)
	rotated := rotate(pool, d.index%len(pool))

	op := DoctorOpinion{
		DoctorID:        d.id,
		Hypotheses:      rotated,
		DiagnosticTests: append([]string{}, genericTests...),
		Reasoning: fmt.Sprintf(
			"Offline assessment by %s based on the recorded symptoms and imaging description. "+
				"No completion service was available; the candidates reflect the structured findings only.",
			d.id),
	}

	if round > 1 {
		prev := history[len(history)-1]
		var peers []string
		for _, peer := range prev.Opinions {
			if peer.DoctorID == d.id || len(peer.Hypotheses) == 0 {
				continue
			}
			peers = append(peers, fmt.Sprintf("%s favored %q", peer.DoctorID, peer.Hypotheses[0]))
		}
		op.CritiqueOfPeers = fmt.Sprintf("Round %d review: %s. Maintaining my ranking pending further information.",
			prev.Round, strings.Join(peers, "; "))
	}

	return op, nil
}

// hypothesisPool derives candidates from the findings entities, padded with
// generics so every doctor has a full ranking to rotate.
func hypothesisPool(cc CaseContext) []string {
	var pool []string
	seen := map[string]bool{}
	for _, e := range cc.Findings.Entities {
		key := NormalizeTerm(e.Label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		pool = append(pool, "Possible "+strings.ToLower(e.Label))
	}
	for _, g := range genericHypotheses {
		if len(pool) >= PanelSize {
			break
		}
		pool = append(pool, g)
	}
	return pool
}

func rotate(items []string, n int) []string {
	out := make([]string, 0, len(items))
	out = append(out, items[n:]...)
	out = append(out, items[:n]...)
	return out
}

// OfflineSupervisor arbitrates with the structural heuristic alone.
type OfflineSupervisor struct{}

var _ ArbitrationUnit = OfflineSupervisor{}

func (OfflineSupervisor) Arbitrate(_ context.Context, _ CaseContext, _ []RoundRecord, current RoundRecord) (SupervisorDecision, error) {
	return Synthesize(current.Round, current.Opinions), nil
}

// OfflineRewriter renders the templated patient summary.
type OfflineRewriter struct{}

var _ RewriteUnit = OfflineRewriter{}

func (OfflineRewriter) Summarize(_ context.Context, decision SupervisorDecision) (PatientSummary, error) {
	if err := validateFinalDecision(decision); err != nil {
		return PatientSummary{}, err
	}
	return templateSummary(decision), nil
}
