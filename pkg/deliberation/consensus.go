package deliberation

import (
	"fmt"
	"regexp"
	"strings"
)

// Convergence heuristic. Not a majority vote over raw strings: hypotheses
// and tests are normalized first, then agreement is measured structurally.
// Consensus requires both of:
//
//  1. at least 2 of the 3 doctors rank the same normalized hypothesis first
//  2. at least 2 of the 3 doctors recommend at least one common normalized test
//
// The result is deterministic given identical opinions. Tie-break for
// synthesis ordering is first appearance in doctor_1 -> doctor_3 order,
// then rank within each opinion.

var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
var punctRe = regexp.MustCompile(`[^a-z0-9 ]+`)
var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeTerm canonicalizes a hypothesis or test label for comparison:
// lowercase, parenthetical qualifiers dropped, punctuation stripped,
// whitespace collapsed.
func NormalizeTerm(term string) string {
	s := strings.ToLower(term)
	s = parentheticalRe.ReplaceAllString(s, " ")
	s = punctRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StructuralConsensus reports whether the three opinions agree under the
// heuristic above.
func StructuralConsensus(opinions []DoctorOpinion) bool {
	if len(opinions) != PanelSize {
		return false
	}
	return topHypothesisAgreement(opinions) >= 2 && sharedTestAgreement(opinions) >= 2
}

// topHypothesisAgreement returns the largest number of doctors sharing the
// same normalized top-ranked hypothesis.
func topHypothesisAgreement(opinions []DoctorOpinion) int {
	counts := map[string]int{}
	best := 0
	for _, op := range opinions {
		if len(op.Hypotheses) == 0 {
			continue
		}
		key := NormalizeTerm(op.Hypotheses[0])
		if key == "" {
			continue
		}
		counts[key]++
		if counts[key] > best {
			best = counts[key]
		}
	}
	return best
}

// sharedTestAgreement returns the largest number of doctors whose test lists
// contain a common normalized test.
func sharedTestAgreement(opinions []DoctorOpinion) int {
	counts := map[string]int{}
	best := 0
	for _, op := range opinions {
		seen := map[string]bool{}
		for _, t := range op.DiagnosticTests {
			key := NormalizeTerm(t)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
			if counts[key] > best {
				best = counts[key]
			}
		}
	}
	return best
}

// MergeRanked deduplicates the given ranked lists across doctors, keeping
// first-appearance order: rank 1 of doctor_1, rank 1 of doctor_2, ... then
// rank 2 of each, and so on. Duplicates are detected on normalized form;
// the first surface form encountered wins.
func MergeRanked(lists [][]string) []string {
	var merged []string
	seen := map[string]bool{}
	maxLen := 0
	for _, l := range lists {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	for rank := 0; rank < maxLen; rank++ {
		for _, l := range lists {
			if rank >= len(l) {
				continue
			}
			key := NormalizeTerm(l[rank])
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, strings.TrimSpace(l[rank]))
		}
	}
	return merged
}

// Synthesize builds a decision from the three opinions using the structural
// heuristic alone. Model-backed supervisors use it as the deterministic
// gate and fallback; the offline supervisor uses it directly.
func Synthesize(round int, opinions []DoctorOpinion) SupervisorDecision {
	hypotheses := make([][]string, 0, len(opinions))
	tests := make([][]string, 0, len(opinions))
	for _, op := range opinions {
		hypotheses = append(hypotheses, op.Hypotheses)
		tests = append(tests, op.DiagnosticTests)
	}

	decision := SupervisorDecision{
		ConsensusHypotheses: MergeRanked(hypotheses),
		PrioritizedTests:    MergeRanked(tests),
	}

	if StructuralConsensus(opinions) {
		decision.TerminationReason = TerminationConsensusReached
		decision.Rationale = fmt.Sprintf(
			"Round %d: at least two of three doctors agree on the leading hypothesis and on a shared diagnostic test.", round)
	} else {
		decision.Rationale = fmt.Sprintf(
			"Round %d: the panel has not converged. Leading hypotheses still differ across doctors: %s.",
			round, disagreementSummary(opinions))
	}
	return decision
}

// disagreementSummary names each doctor's top hypothesis so the rationale
// surfaces the disagreement explicitly.
func disagreementSummary(opinions []DoctorOpinion) string {
	parts := make([]string, 0, len(opinions))
	for _, op := range opinions {
		top := "none"
		if len(op.Hypotheses) > 0 {
			top = op.Hypotheses[0]
		}
		parts = append(parts, fmt.Sprintf("%s favors %q", op.DoctorID, top))
	}
	return strings.Join(parts, "; ")
}
