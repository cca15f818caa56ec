package deliberation

import (
	"fmt"
	"strings"
)

// Parsers for the model-backed units. Completion output is free text; these
// recover the structured fields and fall back to safe defaults when a
// section is missing.

const maxListItems = 5

// parseDoctorResponse extracts hypotheses, tests and critique from a
// completion. The whole response is kept as reasoning.
func parseDoctorResponse(raw string, round int) DoctorOpinion {
	op := DoctorOpinion{Reasoning: strings.TrimSpace(raw)}

	section := ""
	var critiqueLines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(lower, "hypotheses"):
			section = "hypotheses"
			continue
		case strings.HasPrefix(lower, "diagnostic tests"), strings.HasPrefix(lower, "tests"):
			section = "tests"
			continue
		case strings.HasPrefix(lower, "critique of peers"), strings.HasPrefix(lower, "critique"):
			section = "critique"
			continue
		case strings.HasPrefix(lower, "reasoning"):
			section = "reasoning"
			continue
		}

		if item, ok := listItem(trimmed); ok {
			switch section {
			case "hypotheses":
				op.Hypotheses = appendCapped(op.Hypotheses, item)
			case "tests":
				op.DiagnosticTests = appendCapped(op.DiagnosticTests, item)
			case "critique":
				critiqueLines = append(critiqueLines, item)
			}
		} else if section == "critique" {
			critiqueLines = append(critiqueLines, trimmed)
		}
	}

	if round > 1 {
		// Empty stays empty here; the caller substitutes a critique that
		// names the prior round's positions.
		op.CritiqueOfPeers = strings.Join(critiqueLines, " ")
	}
	if len(op.Hypotheses) == 0 {
		op.Hypotheses = []string{"Further comprehensive review required"}
	}
	if len(op.DiagnosticTests) == 0 {
		op.DiagnosticTests = []string{"Specialist consultation", "Comprehensive diagnostic workup"}
	}
	return op
}

// defaultCritique stands in when a completion skipped its critique section.
// It names the peers' leading hypotheses from the last recorded round so the
// critique still refers to concrete positions.
func defaultCritique(doctorID string, history []RoundRecord) string {
	if len(history) == 0 {
		return ""
	}
	prev := history[len(history)-1]
	var peers []string
	for _, peer := range prev.Opinions {
		if peer.DoctorID == doctorID || len(peer.Hypotheses) == 0 {
			continue
		}
		peers = append(peers, fmt.Sprintf("%s favored %q", peer.DoctorID, peer.Hypotheses[0]))
	}
	if len(peers) == 0 {
		return fmt.Sprintf("Round %d review: no peer opinions were available to critique.", prev.Round)
	}
	return fmt.Sprintf("Round %d review: %s. No explicit disagreements to raise.",
		prev.Round, strings.Join(peers, "; "))
}

// consensusMarkers in the supervisor's Consensus Status section signal that
// the model judged the panel converged.
var consensusMarkers = []string{
	"clear consensus",
	"complete consensus",
	"consensus reached: yes",
}

// parsedSupervisor is the raw parse of a supervisor completion, before the
// structural gate is applied.
type parsedSupervisor struct {
	hypotheses     []string
	tests          []string
	rationale      string
	modelConsensus bool
}

func parseSupervisorResponse(raw string) parsedSupervisor {
	var p parsedSupervisor

	section := ""
	inRationale := false
	var rationaleLines []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)

		switch {
		case strings.Contains(lower, "**integrated hypothesis**"):
			section, inRationale = "hypothesis", false
			continue
		case strings.Contains(lower, "**priority tests**"):
			section, inRationale = "tests", false
			continue
		case strings.Contains(lower, "**consensus status**"):
			section, inRationale = "consensus", false
			continue
		}

		switch section {
		case "hypothesis":
			if item, ok := listItem(trimmed); ok && !strings.HasSuffix(item, ":") {
				p.hypotheses = appendCapped(p.hypotheses, strings.TrimPrefix(item, "Main Candidates:"))
			}
		case "tests":
			if item, ok := listItem(trimmed); ok && !strings.HasSuffix(item, ":") {
				p.tests = appendCapped(p.tests, strings.TrimPrefix(item, "Immediately Needed:"))
			}
		case "consensus":
			for _, marker := range consensusMarkers {
				if strings.Contains(lower, marker) {
					p.modelConsensus = true
				}
			}
			if idx := strings.Index(lower, "consensus rationale:"); idx >= 0 {
				inRationale = true
				if rest := strings.TrimSpace(trimmed[idx+len("consensus rationale:"):]); rest != "" {
					rationaleLines = append(rationaleLines, rest)
				}
				continue
			}
			if inRationale && !strings.HasPrefix(trimmed, "**") {
				rationaleLines = append(rationaleLines, strings.TrimPrefix(trimmed, "- "))
			}
		}
	}

	p.rationale = strings.Join(rationaleLines, " ")
	if p.rationale == "" && len(raw) > 0 {
		// Keep the head of the response so disagreement context survives.
		p.rationale = strings.TrimSpace(truncate(raw, 500))
	}
	return p
}

func listItem(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	// Numbered items: "1. xxx", "2) xxx"
	if len(line) > 2 && line[0] >= '1' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
		return strings.TrimSpace(line[2:]), true
	}
	return "", false
}

func appendCapped(items []string, item string) []string {
	item = strings.TrimSpace(item)
	if item == "" || len(items) >= maxListItems {
		return items
	}
	return append(items, item)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
