package deliberation

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt builders for the model-backed units. The exact wording is not a
// contract; the section markers are, because the parsers key on them.

const doctorSystemPrompt = `You are %s, a general practitioner on a three-doctor consultation panel.
Provide diagnostic reasoning and recommendations for the case below.

Rules:
- Present possibilities as hypotheses, never as definitive diagnoses.
- Never recommend a specific treatment; recommend diagnostic tests only.
- Never invent lab or imaging results that are not implied by the case.
- Patient safety comes first; emphasize the need for specialist follow-up.`

const doctorUpdateInstructions = `Based on the case, your previous opinion, your peers' opinions and the
supervisor feedback above:
1. Evaluate and critique your peers' opinions from the previous round.
2. Update your own hypotheses and recommended tests.
3. Strengthen the reasoning behind the updated opinion.

Format your answer with bullet lists under these headings:
Hypotheses:
Diagnostic Tests:
Critique of Peers:
Reasoning:`

const doctorInitialInstructions = `Based on the case above provide:
1. Possible diagnostic hypotheses, in priority order.
2. Recommended diagnostic tests, in priority order.
3. Your clinical reasoning.

Format your answer with bullet lists under these headings:
Hypotheses:
Diagnostic Tests:
Reasoning:`

const supervisorSystemPrompt = `You are the supervising physician of a three-doctor consultation panel.
You evaluate the panel's current opinions, point out gaps, and judge consensus.

Strict consensus criteria: declare consensus only when at least 2 of the 3
doctors agree on identical or very similar leading hypotheses AND on the
same priority diagnostic tests. Having hypotheses is not consensus.

Answer using exactly these sections:
**Integrated Hypothesis**
- Main Candidates:
**Priority Tests**
- Immediately Needed:
**Consensus Status**
- Consensus Reached: Yes|No
- Consensus Rationale:`

const rewriteSystemPrompt = `You rewrite a medical panel's consensus into plain language for a patient.
Use everyday words, keep every recommendation, add no new clinical claims,
and keep an encouraging but honest tone. Do not include concept codes or
confidence numbers.`

func buildCaseSection(cc CaseContext) string {
	var b strings.Builder
	b.WriteString("<case>\n")
	fmt.Fprintf(&b, "Demographics: %s\n", orUnknown(cc.Demographics.Raw))
	fmt.Fprintf(&b, "History: %s\n", orUnknown(cc.History.Raw))
	fmt.Fprintf(&b, "Symptoms: %s\n", orUnknown(cc.Symptoms.Raw))
	fmt.Fprintf(&b, "Medications: %s\n", orUnknown(cc.Medications.Raw))
	if len(cc.Vitals) > 0 {
		keys := make([]string, 0, len(cc.Vitals))
		for k := range cc.Vitals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Vitals:")
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%s", k, cc.Vitals[k])
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Imaging findings: %s\n", cc.Findings.Description)
	for _, e := range cc.Findings.Entities {
		fmt.Fprintf(&b, "- finding: %s", e.Label)
		if e.Location != "" {
			fmt.Fprintf(&b, " (%s)", e.Location)
		}
		b.WriteString("\n")
	}
	if cc.Findings.Impression != "" {
		fmt.Fprintf(&b, "Impression: %s\n", cc.Findings.Impression)
	}
	fmt.Fprintf(&b, "Additional information: %s\n", cc.FreeText)
	b.WriteString("</case>\n")
	return b.String()
}

func buildDoctorPrompt(doctorID string, cc CaseContext, history []RoundRecord, round int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Consultation round %d.\n\n", round)
	b.WriteString(buildCaseSection(cc))

	if round > 1 && len(history) > 0 {
		prev := history[len(history)-1]
		b.WriteString("\n<previous_round>\n")
		for _, op := range prev.Opinions {
			if op.DoctorID == doctorID {
				fmt.Fprintf(&b, "Your previous opinion: hypotheses %v; tests %v\n",
					op.Hypotheses, op.DiagnosticTests)
				continue
			}
			fmt.Fprintf(&b, "%s: hypotheses %v; tests %v; reasoning: %s\n",
				op.DoctorID, op.Hypotheses, op.DiagnosticTests, op.Reasoning)
		}
		fmt.Fprintf(&b, "Supervisor feedback: %s\n", prev.Synthesis.Rationale)
		b.WriteString("</previous_round>\n\n")
		b.WriteString(doctorUpdateInstructions)
	} else {
		b.WriteString("\n")
		b.WriteString(doctorInitialInstructions)
	}
	return b.String()
}

func buildSupervisorPrompt(cc CaseContext, history []RoundRecord, current RoundRecord) string {
	var b strings.Builder
	b.WriteString(buildCaseSection(cc))

	if len(history) > 0 {
		b.WriteString("\n<previous_rounds>\n")
		for _, rr := range history {
			fmt.Fprintf(&b, "Round %d:\n", rr.Round)
			for _, op := range rr.Opinions {
				fmt.Fprintf(&b, "  %s: %v | %v\n", op.DoctorID, op.Hypotheses, op.DiagnosticTests)
			}
			fmt.Fprintf(&b, "  Supervisor: %v | consensus: %t\n",
				rr.Synthesis.ConsensusHypotheses,
				rr.Synthesis.TerminationReason == TerminationConsensusReached)
		}
		b.WriteString("</previous_rounds>\n")
	}

	fmt.Fprintf(&b, "\n<current_round index=%q>\n", fmt.Sprint(current.Round))
	for _, op := range current.Opinions {
		fmt.Fprintf(&b, "%s:\n- hypotheses: %v\n- tests: %v\n- reasoning: %s\n- critique: %s\n",
			op.DoctorID, op.Hypotheses, op.DiagnosticTests, op.Reasoning, op.CritiqueOfPeers)
	}
	b.WriteString("</current_round>\n\n")
	b.WriteString("Analyze the level of agreement, the conflicting opinions and their reasons, ")
	b.WriteString("integrate the hypothesis candidates, deduplicate the priority tests, ")
	b.WriteString("and judge consensus under the strict criteria.")
	return b.String()
}

func buildRewritePrompt(decision SupervisorDecision) string {
	var b strings.Builder
	b.WriteString("Rewrite the following consultation consensus for the patient.\n\n")
	b.WriteString("Reviewed possibilities:\n")
	for _, h := range decision.ConsensusHypotheses {
		fmt.Fprintf(&b, "- %s\n", h)
	}
	b.WriteString("Recommended tests:\n")
	for _, t := range decision.PrioritizedTests {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	fmt.Fprintf(&b, "Panel rationale: %s\n", decision.Rationale)
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not provided"
	}
	return s
}
