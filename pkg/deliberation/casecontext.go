package deliberation

import "strings"

// IntakeBundle is the raw interview material the presentation layer collects
// before a session starts.
type IntakeBundle struct {
	Demographics string
	History      string
	Symptoms     string
	Medications  string
	Vitals       map[string]string
	FreeText     string
}

// defaultFindingsDescription keeps the findings field structurally non-empty
// when no image was analyzed.
const defaultFindingsDescription = "No imaging study was provided for this consultation."

// negationMarkers flag an intake answer as "nothing to report".
var negationMarkers = []string{"none", "n/a", "no ", "nothing", "fine"}

// NewCaseContext assembles the immutable case bundle from the intake
// material and the findings collaborator output. Findings and free text are
// defaulted when absent so downstream units never see a structural hole.
func NewCaseContext(bundle IntakeBundle, findings Findings) CaseContext {
	cc := CaseContext{
		Demographics: newIntake(bundle.Demographics),
		History:      newIntake(bundle.History),
		Symptoms:     newIntake(bundle.Symptoms),
		Medications:  newIntake(bundle.Medications),
		Vitals:       bundle.Vitals,
		Findings:     findings,
	}

	if cc.Findings.Description == "" {
		cc.Findings.Description = defaultFindingsDescription
	}
	if cc.Findings.Entities == nil {
		cc.Findings.Entities = []FindingEntity{}
	}

	cc.FreeText = strings.TrimSpace(bundle.FreeText)
	if cc.FreeText == "" {
		cc.FreeText = joinNonEmpty(" ",
			bundle.Demographics, bundle.History, bundle.Symptoms, bundle.Medications)
	}
	if cc.FreeText == "" {
		cc.FreeText = "No additional information provided."
	}

	return cc
}

// Validate checks the structural constraints the round controller requires.
func (cc CaseContext) Validate() error {
	if cc.Findings.Description == "" {
		return &ValidationFailure{Field: "medblip_findings.description", Reason: "must not be empty"}
	}
	if strings.TrimSpace(cc.FreeText) == "" {
		return &ValidationFailure{Field: "free_text", Reason: "must not be empty"}
	}
	return nil
}

func newIntake(raw string) Intake {
	trimmed := strings.TrimSpace(raw)
	return Intake{Raw: trimmed, Present: intakePresent(trimmed)}
}

func intakePresent(raw string) bool {
	if raw == "" {
		return false
	}
	lower := strings.ToLower(raw)
	for _, marker := range negationMarkers {
		if lower == strings.TrimSpace(marker) || strings.HasPrefix(lower, marker) {
			return false
		}
	}
	return true
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sep)
}
