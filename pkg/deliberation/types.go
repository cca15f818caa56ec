package deliberation

// TerminationReason explains why the round loop stopped.
type TerminationReason string

const (
	TerminationConsensusReached TerminationReason = "CONSENSUS_REACHED"
	TerminationRoundCapExceeded TerminationReason = "ROUND_CAP_EXCEEDED"
)

// Doctor identifiers, in stable panel order. Tie-breaks across opinions
// always follow this order.
var DoctorIDs = []string{"doctor_1", "doctor_2", "doctor_3"}

// PanelSize is fixed: exactly three reasoning units per round.
const PanelSize = 3

// DefaultMaxRounds caps the deliberation loop when no override is configured.
const DefaultMaxRounds = 13

// FindingEntity is a single structured finding extracted from an image
// caption. CUI, Confidence and Location are optional; Confidence is on the
// [0,1] scale.
type FindingEntity struct {
	Label      string  `json:"label"`
	CUI        string  `json:"cui,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Location   string  `json:"location,omitempty"`
}

// Findings is the structured output of the image-findings collaborator.
type Findings struct {
	Description string          `json:"description"`
	Entities    []FindingEntity `json:"entities"`
	Impression  string          `json:"impression,omitempty"`
}

// Empty reports whether no usable finding content is present.
func (f Findings) Empty() bool {
	return f.Description == "" && len(f.Entities) == 0 && f.Impression == ""
}

// Intake is one stage of the patient interview: the raw text the user gave
// plus the derived presence flag.
type Intake struct {
	Raw     string `json:"raw"`
	Present bool   `json:"present"`
}

// CaseContext is the immutable input bundle every unit reads. It is built
// once per session and never mutated afterwards.
type CaseContext struct {
	Demographics Intake            `json:"demographics"`
	History      Intake            `json:"history"`
	Symptoms     Intake            `json:"symptoms"`
	Medications  Intake            `json:"medications"`
	Vitals       map[string]string `json:"vitals,omitempty"`
	Findings     Findings          `json:"medblip_findings"`
	FreeText     string            `json:"free_text"`
}

// DoctorOpinion is one reasoning unit's output for one round. Immutable once
// produced; the controller appends it to history and never edits it.
type DoctorOpinion struct {
	DoctorID        string   `json:"doctor_id"`
	Hypotheses      []string `json:"hypotheses"`
	DiagnosticTests []string `json:"diagnostic_tests"`
	Reasoning       string   `json:"reasoning"`
	CritiqueOfPeers string   `json:"critique_of_peers"`
}

// SupervisorDecision is the arbitration unit's synthesis for a round. Only
// the last one produced in a session is authoritative.
type SupervisorDecision struct {
	ConsensusHypotheses []string          `json:"consensus_hypotheses"`
	PrioritizedTests    []string          `json:"prioritized_tests"`
	Rationale           string            `json:"rationale"`
	TerminationReason   TerminationReason `json:"termination_reason"`
}

// RoundRecord is one completed cycle: three opinions plus the synthesis.
// Records are append-only and indexed by Round starting at 1.
type RoundRecord struct {
	Round     int                `json:"round"`
	Opinions  []DoctorOpinion    `json:"opinions"`
	Synthesis SupervisorDecision `json:"synthesis"`
}

// PatientSummary is the terminal artifact handed to the presentation layer.
type PatientSummary struct {
	SummaryText string   `json:"summary_text"`
	Disclaimers []string `json:"disclaimers"`
}

// SafetyDisclaimers is the mandatory disclaimer block every PatientSummary
// carries.
var SafetyDisclaimers = []string{
	"These consultation results are for educational and reference purposes only.",
	"They do not provide a definitive diagnosis or treatment.",
	"Please consult a medical specialist.",
	"In an emergency, call your local emergency number or visit an emergency room immediately.",
}
