package deliberation

import "context"

// Unit role names, used in failure reporting and progress events.
const (
	RoleDoctor     = "doctor"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// ReasoningUnit produces one doctor opinion per round. Implementations are
// stateless with respect to the controller: everything they need arrives in
// the case context and the round history. On round 1 history is empty and
// the returned critique must be empty; on later rounds the critique refers
// to the immediately preceding round's opinions.
type ReasoningUnit interface {
	// DoctorID identifies this panel member (doctor_1..doctor_3).
	DoctorID() string

	// Propose generates this doctor's opinion for the upcoming round.
	Propose(ctx context.Context, cc CaseContext, history []RoundRecord) (DoctorOpinion, error)
}

// ArbitrationUnit judges convergence and synthesizes the round decision.
// current carries the round being arbitrated: its three opinions are
// complete, its synthesis is not yet set.
type ArbitrationUnit interface {
	Arbitrate(ctx context.Context, cc CaseContext, history []RoundRecord, current RoundRecord) (SupervisorDecision, error)
}

// RewriteUnit turns the final decision into a plain-language summary with
// the mandatory disclaimer block.
type RewriteUnit interface {
	Summarize(ctx context.Context, decision SupervisorDecision) (PatientSummary, error)
}

// ValidateOpinion enforces the structural contract on a unit's output.
func ValidateOpinion(op DoctorOpinion, round int) error {
	if op.DoctorID == "" {
		return &ValidationFailure{Field: "doctor_id", Reason: "must not be empty"}
	}
	if len(op.Hypotheses) == 0 {
		return &ValidationFailure{Field: "hypotheses", Reason: "must contain at least one entry"}
	}
	if len(op.DiagnosticTests) == 0 {
		return &ValidationFailure{Field: "diagnostic_tests", Reason: "must contain at least one entry"}
	}
	if round == 1 && op.CritiqueOfPeers != "" {
		return &ValidationFailure{Field: "critique_of_peers", Reason: "must be empty on round 1"}
	}
	if round > 1 && op.CritiqueOfPeers == "" {
		return &ValidationFailure{Field: "critique_of_peers", Reason: "must be populated after round 1"}
	}
	return nil
}

// ValidateDecision enforces the structural contract on a supervisor output.
// The termination reason is set by the controller, so it is not required
// here; when present it must be a known value.
func ValidateDecision(d SupervisorDecision) error {
	if len(d.ConsensusHypotheses) == 0 {
		return &ValidationFailure{Field: "consensus_hypotheses", Reason: "must contain at least one entry"}
	}
	if len(d.PrioritizedTests) == 0 {
		return &ValidationFailure{Field: "prioritized_tests", Reason: "must contain at least one entry"}
	}
	switch d.TerminationReason {
	case "", TerminationConsensusReached, TerminationRoundCapExceeded:
		return nil
	default:
		return &ValidationFailure{Field: "termination_reason", Reason: "unknown value " + string(d.TerminationReason)}
	}
}
