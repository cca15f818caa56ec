package mapper

import (
	"github.com/google/uuid"

	"radiology-consult-be/internal/dto"
	"radiology-consult-be/pkg/deliberation"
	"radiology-consult-be/pkg/findings"
)

type ConsultMapper struct{}

func NewConsultMapper() *ConsultMapper {
	return &ConsultMapper{}
}

// ToFindings converts a captioning analysis into the case bundle shape the
// deliberation layer consumes.
func (m *ConsultMapper) ToFindings(a findings.Analysis) deliberation.Findings {
	entities := make([]deliberation.FindingEntity, 0, len(a.Entities))
	for _, e := range a.Entities {
		entities = append(entities, deliberation.FindingEntity{
			Label:      e.Label,
			CUI:        e.CUI,
			Confidence: e.Confidence,
			Location:   e.Location,
		})
	}
	return deliberation.Findings{
		Description: a.Caption,
		Entities:    entities,
		Impression:  a.Impression,
	}
}

func (m *ConsultMapper) ToFindingsDTO(f deliberation.Findings) dto.FindingsDTO {
	entities := make([]dto.EntityDTO, 0, len(f.Entities))
	for _, e := range f.Entities {
		entities = append(entities, dto.EntityDTO{
			Label:      e.Label,
			CUI:        e.CUI,
			Confidence: e.Confidence,
			Location:   e.Location,
		})
	}
	return dto.FindingsDTO{
		Description: f.Description,
		Entities:    entities,
		Impression:  f.Impression,
	}
}

func (m *ConsultMapper) ToOpinionDTO(op deliberation.DoctorOpinion) dto.OpinionDTO {
	return dto.OpinionDTO{
		DoctorId:        op.DoctorID,
		Hypotheses:      op.Hypotheses,
		DiagnosticTests: op.DiagnosticTests,
		Reasoning:       op.Reasoning,
		CritiqueOfPeers: op.CritiqueOfPeers,
	}
}

func (m *ConsultMapper) ToDecisionDTO(d deliberation.SupervisorDecision) dto.DecisionDTO {
	return dto.DecisionDTO{
		ConsensusHypotheses: d.ConsensusHypotheses,
		PrioritizedTests:    d.PrioritizedTests,
		Rationale:           d.Rationale,
		TerminationReason:   string(d.TerminationReason),
	}
}

func (m *ConsultMapper) ToRoundDTO(rr deliberation.RoundRecord) dto.RoundDTO {
	opinions := make([]dto.OpinionDTO, 0, len(rr.Opinions))
	for _, op := range rr.Opinions {
		opinions = append(opinions, m.ToOpinionDTO(op))
	}
	return dto.RoundDTO{
		Round:    rr.Round,
		Opinions: opinions,
		Decision: m.ToDecisionDTO(rr.Synthesis),
	}
}

func (m *ConsultMapper) ToConsultResponse(sessionID uuid.UUID, session *deliberation.Session) *dto.GetConsultResponse {
	rounds := session.Rounds()
	roundDTOs := make([]dto.RoundDTO, 0, len(rounds))
	for _, rr := range rounds {
		roundDTOs = append(roundDTOs, m.ToRoundDTO(rr))
	}

	resp := &dto.GetConsultResponse{
		SessionId:         sessionID,
		Status:            session.Status(),
		RoundsCompleted:   len(rounds),
		TerminationReason: string(session.TerminationReason()),
		Findings:          m.ToFindingsDTO(session.Context.Findings),
		Rounds:            roundDTOs,
	}

	if decision, ok := session.FinalDecision(); ok && session.Status() == deliberation.StatusCompleted {
		d := m.ToDecisionDTO(decision)
		resp.Decision = &d
	}
	if summary, ok := session.Summary(); ok {
		resp.Summary = &dto.SummaryDTO{
			SummaryText: summary.SummaryText,
			Disclaimers: summary.Disclaimers,
		}
	}
	return resp
}
