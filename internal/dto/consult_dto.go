package dto

import (
	"github.com/google/uuid"
)

type StartConsultRequest struct {
	Demographics  string            `json:"demographics"`
	History       string            `json:"history"`
	Symptoms      string            `json:"symptoms" validate:"required"`
	Medications   string            `json:"medications"`
	Vitals        map[string]string `json:"vitals,omitempty"`
	FreeText      string            `json:"free_text,omitempty"`
	Image         []byte            `json:"image,omitempty"` // base64 via encoding/json
	ImageFilename string            `json:"image_filename,omitempty"`
}

type StartConsultResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
}

type EntityDTO struct {
	Label      string  `json:"label"`
	CUI        string  `json:"cui,omitempty"`
	Confidence float64 `json:"confidence"`
	Location   string  `json:"location,omitempty"`
}

type FindingsDTO struct {
	Description string      `json:"description"`
	Entities    []EntityDTO `json:"entities"`
	Impression  string      `json:"impression,omitempty"`
}

type OpinionDTO struct {
	DoctorId        string   `json:"doctor_id"`
	Hypotheses      []string `json:"hypotheses"`
	DiagnosticTests []string `json:"diagnostic_tests"`
	Reasoning       string   `json:"reasoning"`
	CritiqueOfPeers string   `json:"critique_of_peers,omitempty"`
}

type DecisionDTO struct {
	ConsensusHypotheses []string `json:"consensus_hypotheses"`
	PrioritizedTests    []string `json:"prioritized_tests"`
	Rationale           string   `json:"rationale"`
	TerminationReason   string   `json:"termination_reason,omitempty"`
}

type RoundDTO struct {
	Round    int          `json:"round"`
	Opinions []OpinionDTO `json:"opinions"`
	Decision DecisionDTO  `json:"decision"`
}

type SummaryDTO struct {
	SummaryText string   `json:"summary_text"`
	Disclaimers []string `json:"disclaimers"`
}

type GetConsultResponse struct {
	SessionId         uuid.UUID    `json:"session_id"`
	Status            string       `json:"status"`
	RoundsCompleted   int          `json:"rounds_completed"`
	TerminationReason string       `json:"termination_reason,omitempty"`
	Findings          FindingsDTO  `json:"findings"`
	Rounds            []RoundDTO   `json:"rounds"`
	Decision          *DecisionDTO `json:"decision,omitempty"`
	Summary           *SummaryDTO  `json:"summary,omitempty"`
}

type CancelConsultResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Status    string    `json:"status"`
}

type CapabilitiesResponse struct {
	LlmAvailable      bool   `json:"llm_available"`
	FindingsAvailable bool   `json:"findings_available"`
	Provider          string `json:"provider"`
	Model             string `json:"model,omitempty"`
	MaxRounds         int    `json:"max_rounds"`
}

// ProgressEventDTO is the payload pushed over the session websocket.
type ProgressEventDTO struct {
	SessionId uuid.UUID `json:"session_id"`
	Round     int       `json:"round"`
	Stage     string    `json:"stage"`
	Status    string    `json:"status"`
}
