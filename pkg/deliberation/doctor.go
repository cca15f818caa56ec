package deliberation

import (
	"context"
	"fmt"

	"radiology-consult-be/internal/pkg/logger"
	"radiology-consult-be/pkg/llm"
)

// Per-role completion settings, mirroring the roles' needs: doctors reason
// creatively, the supervisor judges consistently, the admin rewrites at
// length.
const (
	doctorTemperature     = 0.7
	doctorMaxTokens       = 700
	supervisorTemperature = 0.3
	supervisorMaxTokens   = 600
	rewriteTemperature    = 0.7
	rewriteMaxTokens      = 4096
)

// ModelDoctor is the completion-backed reasoning unit.
type ModelDoctor struct {
	id       string
	provider llm.LLMProvider
	log      logger.ILogger
}

var _ ReasoningUnit = &ModelDoctor{}

func NewModelDoctor(id string, provider llm.LLMProvider, log logger.ILogger) *ModelDoctor {
	return &ModelDoctor{id: id, provider: provider, log: log}
}

func (d *ModelDoctor) DoctorID() string { return d.id }

func (d *ModelDoctor) Propose(ctx context.Context, cc CaseContext, history []RoundRecord) (DoctorOpinion, error) {
	round := len(history) + 1
	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(doctorSystemPrompt, d.id)},
		{Role: "user", Content: buildDoctorPrompt(d.id, cc, history, round)},
	}

	raw, err := d.provider.Chat(ctx, messages,
		llm.WithTemperature(doctorTemperature),
		llm.WithMaxTokens(doctorMaxTokens),
	)
	if err != nil {
		return DoctorOpinion{}, fmt.Errorf("%s completion: %w", d.id, err)
	}

	op := parseDoctorResponse(raw, round)
	op.DoctorID = d.id
	if round > 1 && op.CritiqueOfPeers == "" {
		op.CritiqueOfPeers = defaultCritique(d.id, history)
	}

	op, violated := SanitizeOpinion(op)
	if violated {
		d.log.Warn("Deliberation", "Definitive phrasing sanitized from doctor opinion", map[string]interface{}{
			"doctor": d.id,
			"round":  round,
		})
	}
	return op, nil
}
