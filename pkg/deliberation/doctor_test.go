package deliberation

import (
	"context"
	"strings"
	"testing"

	"radiology-consult-be/pkg/llm"
)

// cannedProvider returns the same completion for every call.
type cannedProvider struct {
	response string
}

func (p cannedProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return p.response, nil
}

func (p cannedProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return p.response, nil
}

func TestModelDoctorProposeBackfillsCritique(t *testing.T) {
	// A completion with no critique section: the opinion must still review
	// the prior round's positions instead of a placeholder.
	d := NewModelDoctor("doctor_1", cannedProvider{
		response: "Hypotheses:\n- Pneumonia\n\nDiagnostic Tests:\n- Chest X-ray\n",
	}, nopLogger{})

	history := []RoundRecord{
		{
			Round: 1,
			Opinions: []DoctorOpinion{
				{DoctorID: "doctor_1", Hypotheses: []string{"Pneumonia"}},
				{DoctorID: "doctor_2", Hypotheses: []string{"Pulmonary embolism"}},
				{DoctorID: "doctor_3", Hypotheses: []string{"Heart failure"}},
			},
		},
	}

	op, err := d.Propose(context.Background(), testCaseContext(), history)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}

	if op.CritiqueOfPeers == "" {
		t.Fatal("CritiqueOfPeers empty, want a review of the prior round")
	}
	for _, want := range []string{"Round 1", "doctor_2", "Pulmonary embolism"} {
		if !strings.Contains(op.CritiqueOfPeers, want) {
			t.Errorf("CritiqueOfPeers = %q, want %q mentioned", op.CritiqueOfPeers, want)
		}
	}
	if err := ValidateOpinion(op, 2); err != nil {
		t.Errorf("ValidateOpinion: %v", err)
	}
}
