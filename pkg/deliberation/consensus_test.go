package deliberation

import (
	"strings"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Pneumonia", "pneumonia"},
		{"parenthetical dropped", "Pneumonia (right lower lobe)", "pneumonia"},
		{"punctuation stripped", "community-acquired pneumonia!", "community acquired pneumonia"},
		{"whitespace collapsed", "  pleural   effusion ", "pleural effusion"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTerm(tt.in); got != tt.want {
				t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func panelOpinions(tops [3]string, tests [3][]string) []DoctorOpinion {
	ops := make([]DoctorOpinion, 0, PanelSize)
	for i, id := range DoctorIDs {
		ops = append(ops, DoctorOpinion{
			DoctorID:        id,
			Hypotheses:      []string{tops[i], "alternative consideration"},
			DiagnosticTests: tests[i],
			Reasoning:       "reasoning",
		})
	}
	return ops
}

func TestStructuralConsensus(t *testing.T) {
	chest := []string{"Chest CT", "Sputum culture"}
	labs := []string{"CBC panel", "Chest CT"}
	other := []string{"MRI brain"}

	tests := []struct {
		name string
		ops  []DoctorOpinion
		want bool
	}{
		{
			name: "two agree on hypothesis and test",
			ops:  panelOpinions([3]string{"Pneumonia", "pneumonia (RLL)", "Bronchitis"}, [3][]string{chest, labs, other}),
			want: true,
		},
		{
			name: "hypothesis agreement without shared test",
			ops:  panelOpinions([3]string{"Pneumonia", "Pneumonia", "Bronchitis"}, [3][]string{chest, other, {"Ultrasound"}}),
			want: false,
		},
		{
			name: "shared test without hypothesis agreement",
			ops:  panelOpinions([3]string{"Pneumonia", "Bronchitis", "Pleuritis"}, [3][]string{chest, labs, other}),
			want: false,
		},
		{
			name: "all three identical",
			ops:  panelOpinions([3]string{"Pneumonia", "Pneumonia", "Pneumonia"}, [3][]string{chest, chest, chest}),
			want: true,
		},
		{
			name: "wrong panel size",
			ops:  panelOpinions([3]string{"A", "A", "A"}, [3][]string{chest, chest, chest})[:2],
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StructuralConsensus(tt.ops); got != tt.want {
				t.Errorf("StructuralConsensus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeRanked(t *testing.T) {
	lists := [][]string{
		{"Pneumonia", "Bronchitis"},
		{"pneumonia (RLL)", "Pleural effusion"},
		{"Tuberculosis"},
	}

	got := MergeRanked(lists)
	want := []string{"Pneumonia", "Tuberculosis", "Bronchitis", "Pleural effusion"}

	if len(got) != len(want) {
		t.Fatalf("MergeRanked() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MergeRanked()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSynthesizeConsensus(t *testing.T) {
	shared := []string{"Chest CT"}
	ops := panelOpinions([3]string{"Pneumonia", "Pneumonia", "Bronchitis"}, [3][]string{shared, shared, shared})

	decision := Synthesize(3, ops)
	if decision.TerminationReason != TerminationConsensusReached {
		t.Fatalf("TerminationReason = %q, want %q", decision.TerminationReason, TerminationConsensusReached)
	}
	if len(decision.ConsensusHypotheses) == 0 || decision.ConsensusHypotheses[0] != "Pneumonia" {
		t.Errorf("ConsensusHypotheses = %v, want Pneumonia first", decision.ConsensusHypotheses)
	}
	if decision.Rationale == "" {
		t.Error("Rationale must not be empty")
	}
}

func TestSynthesizeDisagreement(t *testing.T) {
	ops := panelOpinions(
		[3]string{"Pneumonia", "Bronchitis", "Pleuritis"},
		[3][]string{{"Chest CT"}, {"MRI"}, {"Ultrasound"}},
	)

	decision := Synthesize(1, ops)
	if decision.TerminationReason != "" {
		t.Fatalf("TerminationReason = %q, want empty", decision.TerminationReason)
	}
	for _, id := range DoctorIDs {
		if !strings.Contains(decision.Rationale, id) {
			t.Errorf("Rationale should name %s, got %q", id, decision.Rationale)
		}
	}
}
