package deliberation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeClaim(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantViolated bool
		wantContains string
	}{
		{
			name:         "definitive diagnosis rewritten",
			in:           "You have pneumonia.",
			wantViolated: true,
			wantContains: "could be consistent with",
		},
		{
			name:         "treatment directive rewritten",
			in:           "Start taking amoxicillin today.",
			wantViolated: true,
			wantContains: "ask your doctor about",
		},
		{
			name:         "hedged text untouched",
			in:           "The findings may suggest an early inflammatory process.",
			wantViolated: false,
			wantContains: "may suggest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, violated := SanitizeClaim(tt.in)
			if violated != tt.wantViolated {
				t.Errorf("violated = %v, want %v", violated, tt.wantViolated)
			}
			if !strings.Contains(strings.ToLower(got), tt.wantContains) {
				t.Errorf("SanitizeClaim(%q) = %q, want containing %q", tt.in, got, tt.wantContains)
			}
		})
	}
}

func TestSanitizeClaimMultibyteText(t *testing.T) {
	// Runes whose case mapping changes their UTF-8 width must not break the
	// rewrite: Ⱥ lowercases 2 -> 3 bytes, İ lowercases 2 -> 1 byte.
	tests := []struct {
		name string
		in   string
	}{
		{"widening rune before phrase", strings.Repeat("Ⱥ", 12) + " You have pneumonia."},
		{"narrowing rune before phrase", "İİİİİİ you have pneumonia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, violated := SanitizeClaim(tt.in)
			if !violated {
				t.Fatal("violated = false, want true")
			}
			if !utf8.ValidString(got) {
				t.Errorf("SanitizeClaim(%q) = %q, invalid UTF-8", tt.in, got)
			}
			if strings.Contains(strings.ToLower(got), "you have") {
				t.Errorf("SanitizeClaim(%q) = %q, still definitive", tt.in, got)
			}
			if !strings.Contains(got, "could be consistent with") {
				t.Errorf("SanitizeClaim(%q) = %q, want hedged replacement", tt.in, got)
			}
		})
	}
}

func TestSanitizeOpinion(t *testing.T) {
	op := DoctorOpinion{
		DoctorID:        "doctor_1",
		Hypotheses:      []string{"Confirmed diagnosis of pneumonia"},
		DiagnosticTests: []string{"Chest X-ray"},
		Reasoning:       "You definitely have an infection.",
	}

	got, violated := SanitizeOpinion(op)
	if !violated {
		t.Fatal("violated = false, want true")
	}
	if strings.Contains(strings.ToLower(got.Hypotheses[0]), "confirmed diagnosis") {
		t.Errorf("Hypotheses[0] = %q, still definitive", got.Hypotheses[0])
	}
	if strings.Contains(strings.ToLower(got.Reasoning), "you definitely have") {
		t.Errorf("Reasoning = %q, still definitive", got.Reasoning)
	}
	if got.DiagnosticTests[0] != "Chest X-ray" {
		t.Errorf("DiagnosticTests mutated: %v", got.DiagnosticTests)
	}
}
