package deliberation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaseContextDefaults(t *testing.T) {
	cc := NewCaseContext(IntakeBundle{
		Demographics: "44-year-old female",
		Symptoms:     "shortness of breath",
		Medications:  "none",
	}, Findings{})

	assert.Equal(t, defaultFindingsDescription, cc.Findings.Description)
	assert.NotNil(t, cc.Findings.Entities)
	assert.True(t, cc.Symptoms.Present)
	assert.False(t, cc.Medications.Present, "negation marker means nothing to report")
	assert.False(t, cc.History.Present)
	assert.Contains(t, cc.FreeText, "shortness of breath")
	require.NoError(t, cc.Validate())
}

func TestNewCaseContextEmptyIntake(t *testing.T) {
	cc := NewCaseContext(IntakeBundle{}, Findings{})
	assert.Equal(t, "No additional information provided.", cc.FreeText)
	require.NoError(t, cc.Validate())
}

func TestNewCaseContextKeepsFindings(t *testing.T) {
	f := Findings{
		Description: "Cardiomegaly without acute infiltrate.",
		Entities:    []FindingEntity{{Label: "cardiomegaly", CUI: "C0018800", Confidence: 0.8}},
		Impression:  "Stable chronic changes.",
	}
	cc := NewCaseContext(IntakeBundle{FreeText: "routine follow-up"}, f)

	assert.Equal(t, f.Description, cc.Findings.Description)
	assert.Len(t, cc.Findings.Entities, 1)
	assert.Equal(t, "routine follow-up", cc.FreeText)
}

func TestCaseContextValidate(t *testing.T) {
	cc := CaseContext{FreeText: "something"}
	err := cc.Validate()
	require.Error(t, err)

	var vf *ValidationFailure
	require.ErrorAs(t, err, &vf)
	assert.Equal(t, "medblip_findings.description", vf.Field)
}
