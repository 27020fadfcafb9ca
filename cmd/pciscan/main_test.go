package main

import (
	"testing"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstProfile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", firstProfile("default"))
	assert.Equal(t, "prod", firstProfile("prod,staging,dev"))
	assert.Equal(t, "", firstProfile(""))
}

func TestEscapeCSVField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "PCI-3.4", "PCI-3.4"},
		{"comma", "Req 3.4, 3.4.1", "\"Req 3.4, 3.4.1\""},
		{"quotes", `bucket "logs"`, `"bucket ""logs"""`},
		{"newlines flattened", "line1\nline2", "line1 line2"},
		{"carriage returns dropped", "line1\r\nline2", "line1 line2"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, escapeCSVField(tt.input))
		})
	}
}

func TestBuildAssessment(t *testing.T) {
	t.Parallel()

	scanResults := []core.ScanResult{
		{Control: "PCI-3.4", Name: "Storage Encryption", Status: "PASS",
			Frameworks: map[string]string{"PCI-DSS": "Req 3.4, 3.4.1"}},
		{Control: "PCI-8.3.1", Name: "MFA Enforcement", Status: "FAIL", Severity: "CRITICAL",
			Frameworks: map[string]string{"PCI-DSS": "Req 8.3.1"}},
		{Control: "PCI-1.2.1", Name: "Open Ingress", Status: "FAIL", Severity: "HIGH",
			Frameworks: map[string]string{"PCI-DSS": "Req 1.2.1, 1.3"}},
		{Control: "PCI-12.1", Name: "Security Policy", Status: "INFO",
			Frameworks: map[string]string{"PCI-DSS": "Req 12.1"}},
	}

	result := buildAssessment("aws", "123456789012", scanResults)

	assert.Equal(t, "aws", result.Provider)
	assert.Equal(t, "123456789012", result.Target)
	assert.Equal(t, 4, result.TotalControls)
	assert.Equal(t, 1, result.PassedControls)
	assert.Equal(t, 2, result.FailedControls)
	assert.Equal(t, 1, result.WarningControls)

	// Score counts automated checks only: 1 pass / 3 automated
	assert.InDelta(t, 33.33, result.Score, 0.01)

	require.Len(t, result.Controls, 4)
	assert.Equal(t, 3, result.Controls[0].Requirement)
	assert.Equal(t, 8, result.Controls[1].Requirement)
	assert.Equal(t, 1, result.Controls[2].Requirement)
	assert.Equal(t, 12, result.Controls[3].Requirement)

	assert.Contains(t, result.Recommendations[0], "URGENT")
}

func TestBuildAssessmentNoAutomatedChecks(t *testing.T) {
	t.Parallel()

	result := buildAssessment("gcp", "prod-project", []core.ScanResult{
		{Control: "PCI-12.1", Name: "Security Policy", Status: "INFO"},
	})
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 1, result.WarningControls)
}

func TestImpactFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Control is properly configured", impactFor("PASS", "CRITICAL"))
	assert.Contains(t, impactFor("FAIL", "CRITICAL"), "ASSESSMENT BLOCKER")
	assert.Contains(t, impactFor("FAIL", "HIGH"), "QSA will flag")
	assert.Contains(t, impactFor("FAIL", "MEDIUM"), "Should fix")
	assert.Contains(t, impactFor("FAIL", "LOW"), "Nice to have")
}

func TestGenerateRecommendations(t *testing.T) {
	t.Parallel()

	controls := []core.ControlResult{
		{ID: "PCI-8.3.1", Status: "FAIL", Requirement: 8},
		{ID: "PCI-1.3.4", Status: "FAIL", Requirement: 1},
		{ID: "PCI-10.1", Status: "FAIL", Requirement: 10},
		{ID: "PCI-3.4", Status: "PASS", Requirement: 3},
	}

	recs := generateRecommendations(controls, 1)
	joined := ""
	for _, r := range recs {
		joined += r + "\n"
	}

	assert.Contains(t, joined, "URGENT")
	assert.Contains(t, joined, "8.3.1: Enable MFA")
	assert.Contains(t, joined, "1.3: No direct public access")
	assert.Contains(t, joined, "10.1: Implement audit trails")
	// Passing encryption control must not trigger the encryption rec
	assert.NotContains(t, joined, "3.4: Encrypt")
	// Standing items always present
	assert.Contains(t, joined, "quarterly vulnerability scans")
}

func TestGenerateRecommendationsClean(t *testing.T) {
	t.Parallel()

	recs := generateRecommendations(nil, 0)
	for _, r := range recs {
		assert.NotContains(t, r, "URGENT")
	}
	assert.NotEmpty(t, recs)
}
