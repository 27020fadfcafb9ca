package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct    float64
		status string
		class  string
	}{
		{100, "Compliant", "compliant"},
		{90, "Compliant", "compliant"},
		{89.9, "Partially Compliant", "partial"},
		{70, "Partially Compliant", "partial"},
		{69.9, "Non-Compliant", "non-compliant"},
		{0, "Non-Compliant", "non-compliant"},
	}
	for _, tt := range tests {
		status, class := statusLabel(tt.pct)
		assert.Equal(t, tt.status, status, "pct %.1f", tt.pct)
		assert.Equal(t, tt.class, class, "pct %.1f", tt.pct)
	}
}

func sampleResult() core.AssessmentResult {
	return core.AssessmentResult{
		Provider:        "aws",
		Target:          "123456789012",
		Timestamp:       time.Now(),
		Score:           66.7,
		TotalControls:   4,
		PassedControls:  2,
		FailedControls:  1,
		WarningControls: 1,
		Controls: []core.ControlResult{
			{ID: "PCI-3.4", Name: "Storage Encryption", Status: "PASS", Requirement: 3},
			{ID: "PCI-3.4-kms", Name: "Key Rotation", Status: "FAIL", Severity: "CRITICAL",
				Evidence: "2 keys without rotation", Remediation: "Enable key rotation", Requirement: 3},
			{ID: "PCI-8.3.1", Name: "MFA Enforcement", Status: "PASS", Requirement: 8},
			{ID: "PCI-12.1", Name: "Security Policy", Status: "INFO", Requirement: 12},
		},
		Recommendations: []string{"URGENT: Fix 1 critical finding"},
	}
}

func TestBuildHTMLData(t *testing.T) {
	t.Parallel()

	data := buildHTMLData(sampleResult())

	require.Len(t, data.Cards, 3)
	assert.Equal(t, 3, data.Cards[0].Number)
	assert.Equal(t, 8, data.Cards[1].Number)
	assert.Equal(t, 12, data.Cards[2].Number)

	req3 := data.Cards[0]
	assert.Equal(t, 1, req3.Passed)
	assert.Equal(t, 1, req3.Failed)
	assert.InDelta(t, 50.0, req3.CompliancePct, 0.01)
	assert.Equal(t, "non-compliant", req3.StatusClass)
	require.Len(t, req3.Findings, 1)
	assert.Equal(t, "PCI-3.4-kms", req3.Findings[0].ID)
	assert.Equal(t, "Enable key rotation", req3.Findings[0].Recommendation)

	// INFO-only requirement counts as fully compliant on the automated side
	req12 := data.Cards[2]
	assert.Equal(t, 1, req12.Warnings)
	assert.InDelta(t, 100.0, req12.CompliancePct, 0.01)
	assert.Equal(t, "compliant", req12.StatusClass)

	require.Len(t, data.CriticalFindings, 1)
	assert.Equal(t, "PCI-3.4-kms", data.CriticalFindings[0].ID)
}

func TestHTMLReporterGenerate(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, HTMLReporter{}.Generate(sampleResult(), output, false))

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "PCI DSS 4.0")
	assert.Contains(t, html, "123456789012")
	assert.Contains(t, html, "Key Rotation")
	assert.Contains(t, html, "toggleElement")
}

func TestLoadResults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeArtifact := func(name string, result core.AssessmentResult) {
		data, err := json.MarshalIndent(result, "", "  ")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
	}

	first := sampleResult()
	writeArtifact("aws-123456789012.json", first)

	second := sampleResult()
	second.Provider = "gcp"
	second.Target = "prod-project"
	writeArtifact("gcp-prod-project.json", second)

	// Garbage and empty artifacts are skipped, not fatal
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
	writeArtifact("empty.json", core.AssessmentResult{})

	results, err := LoadResults(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Sorted by target
	assert.Equal(t, "123456789012", results[0].Target)
	assert.Equal(t, "prod-project", results[1].Target)
}

func TestLoadResultsEmptyDir(t *testing.T) {
	t.Parallel()

	_, err := LoadResults(t.TempDir())
	assert.Error(t, err)
}

func TestGenerateSummary(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "summary.html")
	results := []core.AssessmentResult{sampleResult()}
	require.NoError(t, GenerateSummary(results, output, false))

	content, err := os.ReadFile(output)
	require.NoError(t, err)

	html := string(content)
	assert.Contains(t, html, "Scope Summary")
	assert.Contains(t, html, "123456789012")
	assert.Contains(t, html, "aws")
}
