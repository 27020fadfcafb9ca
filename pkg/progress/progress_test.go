package progress

import (
	"testing"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	result := core.AssessmentResult{
		Provider: "aws",
		Target:   "123456789012",
		Score:    72.5,
		Controls: []core.ControlResult{
			{ID: "PCI-3.4", Status: "PASS"},
			{ID: "PCI-8.3.1", Status: "FAIL"},
		},
	}
	require.NoError(t, Save(result))

	progress, err := Load("123456789012")
	require.NoError(t, err)

	assert.Equal(t, "123456789012", progress.Target)
	assert.Equal(t, "aws", progress.Provider)
	assert.Equal(t, 1, progress.ScanCount)
	require.Len(t, progress.ScoreHistory, 1)
	assert.Equal(t, 72.5, progress.ScoreHistory[0].Score)

	// Passing controls are recorded as fixed, failing ones are not
	assert.True(t, progress.FixedIssues["PCI-3.4"])
	assert.False(t, progress.FixedIssues["PCI-8.3.1"])
}

func TestSaveAccumulatesHistory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	first := core.AssessmentResult{
		Provider: "gcp",
		Target:   "prod-project",
		Score:    60,
		Controls: []core.ControlResult{{ID: "PCI-1.3", Status: "FAIL"}},
	}
	require.NoError(t, Save(first))

	second := first
	second.Score = 80
	second.Controls = []core.ControlResult{{ID: "PCI-1.3", Status: "PASS"}}
	require.NoError(t, Save(second))

	progress, err := Load("prod-project")
	require.NoError(t, err)

	assert.Equal(t, 2, progress.ScanCount)
	require.Len(t, progress.ScoreHistory, 2)
	assert.Equal(t, 60.0, progress.ScoreHistory[0].Score)
	assert.Equal(t, 80.0, progress.ScoreHistory[1].Score)
	assert.True(t, progress.FixedIssues["PCI-1.3"])
	assert.False(t, progress.FirstScan.IsZero())
	assert.False(t, progress.LastScan.Before(progress.FirstScan))
}

func TestLoadUnknownTarget(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("never-scanned")
	assert.Error(t, err)
}
