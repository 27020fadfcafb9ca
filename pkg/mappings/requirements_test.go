package mappings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCatalog(t *testing.T) {
	catalog, err := GetCatalog()
	require.NoError(t, err)
	require.NotNil(t, catalog)

	assert.Len(t, catalog.Requirements, 12)

	for n := 1; n <= 12; n++ {
		req, ok := catalog.Get(n)
		require.True(t, ok, "requirement %d missing from catalog", n)
		assert.Equal(t, n, req.Number)
		assert.NotEmpty(t, req.Title)
	}

	_, ok := catalog.Get(13)
	assert.False(t, ok)
}

func TestRequirementOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		controlID  string
		frameworks map[string]string
		want       int
	}{
		{
			name:       "frameworks map with Req prefix",
			controlID:  "PCI-3.4",
			frameworks: map[string]string{"PCI-DSS": "Req 3.4, 3.4.1"},
			want:       3,
		},
		{
			name:       "frameworks map without prefix",
			controlID:  "PCI-10.5.3",
			frameworks: map[string]string{"PCI-DSS": "10.5.3"},
			want:       10,
		},
		{
			name:      "control ID fallback",
			controlID: "PCI-8.3.1-users",
			want:      8,
		},
		{
			name:      "control ID with suffix",
			controlID: "PCI-1.3.4",
			want:      1,
		},
		{
			name:       "frameworks wins over control ID",
			controlID:  "PCI-2.1",
			frameworks: map[string]string{"PCI-DSS": "Req 12.10"},
			want:       12,
		},
		{
			name:      "non-PCI control",
			controlID: "CC6.2",
			want:      0,
		},
		{
			name:       "out of range requirement",
			controlID:  "PCI-13.1",
			frameworks: map[string]string{"PCI-DSS": "Req 13.1"},
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RequirementOf(tt.controlID, tt.frameworks))
		})
	}
}

func TestRequirementIDs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"8.2.3", "8.2.4", "8.2.5"}, RequirementIDs("Req 8.2.3, 8.2.4, 8.2.5"))
	assert.Equal(t, []string{"1.2.1"}, RequirementIDs("1.2.1"))
	assert.Nil(t, RequirementIDs(""))
}
