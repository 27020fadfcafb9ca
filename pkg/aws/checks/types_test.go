package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFrameworkMappings(t *testing.T) {
	t.Parallel()

	mappings := GetFrameworkMappings("S3_ENCRYPTION")
	assert.Equal(t, "Req 3.4, 3.4.1", mappings[FrameworkPCI])
	assert.Equal(t, "2.1.1", mappings[FrameworkCIS])

	unknown := GetFrameworkMappings("NOT_A_CONTROL")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestFrameworkMappingsCarryPCIRequirements(t *testing.T) {
	t.Parallel()

	// Every mapped control needs a PCI DSS reference in "Req n.m" form
	for controlType, mappings := range FrameworkMappings {
		pci, ok := mappings[FrameworkPCI]
		require.True(t, ok, "%s has no PCI DSS mapping", controlType)
		assert.True(t, strings.HasPrefix(pci, "Req "), "%s mapping %q missing Req prefix", controlType, pci)
	}
}

func TestFormatFrameworkRequirements(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatFrameworkRequirements(nil))
	assert.Equal(t, "", FormatFrameworkRequirements(map[string]string{}))

	formatted := FormatFrameworkRequirements(map[string]string{
		FrameworkPCI: "Req 8.3.1",
	})
	assert.Equal(t, " | Requirements: PCI-DSS Req 8.3.1", formatted)
}

func TestPriorityLevels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "CRITICAL", PriorityCritical.Level)
	assert.True(t, PriorityCritical.WillFail)

	for _, p := range []Priority{PriorityHigh, PriorityMedium, PriorityLow, PriorityInfo} {
		assert.False(t, p.WillFail, "%s should not fail the assessment on its own", p.Level)
	}
}
