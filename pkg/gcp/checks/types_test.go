package checks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFrameworkMappings(t *testing.T) {
	t.Parallel()

	mappings := GetFrameworkMappings("STORAGE_PUBLIC_ACCESS")
	assert.Equal(t, "Req 1.2.1, 1.3.4", mappings[FrameworkPCI])
	assert.Equal(t, "5.1", mappings[FrameworkCIS])

	unknown := GetFrameworkMappings("NOT_A_CONTROL")
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestFrameworkMappingsCarryPCIRequirements(t *testing.T) {
	t.Parallel()

	for controlType, mappings := range FrameworkMappings {
		pci, ok := mappings[FrameworkPCI]
		require.True(t, ok, "%s has no PCI DSS mapping", controlType)
		assert.True(t, strings.HasPrefix(pci, "Req "), "%s mapping %q missing Req prefix", controlType, pci)
	}
}
