// PCI DSS requirement catalog - groups individual check results into
// the twelve requirement areas for report cards and summaries.

package mappings

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed requirements.yaml
var requirementsYAML []byte

// Requirement describes one PCI DSS v4.0 requirement area
type Requirement struct {
	Number      int    `yaml:"number"`
	Title       string `yaml:"title"`
	Short       string `yaml:"short"`
	Description string `yaml:"description"`
}

// Catalog holds the ordered requirement list
type Catalog struct {
	Requirements []Requirement `yaml:"requirements"`

	byNumber map[int]Requirement
}

var (
	globalCatalog *Catalog
	catalogOnce   sync.Once
	catalogErr    error
)

// GetCatalog returns the embedded requirement catalog
func GetCatalog() (*Catalog, error) {
	catalogOnce.Do(func() {
		var c Catalog
		if err := yaml.Unmarshal(requirementsYAML, &c); err != nil {
			catalogErr = fmt.Errorf("failed to parse requirement catalog: %w", err)
			return
		}
		c.byNumber = make(map[int]Requirement, len(c.Requirements))
		for _, r := range c.Requirements {
			c.byNumber[r.Number] = r
		}
		globalCatalog = &c
	})
	return globalCatalog, catalogErr
}

// Get returns the requirement area for a number, false if unknown
func (c *Catalog) Get(number int) (Requirement, bool) {
	r, ok := c.byNumber[number]
	return r, ok
}

// RequirementOf derives the requirement area number for a control.
// It prefers the PCI-DSS entry of the frameworks map (values like
// "Req 1.2.1" or "3.4, 3.5.1"), falling back to control IDs of the
// form "PCI-8.3.1". Returns 0 when no PCI mapping exists.
func RequirementOf(controlID string, frameworks map[string]string) int {
	if frameworks != nil {
		if pci, ok := frameworks["PCI-DSS"]; ok {
			if n := leadingRequirement(pci); n > 0 {
				return n
			}
		}
	}
	if strings.HasPrefix(controlID, "PCI-") {
		return leadingRequirement(strings.TrimPrefix(controlID, "PCI-"))
	}
	return 0
}

// leadingRequirement parses the requirement number from strings like
// "Req 1.2.1", "10.5.3", or "3.4, 3.5.1"
func leadingRequirement(s string) int {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Req ")
	if i := strings.IndexAny(s, ","); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0
	}
	return n
}

// RequirementIDs splits a PCI mapping value like "8.2.3, 8.2.4" into
// individual requirement IDs with the "Req " prefix stripped
func RequirementIDs(pciValue string) []string {
	var ids []string
	for _, part := range strings.Split(pciValue, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "Req "))
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
