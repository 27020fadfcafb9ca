package report

import (
	"fmt"
	"html/template"
	"os"
	"sort"
	"time"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stackaudit/pciscan/pkg/mappings"
)

// HTMLReporter renders a card-based interactive report, one card per
// PCI DSS requirement area with expandable findings.
type HTMLReporter struct{}

func (HTMLReporter) Format() string { return "html" }

type htmlFinding struct {
	ID             string
	Title          string
	Details        string
	Recommendation string
	ConsoleURL     string
	Requirement    int
	Index          int
}

type htmlRequirementCard struct {
	Number        int
	Title         string
	TotalChecks   int
	Passed        int
	Failed        int
	Warnings      int
	CompliancePct float64
	Status        string
	StatusClass   string
	Findings      []htmlFinding
}

type htmlReportData struct {
	GeneratedAt        string
	Provider           string
	Target             string
	Score              float64
	OverallStatus      string
	OverallStatusClass string
	TotalChecks        int
	Passed             int
	Failed             int
	Warnings           int
	Cards              []htmlRequirementCard
	CriticalFindings   []htmlFinding
	Recommendations    []string
}

// statusLabel maps a compliance percentage to the report's three-tier
// status: >=90 compliant, >=70 partially compliant, otherwise
// non-compliant.
func statusLabel(pct float64) (string, string) {
	switch {
	case pct >= 90:
		return "Compliant", "compliant"
	case pct >= 70:
		return "Partially Compliant", "partial"
	default:
		return "Non-Compliant", "non-compliant"
	}
}

func (HTMLReporter) Generate(result core.AssessmentResult, output string, verbose bool) error {
	data := buildHTMLData(result)

	tmpl, err := template.New("report").Parse(htmlReportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse report template: %v", err)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create report file: %v", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render report: %v", err)
	}

	if verbose {
		fmt.Printf("HTML report written to %s\n", output)
	}
	return nil
}

func buildHTMLData(result core.AssessmentResult) htmlReportData {
	catalog, _ := mappings.GetCatalog()

	byReq := make(map[int][]core.ControlResult)
	for _, control := range result.Controls {
		byReq[control.Requirement] = append(byReq[control.Requirement], control)
	}

	var reqNums []int
	for n := range byReq {
		if n > 0 {
			reqNums = append(reqNums, n)
		}
	}
	sort.Ints(reqNums)

	var cards []htmlRequirementCard
	var criticalFindings []htmlFinding

	for _, n := range reqNums {
		controls := byReq[n]

		card := htmlRequirementCard{
			Number: n,
			Title:  fmt.Sprintf("Requirement %d", n),
		}
		if catalog != nil {
			if req, ok := catalog.Get(n); ok {
				card.Title = req.Title
			}
		}

		findingIdx := 0
		for _, control := range controls {
			switch control.Status {
			case "PASS":
				card.Passed++
			case "FAIL":
				card.Failed++
				finding := htmlFinding{
					ID:             control.ID,
					Title:          fmt.Sprintf("[%s] %s", control.ID, control.Name),
					Details:        control.Evidence,
					Recommendation: control.RemediationDetail,
					ConsoleURL:     control.ConsoleURL,
					Requirement:    n,
					Index:          findingIdx,
				}
				if finding.Recommendation == "" {
					finding.Recommendation = control.Remediation
				}
				card.Findings = append(card.Findings, finding)
				findingIdx++

				// Top 3 failures per requirement feed the executive summary
				if control.Severity == "CRITICAL" && len(card.Findings) <= 3 {
					criticalFindings = append(criticalFindings, finding)
				}
			default:
				card.Warnings++
			}
		}

		card.TotalChecks = card.Passed + card.Failed + card.Warnings
		// INFO-only requirements count as fully compliant on the
		// automated side; they still need manual documentation.
		if automated := card.Passed + card.Failed; automated > 0 {
			card.CompliancePct = float64(card.Passed) / float64(automated) * 100
		} else {
			card.CompliancePct = 100
		}
		card.Status, card.StatusClass = statusLabel(card.CompliancePct)
		cards = append(cards, card)
	}

	data := htmlReportData{
		GeneratedAt:      time.Now().Format("January 2, 2006"),
		Provider:         result.Provider,
		Target:           result.Target,
		Score:            result.Score,
		TotalChecks:      result.TotalControls,
		Passed:           result.PassedControls,
		Failed:           result.FailedControls,
		Warnings:         result.WarningControls,
		Cards:            cards,
		CriticalFindings: criticalFindings,
		Recommendations:  result.Recommendations,
	}
	data.OverallStatus, data.OverallStatusClass = statusLabel(result.Score)
	return data
}
