package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stackaudit/pciscan/pkg/mappings"
)

// PDFReporter produces an evidence pack a QSA can work from: cover
// page, disclaimer, executive summary, critical findings and a
// per-control evidence collection guide.
type PDFReporter struct{}

func (PDFReporter) Format() string { return "pdf" }

func generateReportID(target string) string {
	data := time.Now().String() + target
	hash := sha256.Sum256([]byte(data))
	return strings.ToUpper(hex.EncodeToString(hash[:8]))
}

func (PDFReporter) Generate(result core.AssessmentResult, output string, verbose bool) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)

	reportID := generateReportID(result.Target)
	timestamp := time.Now().Format("2006-01-02 15:04:05")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(108, 117, 125)
		pdf.CellFormat(0, 4, fmt.Sprintf("pciscan | Report ID: %s | %s",
			reportID, timestamp), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 7)
		pdf.CellFormat(0, 4, "Automated assessment output - not a Report on Compliance", "", 0, "C", false, 0, "")
	})

	generateCoverPage(pdf, result)
	generateDisclaimer(pdf, result)
	generateExecutiveSummary(pdf, result)
	generateCriticalFindings(pdf, result)
	generateEvidenceGuide(pdf, result)
	generateEvidenceChecklist(pdf)

	if err := pdf.OutputFileAndClose(output); err != nil {
		return fmt.Errorf("failed to write PDF report: %v", err)
	}
	if verbose {
		fmt.Printf("PDF evidence pack written to %s\n", output)
	}
	return nil
}

func generateCoverPage(pdf *gofpdf.Fpdf, result core.AssessmentResult) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 32)
	pdf.SetTextColor(3, 102, 214)
	pdf.CellFormat(0, 20, "pciscan", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, "PCI DSS 4.0 Assessment Toolkit", "", 1, "C", false, 0, "")
	pdf.Ln(20)

	pdf.SetFont("Arial", "B", 28)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(0, 12, "PCI DSS 4.0 Assessment Report", "", "C", false)
	pdf.Ln(30)

	drawScoreCircle(pdf, result.Score)
	pdf.Ln(20)

	statsY := pdf.GetY()

	pdf.SetXY(30, statsY)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(50, 10, fmt.Sprintf("%d", result.TotalControls), "", 1, "C", false, 0, "")
	pdf.SetXY(30, pdf.GetY())
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(50, 6, "Total Controls", "", 0, "C", false, 0, "")

	pdf.SetXY(85, statsY)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(40, 167, 69)
	pdf.CellFormat(50, 10, fmt.Sprintf("%d", result.PassedControls), "", 1, "C", false, 0, "")
	pdf.SetXY(85, pdf.GetY())
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(50, 6, "Passed", "", 0, "C", false, 0, "")

	pdf.SetXY(140, statsY)
	pdf.SetFont("Arial", "B", 24)
	pdf.SetTextColor(220, 53, 69)
	pdf.CellFormat(50, 10, fmt.Sprintf("%d", result.FailedControls), "", 1, "C", false, 0, "")
	pdf.SetXY(140, pdf.GetY())
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(50, 6, "Failed", "", 0, "C", false, 0, "")

	pdf.SetY(250)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", result.Timestamp.Format("January 2, 2006 at 3:04 PM")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Provider: %s | Target: %s", strings.ToUpper(result.Provider), result.Target), "", 1, "C", false, 0, "")
}

func generateDisclaimer(pdf *gofpdf.Fpdf, result core.AssessmentResult) {
	pdf.AddPage()

	automated := 0
	manual := 0
	passed := 0

	for _, control := range result.Controls {
		if control.Status == "INFO" {
			manual++
		} else {
			automated++
			if control.Status == "PASS" {
				passed++
			}
		}
	}

	automatedScore := 0.0
	if automated > 0 {
		automatedScore = float64(passed) / float64(automated) * 100
	}

	pdf.SetFillColor(255, 243, 205)
	pdf.Rect(15, pdf.GetY(), 180, 50, "F")

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(133, 100, 4)
	pdf.SetY(pdf.GetY() + 8)
	pdf.CellFormat(0, 10, "IMPORTANT: ASSESSMENT DISCLAIMER", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)
	pdf.CellFormat(0, 6, "Automated Technical Checks Only", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.Ln(3)

	pdf.SetX(20)
	pdf.MultiCell(170, 5, fmt.Sprintf("This score of %.1f%% is based ONLY on %d automated technical checks (%.1f%% of automated checks passed).", result.Score, automated, automatedScore), "", "C", false)

	pdf.SetX(20)
	pdf.MultiCell(170, 5, fmt.Sprintf("The remaining %d controls require manual documentation and cannot be automated.", manual), "", "C", false)

	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "What This Report Covers", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	currentY := pdf.GetY()
	pdf.SetFillColor(212, 244, 221)
	pdf.Rect(15, currentY, 85, 60, "F")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(40, 167, 69)
	pdf.SetXY(20, currentY+3)
	pdf.CellFormat(75, 6, fmt.Sprintf("Automated: %d controls", automated), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(33, 37, 41)

	automatedItems := []string{
		"Network segmentation and firewall rules",
		"Access controls (IAM)",
		"Encryption of stored account data",
		"Encryption in transit",
		"Audit log configuration",
		"Key rotation settings",
	}

	pdf.SetXY(20, pdf.GetY()+2)
	for _, item := range automatedItems {
		pdf.SetX(20)
		pdf.MultiCell(75, 4, "  - "+item, "", "L", false)
	}

	pdf.SetFillColor(254, 242, 242)
	pdf.Rect(105, currentY, 90, 60, "F")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(220, 53, 69)
	pdf.SetXY(110, currentY+3)
	pdf.CellFormat(80, 6, fmt.Sprintf("Manual: %d controls", manual), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(33, 37, 41)

	manualItems := []string{
		"Security policies and procedures",
		"Security awareness training records",
		"Incident response plan",
		"Penetration test reports",
		"Physical security controls",
		"Service provider agreements",
	}

	pdf.SetXY(110, currentY+11)
	for _, item := range manualItems {
		pdf.SetX(110)
		pdf.MultiCell(80, 4, "  - "+item, "", "L", false)
	}

	pdf.SetY(currentY + 65)

	warningY := pdf.GetY()
	pdf.SetFillColor(220, 53, 69)
	pdf.Rect(15, warningY, 180, 20, "F")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetY(warningY + 5)
	pdf.CellFormat(0, 5, "THIS IS NOT A REPORT ON COMPLIANCE", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 4, "This tool assists with assessment preparation but does not replace a QSA engagement", "", 1, "C", false, 0, "")
}

func drawScoreCircle(pdf *gofpdf.Fpdf, score float64) {
	centerX := 105.0
	centerY := pdf.GetY() + 25
	radius := 25.0

	var r, g, b int
	if score < 70 {
		r, g, b = 220, 53, 69
	} else if score < 90 {
		r, g, b = 255, 193, 7
	} else {
		r, g, b = 40, 167, 69
	}

	pdf.SetFillColor(r, g, b)
	pdf.SetAlpha(0.1, "Normal")
	pdf.Circle(centerX, centerY, radius, "F")
	pdf.SetAlpha(1.0, "Normal")

	pdf.SetDrawColor(r, g, b)
	pdf.SetLineWidth(2)
	pdf.Circle(centerX, centerY, radius, "D")
	pdf.SetLineWidth(0.2)

	pdf.SetFont("Arial", "B", 36)
	pdf.SetTextColor(r, g, b)

	scoreText := fmt.Sprintf("%.0f%%", score)
	textWidth := pdf.GetStringWidth(scoreText)

	pdf.SetXY(centerX-textWidth/2, centerY-8)
	pdf.CellFormat(textWidth, 12, scoreText, "", 0, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(108, 117, 125)

	labelText := "Assessment Score"
	labelWidth := pdf.GetStringWidth(labelText)

	pdf.SetXY(centerX-labelWidth/2, centerY+6)
	pdf.CellFormat(labelWidth, 6, labelText, "", 0, "C", false, 0, "")
}

func generateExecutiveSummary(pdf *gofpdf.Fpdf, result core.AssessmentResult) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, "Executive Summary", "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(246, 248, 250)
	pdf.Rect(15, pdf.GetY(), 180, 40, "F")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(20, pdf.GetY()+8)

	statusText := "requires immediate attention"
	if result.Score >= 90 {
		statusText = "is in good standing"
	} else if result.Score >= 70 {
		statusText = "needs improvement"
	}

	summary := fmt.Sprintf("Your %s environment %s with an assessment score of %.1f%%. Out of %d controls evaluated, %d passed and %d failed. Immediate action is required on %d critical findings.",
		strings.ToUpper(result.Provider),
		statusText,
		result.Score,
		result.TotalControls,
		result.PassedControls,
		result.FailedControls,
		countCritical(result.Controls))

	pdf.MultiCell(170, 5, summary, "", "L", false)
	pdf.Ln(10)

	if len(result.Recommendations) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, "Top Priority Actions", "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(33, 37, 41)

		for i, rec := range result.Recommendations {
			if i >= 5 {
				break
			}
			pdf.CellFormat(10, 6, fmt.Sprintf("%d.", i+1), "", 0, "L", false, 0, "")
			pdf.MultiCell(170, 6, rec, "", "L", false)
			pdf.Ln(2)
		}
	}

	// Per-requirement breakdown
	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Requirement Breakdown", "", 1, "L", false, 0, "")

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

	pdf.SetFont("Arial", "", 10)
	for _, n := range reqNums {
		passed, failed := 0, 0
		for _, control := range byReq[n] {
			switch control.Status {
			case "PASS":
				passed++
			case "FAIL":
				failed++
			}
		}

		title := fmt.Sprintf("Requirement %d", n)
		if catalog != nil {
			if req, ok := catalog.Get(n); ok {
				title = fmt.Sprintf("Req %d: %s", n, req.Title)
			}
		}

		if failed > 0 {
			pdf.SetTextColor(220, 53, 69)
		} else {
			pdf.SetTextColor(40, 167, 69)
		}
		pdf.CellFormat(0, 6, fmt.Sprintf("%s - %d passed, %d failed", title, passed, failed), "", 1, "L", false, 0, "")
	}
}

func generateCriticalFindings(pdf *gofpdf.Fpdf, result core.AssessmentResult) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(220, 53, 69)
	pdf.CellFormat(0, 12, "Critical Findings", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.MultiCell(0, 5, "These findings must be resolved before your assessment. Each failure represents a significant compliance gap.", "", "L", false)
	pdf.Ln(8)

	criticalCount := 0
	for _, control := range result.Controls {
		if control.Status == "FAIL" && control.Severity == "CRITICAL" {
			criticalCount++
			generateControlCard(pdf, control, criticalCount)
		}
	}

	if criticalCount == 0 {
		pdf.SetFillColor(212, 244, 221)
		pdf.Rect(15, pdf.GetY(), 180, 15, "F")
		pdf.SetTextColor(40, 167, 69)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 15, "[PASS] No critical findings - excellent work!", "", 1, "C", false, 0, "")
	}
}

func generateControlCard(pdf *gofpdf.Fpdf, control core.ControlResult, number int) {
	startY := pdf.GetY()

	if startY > 240 {
		pdf.AddPage()
		startY = pdf.GetY()
	}

	pdf.SetFillColor(254, 242, 242)
	pdf.Rect(15, startY, 180, 0, "F")

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(220, 53, 69)

	pdf.SetXY(20, startY+3)
	pdf.MultiCell(170, 6, fmt.Sprintf("%d. [%s] %s", number, control.ID, control.Name), "", "L", false)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetX(20)
	pdf.MultiCell(170, 5, fmt.Sprintf("Issue: %s", control.Evidence), "", "L", false)
	pdf.Ln(2)

	if control.Remediation != "" {
		pdf.SetFont("Courier", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFillColor(248, 249, 250)

		remediationY := pdf.GetY()
		pdf.Rect(20, remediationY, 170, 0, "F")

		pdf.SetXY(23, remediationY+2)
		pdf.MultiCell(164, 4, fmt.Sprintf("$ %s", control.Remediation), "", "L", false)

		endY := pdf.GetY()
		pdf.SetDrawColor(222, 226, 230)
		pdf.Rect(20, remediationY, 170, endY-remediationY+2, "D")
	}

	endY := pdf.GetY() + 3
	pdf.SetDrawColor(220, 53, 69)
	pdf.SetLineWidth(0.5)
	pdf.Rect(15, startY, 180, endY-startY, "D")
	pdf.SetLineWidth(0.2)

	pdf.SetY(endY + 5)
}

func generateEvidenceGuide(pdf *gofpdf.Fpdf, result core.AssessmentResult) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, "Evidence Collection Guide", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.MultiCell(0, 5, "Your QSA requires evidence for ALL controls. Follow these steps:", "", "L", false)
	pdf.Ln(8)

	failedControls := []core.ControlResult{}
	passedControls := []core.ControlResult{}
	infoControls := []core.ControlResult{}

	for _, control := range result.Controls {
		switch control.Status {
		case "FAIL":
			failedControls = append(failedControls, control)
		case "PASS":
			passedControls = append(passedControls, control)
		case "INFO":
			infoControls = append(infoControls, control)
		}
	}

	if len(failedControls) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(220, 53, 69)
		pdf.CellFormat(0, 8, fmt.Sprintf("Failed Controls - Fix Then Screenshot (%d total)", len(failedControls)), "", 1, "L", false, 0, "")
		pdf.Ln(3)

		for i, control := range failedControls {
			generateEvidenceCard(pdf, control, i+1)
		}
	}

	if len(passedControls) > 0 {
		if len(failedControls) > 0 {
			pdf.AddPage()
		}

		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(40, 167, 69)
		pdf.CellFormat(0, 8, fmt.Sprintf("Passed Controls - Collect Evidence (%d total)", len(passedControls)), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(108, 117, 125)
		pdf.MultiCell(0, 5, "These controls passed automated checks. You still need screenshots as assessment evidence.", "", "L", false)
		pdf.Ln(5)

		for i, control := range passedControls {
			generateEvidenceCard(pdf, control, i+1)
		}
	}

	if len(infoControls) > 0 {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(3, 102, 214)
		pdf.CellFormat(0, 8, fmt.Sprintf("Manual Documentation Required (%d total)", len(infoControls)), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(108, 117, 125)
		pdf.MultiCell(0, 5, "These controls require manual documentation or policy evidence that cannot be automated.", "", "L", false)
		pdf.Ln(5)

		for i, control := range infoControls {
			generateInfoCard(pdf, control, i+1)
		}
	}
}

// gofpdf's core fonts are cp1252 only, so strip unicode arrows and
// bullets before rendering.
func cleanForPDF(s string) string {
	s = strings.ReplaceAll(s, "→", "->")
	s = strings.ReplaceAll(s, "•", "-")
	return s
}

func generateEvidenceCard(pdf *gofpdf.Fpdf, control core.ControlResult, number int) {
	startY := pdf.GetY()

	if startY > 240 {
		pdf.AddPage()
		startY = pdf.GetY()
	}

	pdf.SetFillColor(255, 255, 255)
	pdf.SetDrawColor(222, 226, 230)
	pdf.Rect(15, startY, 180, 0, "FD")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(20, startY+3)

	pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s - %s", number, cleanForPDF(control.ID), cleanForPDF(control.Name)), "", 1, "L", false, 0, "")

	if control.ConsoleURL != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(3, 102, 214)
		pdf.SetX(20)
		pdf.CellFormat(0, 5, fmt.Sprintf("Console: %s", control.ConsoleURL), "", 1, "L", false, 0, "")
	}

	if control.ScreenshotGuide != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(73, 80, 87)

		steps := strings.Split(cleanForPDF(control.ScreenshotGuide), "\n")
		for _, step := range steps {
			step = strings.TrimSpace(step)
			if len(step) > 0 {
				pdf.SetX(23)
				pdf.MultiCell(167, 4, fmt.Sprintf("- %s", step), "", "L", false)
			}
		}
	}

	endY := pdf.GetY() + 3
	pdf.SetDrawColor(222, 226, 230)
	pdf.Rect(15, startY, 180, endY-startY, "D")

	pdf.SetY(endY + 3)
}

func generateInfoCard(pdf *gofpdf.Fpdf, control core.ControlResult, number int) {
	startY := pdf.GetY()

	if startY > 240 {
		pdf.AddPage()
		startY = pdf.GetY()
	}

	pdf.SetDrawColor(3, 102, 214)
	pdf.SetLineWidth(0.3)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(3, 102, 214)
	pdf.SetXY(20, startY+3)

	pdf.MultiCell(170, 6, fmt.Sprintf("%d. [INFO] %s - %s", number, cleanForPDF(control.ID), cleanForPDF(control.Name)), "", "L", false)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(73, 80, 87)
	pdf.SetX(23)
	pdf.MultiCell(167, 5, fmt.Sprintf("Documentation Required: %s", cleanForPDF(control.Evidence)), "", "L", false)

	if control.ScreenshotGuide != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(108, 117, 125)

		steps := strings.Split(cleanForPDF(control.ScreenshotGuide), "\n")
		for _, step := range steps {
			step = strings.TrimSpace(step)
			if len(step) > 0 {
				pdf.SetX(26)
				pdf.MultiCell(164, 4, fmt.Sprintf("- %s", step), "", "L", false)
			}
		}
	}

	if control.ConsoleURL != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(3, 102, 214)
		pdf.SetX(23)
		pdf.CellFormat(0, 5, fmt.Sprintf("Console: %s", control.ConsoleURL), "", 1, "L", false, 0, "")
	}

	endY := pdf.GetY() + 3
	pdf.SetDrawColor(3, 102, 214)
	pdf.Rect(15, startY, 180, endY-startY, "D")
	pdf.SetLineWidth(0.2)

	pdf.SetY(endY + 3)
}

func generateEvidenceChecklist(pdf *gofpdf.Fpdf) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 12, "PCI DSS Evidence Checklist", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 5, "Check off each item as you collect evidence for your assessment", "", 1, "L", false, 0, "")
	pdf.Ln(8)

	checklistItems := []string{
		"[ ] Cardholder Data Environment (CDE) Network Diagram",
		"[ ] Firewall Configuration Screenshots (Requirement 1)",
		"[ ] User Access Control Matrix (Requirement 7)",
		"[ ] MFA Configuration for All Admin Access (Requirement 8.3)",
		"[ ] Password Policy Settings (Requirement 8.2)",
		"[ ] Access Key Rotation Report (< 90 days)",
		"[ ] Encryption Settings for Data at Rest (Requirement 3.4)",
		"[ ] Audit Log Configuration (Requirement 10)",
		"[ ] Log Retention Settings (90+ days minimum)",
		"[ ] Vulnerability Scan Results (Requirement 11)",
		"[ ] Security Patch Documentation (Requirement 6.2)",
		"[ ] Incident Response Plan (Requirement 12.10)",
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(33, 37, 41)

	for _, item := range checklistItems {
		pdf.SetX(20)
		pdf.MultiCell(170, 6, item, "", "L", false)
	}
}

func countCritical(controls []core.ControlResult) int {
	count := 0
	for _, control := range controls {
		if control.Status == "FAIL" && control.Severity == "CRITICAL" {
			count++
		}
	}
	return count
}
