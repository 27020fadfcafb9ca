package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	awsScanner "github.com/stackaudit/pciscan/pkg/aws"
	"github.com/stackaudit/pciscan/pkg/core"
	gcpScanner "github.com/stackaudit/pciscan/pkg/gcp"
	"github.com/stackaudit/pciscan/pkg/mappings"
	"github.com/stackaudit/pciscan/pkg/preflight"
	"github.com/stackaudit/pciscan/pkg/progress"
	"github.com/stackaudit/pciscan/pkg/report"
	"github.com/stackaudit/pciscan/pkg/scope"
	"github.com/stackaudit/pciscan/pkg/updater"
)

func main() {
	var (
		provider    = flag.String("provider", "aws", "Cloud provider: aws, gcp")
		profile     = flag.String("profile", "default", "AWS profile (comma-separated for multiple accounts)")
		project     = flag.String("project", "", "GCP project ID (default: GOOGLE_CLOUD_PROJECT)")
		org         = flag.String("org", "", "Organization ID: assess every active project/account in the organization")
		requirement = flag.Int("requirement", 0, "Restrict to one PCI DSS requirement area (1-12, 0 = all)")
		format      = flag.String("format", "text", "Output format (text, json, html, pdf, csv)")
		output      = flag.String("output", "", "Output file (default: stdout or generated name)")
		results     = flag.String("results", "pciscan-results", "Directory for per-target JSON artifacts")
		verbose     = flag.Bool("verbose", false, "Verbose output")
		full        = flag.Bool("full", false, "Show all controls in text output (default: truncated for readability)")
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	flag.CommandLine.Parse(os.Args[2:])

	if *requirement < 0 || *requirement > 12 {
		fmt.Fprintf(os.Stderr, "Error: -requirement must be between 1 and 12\n")
		os.Exit(1)
	}

	switch command {
	case "scan":
		runScan(*provider, *profile, *project, *org, *requirement, *format, *output, *results, *verbose, *full)
	case "scope":
		runScope(*provider, *profile, *project, *org, *format)
	case "preflight":
		runPreflight(*provider, *profile, *project, *org)
	case "summary":
		runSummary(*results, *output, *verbose)
	case "progress":
		showProgress(*provider, *profile, *project)
	case "compare":
		compareScan(*provider, *profile, *project)
	case "update":
		updater.CheckForUpdates()
	case "version":
		fmt.Printf("pciscan %s - PCI DSS v4.0 assessment for AWS and GCP\n", updater.CurrentVersion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pciscan - PCI DSS v4.0 Assessment Toolkit

Usage:
  pciscan scan [options]       Assess infrastructure against PCI DSS v4.0
  pciscan scope [options]      List the projects/accounts in assessment scope
  pciscan preflight [options]  Verify the caller has the permissions the scan needs
  pciscan summary [options]    Aggregate saved scan results into a dashboard
  pciscan progress             Show score improvement over time
  pciscan compare              Compare last two scans
  pciscan update               Check for updates
  pciscan version              Show version

Options:
  -provider string     Cloud provider: aws, gcp (default "aws")
  -profile string      AWS profile; comma-separate to scan multiple accounts (default "default")
  -project string      GCP project ID (default: GOOGLE_CLOUD_PROJECT)
  -org string          Organization ID: assess every active member project/account
  -requirement int     Restrict to one PCI DSS requirement area (1-12)
  -format string       Output format (text, json, html, pdf, csv) (default "text")
  -output string       Output file (default: stdout or generated name)
  -results string      Directory for per-target JSON artifacts (default "pciscan-results")
  -verbose             Verbose output
  -full                Show all controls in text output

Examples:
  # Assess the default AWS account
  pciscan scan -provider aws

  # Assess one GCP project, Requirement 3 only
  pciscan scan -provider gcp -project my-project -requirement 3

  # Assess every active project in a GCP organization
  pciscan scan -provider gcp -org 123456789012

  # Check permissions before scanning
  pciscan preflight -provider gcp -project my-project

  # Generate the evidence pack
  pciscan scan -provider aws -format pdf -output evidence.pdf

  # Dashboard across all scanned targets
  pciscan summary -output summary.html

For more information: https://github.com/stackaudit/pciscan`)
}

// resolveScope turns the provider flags into the account/project list
// for the scope command.
func resolveScope(ctx context.Context, provider, profile, project, org string) (scope.Scope, error) {
	switch provider {
	case "gcp":
		resolver, err := scope.NewGCPResolver(ctx)
		if err != nil {
			return scope.Scope{}, err
		}
		return resolver.ResolveGCP(ctx, project, org)
	case "aws":
		resolver, err := scope.NewAWSResolver(ctx, firstProfile(profile))
		if err != nil {
			return scope.Scope{}, err
		}
		return resolver.ResolveAWS(ctx, org != "")
	default:
		return scope.Scope{}, fmt.Errorf("unknown provider: %s (supported: aws, gcp)", provider)
	}
}

// resolveScanTargets picks what scan and preflight iterate over. AWS
// credentials are profile-scoped, so AWS targets are the given
// profiles; GCP credentials span projects, so GCP targets come from
// scope resolution.
func resolveScanTargets(ctx context.Context, provider, profile, project, org string) (scope.Scope, error) {
	if provider == "aws" {
		return scope.NewScope("aws", "", strings.Split(profile, ","))
	}
	return resolveScope(ctx, provider, profile, project, org)
}

func firstProfile(profile string) string {
	if i := strings.Index(profile, ","); i >= 0 {
		return profile[:i]
	}
	return profile
}

func runScope(provider, profile, project, org, format string) {
	ctx := context.Background()

	s, err := resolveScope(ctx, provider, profile, project, org)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving scope: %v\n", err)
		os.Exit(1)
	}

	if format == "json" {
		data, _ := json.MarshalIndent(s, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("\nAssessment Scope (%s)\n", strings.ToUpper(s.Provider))
	fmt.Println("========================")
	if s.OrgID != "" {
		fmt.Printf("Organization: %s\n", s.OrgID)
	}
	fmt.Printf("Targets: %d\n\n", len(s.Targets))
	for _, target := range s.Targets {
		fmt.Printf("  - %s\n", target)
	}
	fmt.Println()
}

func runPreflight(provider, profile, project, org string) {
	ctx := context.Background()

	s, err := resolveScanTargets(ctx, provider, profile, project, org)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving scope: %v\n", err)
		os.Exit(1)
	}

	incomplete := 0
	for _, target := range s.Targets {
		rep, err := preflightTarget(ctx, provider, target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s] preflight failed: %v\n", target, err)
			incomplete++
			continue
		}
		printPreflightReport(rep)
		if !rep.Complete() {
			incomplete++
		}
	}

	if incomplete > 0 {
		os.Exit(1)
	}
}

func preflightTarget(ctx context.Context, provider, target string) (preflight.Report, error) {
	switch provider {
	case "gcp":
		checker, err := preflight.NewGCPChecker(ctx)
		if err != nil {
			return preflight.Report{}, err
		}
		return checker.Check(ctx, target)
	case "aws":
		scanner, err := awsScanner.NewScanner(target)
		if err != nil {
			return preflight.Report{}, err
		}
		checker := preflight.NewAWSChecker(scanner.STSClient(), scanner.IAMClient())
		return checker.Check(ctx)
	default:
		return preflight.Report{}, fmt.Errorf("unknown provider: %s", provider)
	}
}

func printPreflightReport(rep preflight.Report) {
	if rep.Complete() {
		fmt.Printf("\033[32m[OK]\033[0m %s - all %d required permissions granted\n",
			rep.Target, len(rep.Granted))
		return
	}

	fmt.Printf("\033[33m[WARN]\033[0m %s - %d of %d required permissions missing:\n",
		rep.Target, len(rep.Missing), len(rep.Granted)+len(rep.Missing))
	for _, p := range rep.Missing {
		fmt.Printf("    %s\n", p)
	}
}

func runScan(provider, profile, project, org string, requirement int, format, output, resultsDir string, verbose bool, full bool) {
	ctx := context.Background()

	s, err := resolveScanTargets(ctx, provider, profile, project, org)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving scope: %v\n", err)
		os.Exit(1)
	}

	if provider == "aws" && org != "" {
		fmt.Fprintf(os.Stderr, "Note: -org lists organization accounts (see 'pciscan scope').\n")
		fmt.Fprintf(os.Stderr, "To assess multiple accounts, pass -profile acct1,acct2 with profiles that assume a role in each.\n")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Starting PCI DSS v4.0 assessment for %d %s target(s)...\n",
			len(s.Targets), strings.ToUpper(provider))
	}

	// Preflight warns but never aborts: missing permissions surface
	// as ERROR results in the affected checks.
	for _, target := range s.Targets {
		if rep, err := preflightTarget(ctx, provider, target); err == nil && !rep.Complete() {
			fmt.Fprintf(os.Stderr, "Warning: %s is missing %d permissions; some checks will report errors\n",
				target, len(rep.Missing))
			if verbose {
				for _, p := range rep.Missing {
					fmt.Fprintf(os.Stderr, "    %s\n", p)
				}
			}
		}
	}

	var (
		mu      sync.Mutex
		results []core.AssessmentResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, target := range s.Targets {
		target := target
		g.Go(func() error {
			result, err := scanTarget(gctx, provider, target, requirement, verbose)
			if err != nil {
				return fmt.Errorf("scan of %s failed: %v", target, err)
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if len(results) == 0 {
			os.Exit(1)
		}
	}

	for _, result := range results {
		if err := progress.Save(result); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: could not save progress for %s: %v\n", result.Target, err)
		}
		if err := saveArtifact(result, resultsDir); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: could not save artifact for %s: %v\n", result.Target, err)
		}
	}

	if len(results) > 1 {
		outputMultiTarget(results, output, resultsDir, verbose)
		return
	}

	outputSingleTarget(results[0], format, output, verbose, full)
}

// scanTarget runs the full check suite against one scope target.
func scanTarget(ctx context.Context, provider, target string, requirement int, verbose bool) (core.AssessmentResult, error) {
	var p core.Provider
	var err error

	switch provider {
	case "aws":
		p, err = awsScanner.NewScanner(target)
	case "gcp":
		p, err = gcpScanner.NewScanner(ctx, target)
	default:
		err = fmt.Errorf("unknown provider: %s", provider)
	}
	if err != nil {
		return core.AssessmentResult{}, err
	}
	defer p.Close()

	accountID := p.GetAccountID(ctx)
	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning %s target: %s\n", strings.ToUpper(provider), accountID)
	}

	scanResults, err := p.Scan(ctx, requirement, verbose)
	if err != nil {
		return core.AssessmentResult{}, err
	}

	return buildAssessment(provider, accountID, scanResults), nil
}

// buildAssessment converts raw check results into the scored result
// for one target.
func buildAssessment(provider, target string, scanResults []core.ScanResult) core.AssessmentResult {
	controls := []core.ControlResult{}
	passed, failed, warnings := 0, 0, 0
	critical, high := 0, 0

	for _, r := range scanResults {
		control := core.ControlResult{
			ID:                r.Control,
			Name:              r.Name,
			Category:          r.Category,
			Requirement:       mappings.RequirementOf(r.Control, r.Frameworks),
			Severity:          r.Severity,
			Status:            r.Status,
			Evidence:          r.Evidence,
			Remediation:       r.Remediation,
			RemediationDetail: r.RemediationDetail,
			Priority:          r.Priority,
			Impact:            impactFor(r.Status, r.Severity),
			ScreenshotGuide:   r.ScreenshotGuide,
			ConsoleURL:        r.ConsoleURL,
			Frameworks:        r.Frameworks,
		}
		controls = append(controls, control)

		switch control.Status {
		case "PASS":
			passed++
		case "FAIL":
			failed++
			if control.Severity == "CRITICAL" {
				critical++
			} else if control.Severity == "HIGH" {
				high++
			}
		default:
			warnings++
		}
	}

	score := 0.0
	if automated := passed + failed; automated > 0 {
		score = float64(passed) / float64(automated) * 100
	}

	return core.AssessmentResult{
		Timestamp:       time.Now(),
		Provider:        provider,
		Target:          target,
		Score:           score,
		TotalControls:   len(controls),
		PassedControls:  passed,
		FailedControls:  failed,
		WarningControls: warnings,
		Controls:        controls,
		Recommendations: generateRecommendations(controls, critical),
	}
}

func impactFor(status, severity string) string {
	if status == "PASS" {
		return "Control is properly configured"
	}
	switch severity {
	case "CRITICAL":
		return "ASSESSMENT BLOCKER - Fix immediately or fail PCI DSS"
	case "HIGH":
		return "Major finding - QSA will flag this"
	case "MEDIUM":
		return "Should fix - Makes the assessment smoother"
	default:
		return "Nice to have - Strengthens posture"
	}
}

func generateRecommendations(controls []core.ControlResult, criticalCount int) []string {
	recs := []string{}

	if criticalCount > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: Fix %d CRITICAL issues - QSA will fail your assessment", criticalCount))
	}
	recs = append(recs, "Document cardholder data flow and network segmentation")

	hasPublicStorage := false
	hasNoMFA := false
	hasOpenPorts := false
	hasOldKeys := false
	hasNoLogging := false
	hasNoEncryption := false

	for _, control := range controls {
		if control.Status != "FAIL" {
			continue
		}
		switch control.Requirement {
		case 1:
			if strings.Contains(control.ID, "1.3") {
				hasPublicStorage = true
			} else {
				hasOpenPorts = true
			}
		case 3:
			hasNoEncryption = true
		case 8:
			if strings.Contains(control.ID, "8.3") {
				hasNoMFA = true
			} else if strings.Contains(control.ID, "8.2.4") {
				hasOldKeys = true
			}
		case 10:
			hasNoLogging = true
		}
	}

	if hasNoMFA {
		recs = append(recs, "PCI DSS 8.3.1: Enable MFA for all console access immediately")
	}
	if hasPublicStorage {
		recs = append(recs, "PCI DSS 1.3: No direct public access to the cardholder data environment")
	}
	if hasNoEncryption {
		recs = append(recs, "PCI DSS 3.4: Encrypt all stored cardholder data")
	}
	if hasOpenPorts {
		recs = append(recs, "PCI DSS 1.2.1: Restrict inbound traffic to only what the CDE requires")
	}
	if hasOldKeys {
		recs = append(recs, "PCI DSS 8.2.4: Rotate credentials older than 90 days")
	}
	if hasNoLogging {
		recs = append(recs, "PCI DSS 10.1: Implement audit trails linking access to individual users")
	}

	recs = append(recs, "Schedule quarterly vulnerability scans (PCI DSS 11.2)")
	recs = append(recs, "Schedule quarterly access reviews")

	return recs
}

func saveArtifact(result core.AssessmentResult, resultsDir string) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(resultsDir, fmt.Sprintf("%s-%s.json", result.Provider, result.Target))
	return os.WriteFile(path, data, 0644)
}

func outputMultiTarget(results []core.AssessmentResult, output, resultsDir string, verbose bool) {
	fmt.Printf("\nAssessment complete: %d targets\n", len(results))
	fmt.Println("==================================")
	for _, result := range results {
		scoreColor := "\033[32m"
		if result.Score < 90 {
			scoreColor = "\033[33m"
		}
		if result.Score < 70 {
			scoreColor = "\033[31m"
		}
		fmt.Printf("  %s: %s%.1f%%\033[0m (%d/%d passed)\n",
			result.Target, scoreColor, result.Score,
			result.PassedControls, result.PassedControls+result.FailedControls)
	}

	if output == "" {
		output = fmt.Sprintf("pciscan-summary-%s.html", time.Now().Format("2006-01-02-150405"))
	}
	if err := report.GenerateSummary(results, output, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSummary dashboard saved to %s\n", output)
	fmt.Printf("Per-target artifacts in %s/ - run 'pciscan summary' to rebuild the dashboard\n", resultsDir)
}

func outputSingleTarget(result core.AssessmentResult, format, output string, verbose bool, full bool) {
	switch format {
	case "text":
		if output == "" {
			printTextSummary(result, full)
		} else {
			outputTextToFile(result, output)
		}
	case "json":
		outputJSON(result, output)
	case "html":
		if output == "" {
			output = fmt.Sprintf("pciscan-%s-report-%s.html",
				result.Provider, time.Now().Format("2006-01-02-150405"))
		}
		if err := (report.HTMLReporter{}).Generate(result, output, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating HTML: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("HTML report saved to %s\n", output)
	case "pdf":
		if output == "" {
			output = fmt.Sprintf("pciscan-%s-report-%s.pdf",
				result.Provider, time.Now().Format("2006-01-02-150405"))
		}
		if err := (report.PDFReporter{}).Generate(result, output, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating PDF: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PDF evidence pack saved to %s\n", output)
		fmt.Printf("Review failed controls for screenshot requirements\n")
	case "csv":
		outputCSV(result, output)
	default:
		fmt.Fprintf(os.Stderr, "Unknown format: %s\n", format)
		os.Exit(1)
	}
}

func printTextSummary(result core.AssessmentResult, full bool) {
	fmt.Printf("\n")
	fmt.Printf("pciscan PCI DSS v4.0 Assessment Results\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("%s Target: %s\n", strings.ToUpper(result.Provider), result.Target)
	fmt.Printf("Scan Time: %s\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("\n")

	scoreColor := "\033[32m"
	if result.Score < 90 {
		scoreColor = "\033[33m"
	}
	if result.Score < 70 {
		scoreColor = "\033[31m"
	}
	fmt.Printf("Assessment Score: %s%.1f%%\033[0m\n", scoreColor, result.Score)
	fmt.Printf("Controls Passed: %d/%d\n", result.PassedControls, result.TotalControls)

	criticalCount := 0
	highCount := 0
	for _, control := range result.Controls {
		if control.Status == "FAIL" {
			if control.Severity == "CRITICAL" {
				criticalCount++
			} else if control.Severity == "HIGH" {
				highCount++
			}
		}
	}

	if criticalCount > 0 {
		fmt.Printf("\033[31mCritical Issues: %d (FIX IMMEDIATELY)\033[0m\n", criticalCount)
	}
	if highCount > 0 {
		fmt.Printf("\033[33mHigh Priority: %d\033[0m\n", highCount)
	}
	fmt.Printf("\n")

	if result.FailedControls > 0 {
		printFailedTier(result.Controls, "CRITICAL", criticalCount, full)
		printFailedTier(result.Controls, "HIGH", highCount, full)

		otherCount := 0
		for _, control := range result.Controls {
			if control.Status == "FAIL" && control.Severity != "CRITICAL" && control.Severity != "HIGH" {
				otherCount++
			}
		}
		if otherCount > 0 {
			fmt.Printf("Other Issues:\n")
			fmt.Printf("================\n")
			shown := 0
			for _, control := range result.Controls {
				if control.Status != "FAIL" || control.Severity == "CRITICAL" || control.Severity == "HIGH" {
					continue
				}
				if !full && shown >= 10 {
					fmt.Printf("  ... and %d more issues (use -full to see all)\n\n", otherCount-shown)
					break
				}
				fmt.Printf("[FAIL] %s - %s\n", control.ID, control.Name)
				fmt.Printf("  Issue: %s\n", control.Evidence)
				if control.Remediation != "" {
					fmt.Printf("  Fix: %s\n", control.Remediation)
				}
				fmt.Printf("\n")
				shown++
			}
		}
	}

	infoCount := 0
	for _, control := range result.Controls {
		if control.Status == "INFO" {
			infoCount++
		}
	}
	if infoCount > 0 {
		fmt.Printf("Manual Documentation Required:\n")
		fmt.Printf("=================================\n")
		shown := 0
		for _, control := range result.Controls {
			if control.Status != "INFO" {
				continue
			}
			if !full && shown >= 20 {
				fmt.Printf("  ... and %d more manual controls (use -full to see all)\n\n", infoCount-shown)
				break
			}
			fmt.Printf("[INFO] %s - %s\n", control.ID, control.Name)
			fmt.Printf("  Guidance: %s\n", control.Evidence)
			if control.ScreenshotGuide != "" {
				fmt.Printf("  Evidence: %s\n", control.ScreenshotGuide)
			}
			fmt.Printf("\n")
			shown++
		}
	}

	fmt.Printf("\033[32mPassed Controls:\033[0m\n")
	fmt.Printf("===================\n")
	passCount := 0
	for _, control := range result.Controls {
		if control.Status == "PASS" {
			fmt.Printf("  - %s - %s\n", control.ID, control.Name)
			passCount++
			if !full && passCount >= 15 {
				remaining := result.PassedControls - 15
				if remaining > 0 {
					fmt.Printf("  ... and %d more passing controls (use -full to see all)\n", remaining)
				}
				break
			}
		}
	}

	if len(result.Recommendations) > 0 {
		fmt.Printf("\nPriority Action Items:\n")
		fmt.Printf("=========================\n")
		for i, rec := range result.Recommendations {
			if i >= 5 {
				break
			}
			fmt.Printf("  %d. %s\n", i+1, rec)
		}
	}

	fmt.Printf("\nFor the QSA evidence pack:\n")
	fmt.Printf("   pciscan scan -provider %s -format pdf -output evidence.pdf\n", result.Provider)
	fmt.Printf("\n")
}

func printFailedTier(controls []core.ControlResult, severity string, total int, full bool) {
	if total == 0 {
		return
	}

	color := "\033[31m"
	heading := "CRITICAL - Fix These NOW:"
	if severity == "HIGH" {
		color = "\033[33m"
		heading = "HIGH Priority Issues:"
	}
	fmt.Printf("%s%s\033[0m\n", color, heading)
	fmt.Printf("================================\n")

	shown := 0
	for _, control := range controls {
		if control.Status != "FAIL" || control.Severity != severity {
			continue
		}
		if !full && shown >= 10 {
			remaining := total - shown
			if remaining > 0 {
				fmt.Printf("  ... and %d more %s issues (use -full to see all)\n\n", remaining, strings.ToLower(severity))
			}
			break
		}

		fmt.Printf("\n%s[FAIL]\033[0m %s - %s\n", color, control.ID, control.Name)
		fmt.Printf("  Issue: %s\n", control.Evidence)
		if control.Remediation != "" {
			fmt.Printf("  Fix: %s\n", control.Remediation)
		}
		if control.ScreenshotGuide != "" {
			fmt.Printf("  Evidence: %s\n", control.ScreenshotGuide)
		}
		if control.ConsoleURL != "" {
			fmt.Printf("  Console: %s\n", control.ConsoleURL)
		}
		fmt.Printf("\n")
		shown++
	}
}

func outputTextToFile(result core.AssessmentResult, output string) {
	var sb strings.Builder

	sb.WriteString("pciscan PCI DSS v4.0 Assessment Report\n")
	sb.WriteString("==========================\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", result.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Provider: %s\n", result.Provider))
	sb.WriteString(fmt.Sprintf("Target: %s\n\n", result.Target))
	sb.WriteString(fmt.Sprintf("ASSESSMENT SCORE: %.1f%%\n", result.Score))
	sb.WriteString(fmt.Sprintf("Controls Passed: %d/%d\n", result.PassedControls, result.TotalControls))
	sb.WriteString(fmt.Sprintf("Controls Failed: %d\n\n", result.FailedControls))

	sb.WriteString("FAILED CONTROLS:\n")
	sb.WriteString("----------------\n")
	for _, control := range result.Controls {
		if control.Status == "FAIL" {
			sb.WriteString(fmt.Sprintf("\n%s [%s] %s - %s\n", control.Priority, control.Severity, control.ID, control.Name))
			sb.WriteString(fmt.Sprintf("  Issue: %s\n", control.Evidence))
			sb.WriteString(fmt.Sprintf("  Impact: %s\n", control.Impact))
			if control.Remediation != "" {
				sb.WriteString(fmt.Sprintf("  Fix: %s\n", control.Remediation))
			}
		}
	}

	sb.WriteString("\n\nRECOMMENDATIONS:\n")
	sb.WriteString("----------------\n")
	for i, rec := range result.Recommendations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}

	if err := os.WriteFile(output, []byte(sb.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Report saved to %s\n", output)
}

func outputJSON(result core.AssessmentResult, output string) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
		os.Exit(1)
	}

	if output != "" {
		if err := os.WriteFile(output, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("JSON report saved to %s\n", output)
	} else {
		fmt.Print(string(data))
	}
}

func outputCSV(result core.AssessmentResult, output string) {
	var csvData strings.Builder

	csvData.WriteString("Control ID,Control Name,Category,Requirement,Status,Severity,Priority,Evidence,Remediation,Console URL\n")

	for _, control := range result.Controls {
		csvData.WriteString(fmt.Sprintf("%s,%s,%s,%d,%s,%s,%s,%s,%s,%s\n",
			escapeCSVField(control.ID),
			escapeCSVField(control.Name),
			escapeCSVField(control.Category),
			control.Requirement,
			escapeCSVField(control.Status),
			escapeCSVField(control.Severity),
			escapeCSVField(control.Priority),
			escapeCSVField(control.Evidence),
			escapeCSVField(control.Remediation),
			escapeCSVField(control.ConsoleURL)))
	}

	if output == "" {
		output = fmt.Sprintf("pciscan-%s-report-%s.csv",
			result.Provider, time.Now().Format("2006-01-02-150405"))
	}

	if err := os.WriteFile(output, []byte(csvData.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("CSV report saved to %s\n", output)
	fmt.Printf("Import into Excel, Google Sheets, or other spreadsheet tools\n")
}

// escapeCSVField escapes CSV fields containing commas, quotes, or newlines
func escapeCSVField(field string) string {
	field = strings.ReplaceAll(field, "\n", " ")
	field = strings.ReplaceAll(field, "\r", "")

	if strings.Contains(field, ",") || strings.Contains(field, "\"") {
		field = strings.ReplaceAll(field, "\"", "\"\"")
		field = fmt.Sprintf("\"%s\"", field)
	}

	return field
}

func runSummary(resultsDir, output string, verbose bool) {
	results, err := report.LoadResults(resultsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Run 'pciscan scan' first to produce artifacts in %s/\n", resultsDir)
		os.Exit(1)
	}

	if output == "" {
		output = fmt.Sprintf("pciscan-summary-%s.html", time.Now().Format("2006-01-02-150405"))
	}

	if err := report.GenerateSummary(results, output, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating summary: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Summary dashboard saved to %s (%d targets)\n", output, len(results))
}

// progressTarget resolves the identifier that progress history is
// keyed by, matching what scan stores.
func progressTarget(provider, profile, project string) (string, error) {
	ctx := context.Background()

	switch provider {
	case "aws":
		scanner, err := awsScanner.NewScanner(firstProfile(profile))
		if err != nil {
			return "", err
		}
		return scanner.GetAccountID(ctx), nil
	case "gcp":
		projectID := scope.DefaultGCPProject(project)
		if projectID == "" {
			return "", fmt.Errorf("no GCP project specified: use -project or set GOOGLE_CLOUD_PROJECT")
		}
		return projectID, nil
	default:
		return "", fmt.Errorf("unknown provider: %s", provider)
	}
}

func showProgress(provider, profile, project string) {
	target, err := progressTarget(provider, profile, project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := progress.Load(target)
	if err != nil {
		fmt.Println("No previous scans found. Run 'pciscan scan' first!")
		return
	}
	progress.Show(data)
}

func compareScan(provider, profile, project string) {
	target, err := progressTarget(provider, profile, project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	data, err := progress.Load(target)
	if err != nil {
		fmt.Println("Need at least 2 scans to compare. Run 'pciscan scan' first!")
		return
	}
	progress.Compare(data)
}
