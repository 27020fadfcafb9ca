package core

import (
	"context"
	"time"
)

// Provider defines the interface that both cloud providers implement
type Provider interface {
	// Name returns the provider name (aws, gcp)
	Name() string

	// GetAccountID returns the account/project identifier
	GetAccountID(ctx context.Context) string

	// Scan executes the PCI DSS checks, optionally restricted to a
	// single requirement area (0 means all requirements)
	Scan(ctx context.Context, requirement int, verbose bool) ([]ScanResult, error)

	// Close cleans up any resources
	Close() error
}

// ScanResult represents a single compliance check result
type ScanResult struct {
	Control           string            `json:"control"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Status            string            `json:"status"`
	Severity          string            `json:"severity"`
	Evidence          string            `json:"evidence"`
	Remediation       string            `json:"remediation"`
	RemediationDetail string            `json:"remediation_detail"`
	ScreenshotGuide   string            `json:"screenshot_guide"`
	ConsoleURL        string            `json:"console_url"`
	Priority          string            `json:"priority"`
	Frameworks        map[string]string `json:"frameworks"`
}

// AssessmentResult represents the full results for one scope target
type AssessmentResult struct {
	Timestamp       time.Time       `json:"timestamp"`
	Provider        string          `json:"provider"`
	Target          string          `json:"target"`
	Score           float64         `json:"score"`
	TotalControls   int             `json:"total_controls"`
	PassedControls  int             `json:"passed_controls"`
	FailedControls  int             `json:"failed_controls"`
	WarningControls int             `json:"warning_controls"`
	Controls        []ControlResult `json:"controls"`
	Recommendations []string        `json:"recommendations"`
}

// ControlResult represents a control in the final report
type ControlResult struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Requirement       int               `json:"requirement"`
	Severity          string            `json:"severity"`
	Status            string            `json:"status"`
	Evidence          string            `json:"evidence"`
	Remediation       string            `json:"remediation"`
	RemediationDetail string            `json:"remediation_detail"`
	Priority          string            `json:"priority"`
	Impact            string            `json:"impact"`
	ScreenshotGuide   string            `json:"screenshot_guide"`
	ConsoleURL        string            `json:"console_url"`
	Frameworks        map[string]string `json:"frameworks"`
}

// Reporter formats and outputs assessment results
type Reporter interface {
	// Format returns the format name (text, json, html, pdf, csv)
	Format() string

	// Generate creates the report output
	Generate(result AssessmentResult, output string, verbose bool) error
}
