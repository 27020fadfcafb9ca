package checks

import (
	"context"
	"time"
)

// Framework constants
const (
	FrameworkPCI = "PCI-DSS"
	FrameworkCIS = "CIS-GCP"
)

type CheckResult struct {
	Control           string            `json:"control"`
	Name              string            `json:"name"`
	Status            string            `json:"status"` // PASS, FAIL, INFO, ERROR
	Evidence          string            `json:"evidence"`
	Remediation       string            `json:"remediation,omitempty"`
	RemediationDetail string            `json:"remediation_detail,omitempty"`
	Severity          string            `json:"severity,omitempty"`
	Priority          Priority          `json:"priority"`
	ScreenshotGuide   string            `json:"screenshot_guide,omitempty"`
	ConsoleURL        string            `json:"console_url,omitempty"`
	Timestamp         time.Time         `json:"timestamp"`
	Frameworks        map[string]string `json:"frameworks,omitempty"`
}

type Priority struct {
	Level     string `json:"level"`
	Impact    string `json:"impact"`
	TimeToFix string `json:"time_to_fix"`
	WillFail  bool   `json:"will_fail_assessment"`
}

type Check interface {
	Run(ctx context.Context) ([]CheckResult, error)
}

// Requirement mappings for GCP controls
var FrameworkMappings = map[string]map[string]string{
	"STORAGE_PUBLIC_ACCESS": {
		FrameworkPCI: "Req 1.2.1, 1.3.4",
		FrameworkCIS: "5.1",
	},
	"STORAGE_UNIFORM_ACCESS": {
		FrameworkPCI: "Req 7.1",
		FrameworkCIS: "5.2",
	},
	"STORAGE_CMEK": {
		FrameworkPCI: "Req 3.4, 3.5",
		FrameworkCIS: "5.1",
	},
	"STORAGE_VERSIONING": {
		FrameworkPCI: "Req 10.5.5",
		FrameworkCIS: "5.2",
	},
	"SA_KEY_ROTATION": {
		FrameworkPCI: "Req 8.2.4",
		FrameworkCIS: "1.7",
	},
	"SA_USER_MANAGED_KEYS": {
		FrameworkPCI: "Req 8.2.4",
		FrameworkCIS: "1.4",
	},
	"PRIMITIVE_ROLES": {
		FrameworkPCI: "Req 7.1, 7.1.2",
		FrameworkCIS: "1.5",
	},
	"MFA_ENFORCEMENT": {
		FrameworkPCI: "Req 8.3.1",
		FrameworkCIS: "1.2",
	},
	"KMS_ROTATION": {
		FrameworkPCI: "Req 3.5, 3.6.4",
		FrameworkCIS: "1.10",
	},
	"KMS_SEPARATION": {
		FrameworkPCI: "Req 7.1.2",
		FrameworkCIS: "1.9",
	},
	"FIREWALL_OPEN_INGRESS": {
		FrameworkPCI: "Req 1.2.1, 1.3",
		FrameworkCIS: "3.6, 3.7",
	},
	"FIREWALL_CLEARTEXT": {
		FrameworkPCI: "Req 4.1, 4.1.1",
		FrameworkCIS: "3.6",
	},
	"DEFAULT_NETWORK": {
		FrameworkPCI: "Req 2.1",
		FrameworkCIS: "3.1",
	},
	"SUBNET_FLOW_LOGS": {
		FrameworkPCI: "Req 10.2",
		FrameworkCIS: "3.8",
	},
	"SQL_PUBLIC_IP": {
		FrameworkPCI: "Req 1.3.1, 1.3.2",
		FrameworkCIS: "6.5",
	},
	"SQL_SSL_REQUIRED": {
		FrameworkPCI: "Req 4.1",
		FrameworkCIS: "6.4",
	},
	"SQL_AUTHORIZED_NETWORKS": {
		FrameworkPCI: "Req 1.3.1",
		FrameworkCIS: "6.5",
	},
	"SQL_BACKUPS": {
		FrameworkPCI: "Req 9.5.1",
		FrameworkCIS: "6.7",
	},
	"AUDIT_LOG_SINKS": {
		FrameworkPCI: "Req 10.1, 10.5.3",
		FrameworkCIS: "2.2",
	},
	"AUDIT_LOG_RETENTION": {
		FrameworkPCI: "Req 10.5.3",
		FrameworkCIS: "2.3",
	},
	"LOG_METRIC_ALERTS": {
		FrameworkPCI: "Req 10.6.1",
		FrameworkCIS: "2.4",
	},
}

// Helper function to get requirement mappings for a control
func GetFrameworkMappings(controlType string) map[string]string {
	if mappings, exists := FrameworkMappings[controlType]; exists {
		return mappings
	}
	return make(map[string]string)
}

// Priority definitions
var (
	PriorityCritical = Priority{
		Level:     "CRITICAL",
		Impact:    "ASSESSMENT BLOCKER - Fix immediately or fail the assessment",
		TimeToFix: "Fix RIGHT NOW",
		WillFail:  true,
	}

	PriorityHigh = Priority{
		Level:     "HIGH",
		Impact:    "Major finding - QSA will flag this",
		TimeToFix: "Fix this week",
		WillFail:  false,
	}

	PriorityMedium = Priority{
		Level:     "MEDIUM",
		Impact:    "Should fix - Makes the assessment smoother",
		TimeToFix: "Fix before assessment",
		WillFail:  false,
	}

	PriorityLow = Priority{
		Level:     "LOW",
		Impact:    "Nice to have - Strengthens posture",
		TimeToFix: "When convenient",
		WillFail:  false,
	}

	PriorityInfo = Priority{
		Level:     "INFO",
		Impact:    "Good job, this passes",
		TimeToFix: "Already done",
		WillFail:  false,
	}
)
