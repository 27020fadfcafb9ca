package checks

import (
	"context"
	"fmt"
	"time"
)

// Framework constants
const (
	FrameworkPCI = "PCI-DSS"
	FrameworkCIS = "CIS-AWS"
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
	Name() string
}

// Requirement mappings for all controls
var FrameworkMappings = map[string]map[string]string{
	"S3_PUBLIC_ACCESS": {
		FrameworkPCI: "Req 1.2.1, 1.3.4",
		FrameworkCIS: "2.1.5",
	},
	"S3_ENCRYPTION": {
		FrameworkPCI: "Req 3.4, 3.4.1",
		FrameworkCIS: "2.1.1",
	},
	"S3_VERSIONING": {
		FrameworkPCI: "Req 10.5.5",
		FrameworkCIS: "2.1.3",
	},
	"S3_SECURE_TRANSPORT": {
		FrameworkPCI: "Req 4.1",
		FrameworkCIS: "2.1.2",
	},
	"ROOT_MFA": {
		FrameworkPCI: "Req 8.3.1",
		FrameworkCIS: "1.5, 1.6",
	},
	"ROOT_ACCESS_KEYS": {
		FrameworkPCI: "Req 8.3.1",
		FrameworkCIS: "1.4",
	},
	"PASSWORD_POLICY": {
		FrameworkPCI: "Req 8.2.3, 8.2.4, 8.2.5",
		FrameworkCIS: "1.8, 1.9, 1.10, 1.11",
	},
	"ACCESS_KEY_ROTATION": {
		FrameworkPCI: "Req 8.2.4",
		FrameworkCIS: "1.14",
	},
	"UNUSED_CREDENTIALS": {
		FrameworkPCI: "Req 8.1.4",
		FrameworkCIS: "1.12",
	},
	"IAM_USER_MFA": {
		FrameworkPCI: "Req 8.3.1",
		FrameworkCIS: "1.10",
	},
	"IAM_LEAST_PRIVILEGE": {
		FrameworkPCI: "Req 7.1, 7.1.2",
		FrameworkCIS: "1.16",
	},
	"RDS_PUBLIC_ACCESS": {
		FrameworkPCI: "Req 1.3.1, 1.3.2",
		FrameworkCIS: "2.3.1",
	},
	"RDS_ENCRYPTION": {
		FrameworkPCI: "Req 3.4",
		FrameworkCIS: "2.3.1",
	},
	"RDS_BACKUP": {
		FrameworkPCI: "Req 9.5.1",
		FrameworkCIS: "2.3.3",
	},
	"RDS_MINOR_UPGRADE": {
		FrameworkPCI: "Req 6.2",
		FrameworkCIS: "2.3.2",
	},
	"CLOUDTRAIL_ENABLED": {
		FrameworkPCI: "Req 10.1, 10.2.1",
		FrameworkCIS: "3.1",
	},
	"CLOUDTRAIL_MULTIREGION": {
		FrameworkPCI: "Req 10.2.1",
		FrameworkCIS: "3.1",
	},
	"CLOUDTRAIL_ENCRYPTION": {
		FrameworkPCI: "Req 3.4",
		FrameworkCIS: "3.7",
	},
	"CLOUDTRAIL_VALIDATION": {
		FrameworkPCI: "Req 10.5.2",
		FrameworkCIS: "3.2",
	},
	"CONFIG_ENABLED": {
		FrameworkPCI: "Req 10.1, 11.5",
		FrameworkCIS: "3.5",
	},
	"VPC_FLOW_LOGS": {
		FrameworkPCI: "Req 10.2",
		FrameworkCIS: "3.9",
	},
	"KMS_KEY_ROTATION": {
		FrameworkPCI: "Req 3.5, 3.6.4",
		FrameworkCIS: "3.8",
	},
	"OPEN_SECURITY_GROUPS": {
		FrameworkPCI: "Req 1.2.1, 1.3",
		FrameworkCIS: "5.2, 5.3",
	},
	"DEFAULT_SECURITY_GROUP": {
		FrameworkPCI: "Req 2.1",
		FrameworkCIS: "5.1",
	},
	"PUBLIC_INSTANCES": {
		FrameworkPCI: "Req 1.3.1, 1.3.2",
		FrameworkCIS: "5.4",
	},
	"IMDS_V2": {
		FrameworkPCI: "Req 2.2.2",
		FrameworkCIS: "5.6",
	},
	"UNENCRYPTED_PROTOCOLS": {
		FrameworkPCI: "Req 4.1, 4.1.1",
		FrameworkCIS: "5.2",
	},
	"GUARDDUTY_ENABLED": {
		FrameworkPCI: "Req 5.1, 11.4",
		FrameworkCIS: "4.16",
	},
	"SECURITY_HUB": {
		FrameworkPCI: "Req 10.6, 11.4",
		FrameworkCIS: "4.16",
	},
	"METRIC_ALARMS": {
		FrameworkPCI: "Req 10.6.1",
		FrameworkCIS: "4.1",
	},
	"BACKUP_PLAN_EXISTS": {
		FrameworkPCI: "Req 9.5.1",
		FrameworkCIS: "10.11",
	},
	"BACKUP_VAULT_ENCRYPTION": {
		FrameworkPCI: "Req 3.4",
		FrameworkCIS: "10.10",
	},
	"SECRETS_ROTATION": {
		FrameworkPCI: "Req 8.2.4, 12.3.1",
		FrameworkCIS: "12.1",
	},
	"SECRETS_ENCRYPTION": {
		FrameworkPCI: "Req 3.4",
		FrameworkCIS: "12.2",
	},
}

// Helper function to get requirement mappings for a control
func GetFrameworkMappings(controlType string) map[string]string {
	if mappings, exists := FrameworkMappings[controlType]; exists {
		return mappings
	}
	return make(map[string]string)
}

// Helper to format requirement references in evidence
func FormatFrameworkRequirements(frameworks map[string]string) string {
	if len(frameworks) == 0 {
		return ""
	}

	result := " | Requirements: "
	for fw, requirement := range frameworks {
		result += fmt.Sprintf("%s %s, ", fw, requirement)
	}
	// Remove trailing comma and space
	return result[:len(result)-2]
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
