package checks

import (
	"context"
	"time"
)

// ManualChecks covers the controls no API can verify: physical
// security, written policies, training, and incident response. They
// surface as INFO so the evidence pack lists what the assessor will
// ask for.
type ManualChecks struct{}

func NewManualChecks() *ManualChecks {
	return &ManualChecks{}
}

func (c *ManualChecks) Name() string {
	return "Manual Evidence Collection"
}

func (c *ManualChecks) Run(ctx context.Context) ([]CheckResult, error) {
	now := time.Now()

	return []CheckResult{
		{
			Control:           "PCI-9.1",
			Name:              "Physical Access Controls",
			Status:            "INFO",
			Evidence:          "MANUAL: Document physical security for any facility touching cardholder data; AWS data centers are covered by the AWS attestation of compliance",
			Remediation:       "Collect the AWS PCI attestation from AWS Artifact",
			RemediationDetail: "AWS Artifact → Reports → PCI DSS Attestation of Compliance",
			Priority:          PriorityLow,
			ConsoleURL:        "https://console.aws.amazon.com/artifact/",
			Timestamp:         now,
			Frameworks:        map[string]string{FrameworkPCI: "Req 9.1"},
		},
		{
			Control:           "PCI-12.1",
			Name:              "Security Policy Documentation",
			Status:            "INFO",
			Evidence:          "MANUAL: A written information security policy must exist, be reviewed annually, and be acknowledged by personnel",
			Remediation:       "Maintain and annually review the security policy",
			RemediationDetail: "Keep the policy, review dates, and acknowledgment records ready for the assessor",
			Priority:          PriorityMedium,
			Timestamp:         now,
			Frameworks:        map[string]string{FrameworkPCI: "Req 12.1"},
		},
		{
			Control:           "PCI-12.6",
			Name:              "Security Awareness Training",
			Status:            "INFO",
			Evidence:          "MANUAL: Personnel must complete security awareness training at hire and annually",
			Remediation:       "Track training completion records",
			RemediationDetail: "Export completion reports from your training platform for the assessment period",
			Priority:          PriorityMedium,
			Timestamp:         now,
			Frameworks:        map[string]string{FrameworkPCI: "Req 12.6"},
		},
		{
			Control:           "PCI-12.10",
			Name:              "Incident Response Plan",
			Status:            "INFO",
			Evidence:          "MANUAL: An incident response plan must exist and be tested at least annually",
			Remediation:       "Document and test the incident response plan",
			RemediationDetail: "Keep the plan, the last tabletop exercise date, and lessons learned on file",
			Priority:          PriorityMedium,
			Timestamp:         now,
			Frameworks:        map[string]string{FrameworkPCI: "Req 12.10"},
		},
		{
			Control:           "PCI-11.3",
			Name:              "Penetration Testing",
			Status:            "INFO",
			Evidence:          "MANUAL: External and internal penetration tests are required annually and after significant changes",
			Remediation:       "Schedule annual penetration testing",
			RemediationDetail: "Engage a qualified tester; keep the report and remediation evidence",
			Priority:          PriorityMedium,
			Timestamp:         now,
			Frameworks:        map[string]string{FrameworkPCI: "Req 11.3"},
		},
	}, nil
}
