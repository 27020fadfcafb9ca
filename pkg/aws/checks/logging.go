package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// LoggingChecks covers the audit trail controls: CloudTrail coverage
// and integrity, AWS Config recording, VPC flow logs, and alerting.
type LoggingChecks struct {
	cloudtrailClient *cloudtrail.Client
	configClient     *configservice.Client
	cloudwatchClient *cloudwatch.Client
	ec2Client        *ec2.Client
}

func NewLoggingChecks(ct *cloudtrail.Client, cfg *configservice.Client, cw *cloudwatch.Client, e *ec2.Client) *LoggingChecks {
	return &LoggingChecks{
		cloudtrailClient: ct,
		configClient:     cfg,
		cloudwatchClient: cw,
		ec2Client:        e,
	}
}

func (c *LoggingChecks) Name() string {
	return "Logging and Monitoring"
}

func (c *LoggingChecks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	results = append(results, c.CheckCloudTrail(ctx)...)

	if result, err := c.CheckConfigRecording(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckFlowLogs(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckAlarms(ctx); err == nil {
		results = append(results, result)
	}

	return results, nil
}

func (c *LoggingChecks) CheckCloudTrail(ctx context.Context) []CheckResult {
	results := []CheckResult{}

	trails, err := c.cloudtrailClient.DescribeTrails(ctx, &cloudtrail.DescribeTrailsInput{})
	if err != nil {
		return append(results, CheckResult{
			Control:    "PCI-10.1",
			Name:       "Audit Trail Implementation",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check CloudTrail: %v", err),
			Priority:   PriorityCritical,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("CLOUDTRAIL_ENABLED"),
		})
	}

	if len(trails.TrailList) == 0 {
		return append(results, CheckResult{
			Control:           "PCI-10.1",
			Name:              "Audit Trail Implementation",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          "No CloudTrail configured - all access to system components must be logged",
			Remediation:       "Enable CloudTrail immediately",
			RemediationDetail: "aws cloudtrail create-trail --name pci-audit-trail --s3-bucket-name <bucket> --is-multi-region-trail",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "CloudTrail → Dashboard → Show trail enabled for all regions",
			ConsoleURL:        "https://console.aws.amazon.com/cloudtrail/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CLOUDTRAIL_ENABLED"),
		})
	}

	multiRegion := false
	validated := false
	encrypted := false
	logging := false

	for _, trail := range trails.TrailList {
		if aws.ToBool(trail.IsMultiRegionTrail) {
			multiRegion = true
		}
		if aws.ToBool(trail.LogFileValidationEnabled) {
			validated = true
		}
		if aws.ToString(trail.KmsKeyId) != "" {
			encrypted = true
		}
		status, err := c.cloudtrailClient.GetTrailStatus(ctx, &cloudtrail.GetTrailStatusInput{
			Name: trail.TrailARN,
		})
		if err == nil && aws.ToBool(status.IsLogging) {
			logging = true
		}
	}

	if logging {
		results = append(results, CheckResult{
			Control:    "PCI-10.1",
			Name:       "Audit Trail Implementation",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("%d trail(s) configured and actively logging", len(trails.TrailList)),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("CLOUDTRAIL_ENABLED"),
		})
	} else {
		results = append(results, CheckResult{
			Control:           "PCI-10.1",
			Name:              "Audit Trail Implementation",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d trail(s) exist but none are actively logging", len(trails.TrailList)),
			Remediation:       "Start logging on the trail",
			RemediationDetail: "aws cloudtrail start-logging --name <trail>",
			Priority:          PriorityCritical,
			ConsoleURL:        "https://console.aws.amazon.com/cloudtrail/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CLOUDTRAIL_ENABLED"),
		})
	}

	if !multiRegion {
		results = append(results, CheckResult{
			Control:           "PCI-10.2.1",
			Name:              "Multi-Region Audit Coverage",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          "No multi-region trail - activity in unused regions goes unrecorded",
			Remediation:       "Convert the trail to multi-region",
			RemediationDetail: "aws cloudtrail update-trail --name <trail> --is-multi-region-trail",
			Priority:          PriorityHigh,
			ConsoleURL:        "https://console.aws.amazon.com/cloudtrail/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CLOUDTRAIL_MULTIREGION"),
		})
	}

	if !validated {
		results = append(results, CheckResult{
			Control:           "PCI-10.5.2",
			Name:              "Log File Integrity Validation",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          "Log file validation disabled - audit logs must be protected from modification",
			Remediation:       "Enable log file validation",
			RemediationDetail: "aws cloudtrail update-trail --name <trail> --enable-log-file-validation",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "CloudTrail → Trail → Show log file validation Enabled",
			ConsoleURL:        "https://console.aws.amazon.com/cloudtrail/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CLOUDTRAIL_VALIDATION"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-10.5.2",
			Name:       "Log File Integrity Validation",
			Status:     "PASS",
			Evidence:   "Trail log file validation enabled",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("CLOUDTRAIL_VALIDATION"),
		})
	}

	if !encrypted {
		results = append(results, CheckResult{
			Control:           "PCI-3.4-trail",
			Name:              "Audit Log Encryption",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          "Trail logs not encrypted with KMS",
			Remediation:       "Encrypt trail logs with a customer-managed key",
			RemediationDetail: "aws cloudtrail update-trail --name <trail> --kms-key-id <key-arn>",
			Priority:          PriorityMedium,
			ConsoleURL:        "https://console.aws.amazon.com/cloudtrail/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CLOUDTRAIL_ENCRYPTION"),
		})
	}

	return results
}

func (c *LoggingChecks) CheckConfigRecording(ctx context.Context) (CheckResult, error) {
	recorders, err := c.configClient.DescribeConfigurationRecorders(ctx, &configservice.DescribeConfigurationRecordersInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-11.5",
			Name:       "Configuration Change Detection",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check AWS Config: %v", err),
			Priority:   PriorityMedium,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("CONFIG_ENABLED"),
		}, nil
	}

	if len(recorders.ConfigurationRecorders) == 0 {
		return CheckResult{
			Control:           "PCI-11.5",
			Name:              "Configuration Change Detection",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          "AWS Config not recording - unauthorized changes to system components go undetected",
			Remediation:       "Enable AWS Config in all regions",
			RemediationDetail: "Config → Settings → Enable recording for all resource types",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "Config → Settings → Show recorder ON",
			ConsoleURL:        "https://console.aws.amazon.com/config/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("CONFIG_ENABLED"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-11.5",
		Name:       "Configuration Change Detection",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("%d configuration recorder(s) active", len(recorders.ConfigurationRecorders)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("CONFIG_ENABLED"),
	}, nil
}

func (c *LoggingChecks) CheckFlowLogs(ctx context.Context) (CheckResult, error) {
	vpcs, err := c.ec2Client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	flowLogs, err := c.ec2Client.DescribeFlowLogs(ctx, &ec2.DescribeFlowLogsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	covered := make(map[string]bool)
	for _, fl := range flowLogs.FlowLogs {
		covered[aws.ToString(fl.ResourceId)] = true
	}

	uncovered := []string{}
	for _, vpc := range vpcs.Vpcs {
		if !covered[aws.ToString(vpc.VpcId)] {
			uncovered = append(uncovered, aws.ToString(vpc.VpcId))
		}
	}

	if len(uncovered) > 0 {
		return CheckResult{
			Control:           "PCI-10.2-flow",
			Name:              "VPC Flow Logs",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d/%d VPCs without flow logs - network access to the CDE is not recorded", len(uncovered), len(vpcs.Vpcs)),
			Remediation:       "Enable flow logs on every VPC",
			RemediationDetail: "aws ec2 create-flow-log --resource-type VPC --resource-ids <vpc-id> --traffic-type ALL --log-destination <s3-arn>",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "VPC → Your VPCs → Flow logs tab → Show active flow log",
			ConsoleURL:        "https://console.aws.amazon.com/vpc/home",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("VPC_FLOW_LOGS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-10.2-flow",
		Name:       "VPC Flow Logs",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("All %d VPCs have flow logs enabled", len(vpcs.Vpcs)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("VPC_FLOW_LOGS"),
	}, nil
}

// CheckAlarms verifies someone gets paged: at least one CloudWatch
// alarm with an action configured.
func (c *LoggingChecks) CheckAlarms(ctx context.Context) (CheckResult, error) {
	alarms, err := c.cloudwatchClient.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	actionable := 0
	for _, alarm := range alarms.MetricAlarms {
		if len(alarm.AlarmActions) > 0 {
			actionable++
		}
	}

	if actionable == 0 {
		return CheckResult{
			Control:           "PCI-10.6.1",
			Name:              "Security Event Alerting",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          "No CloudWatch alarms with actions configured - daily log review requires automated alerting",
			Remediation:       "Create metric alarms for security events with SNS actions",
			RemediationDetail: "Alarm on unauthorized API calls, console sign-in without MFA, and root usage",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "CloudWatch → Alarms → Show alarms with notification actions",
			ConsoleURL:        "https://console.aws.amazon.com/cloudwatch/home#alarmsV2:",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("METRIC_ALARMS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-10.6.1",
		Name:       "Security Event Alerting",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("%d alarm(s) configured with actions", actionable),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("METRIC_ALARMS"),
	}, nil
}
