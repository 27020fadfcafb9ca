package checks

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/logging/apiv2"
	"cloud.google.com/go/logging/apiv2/loggingpb"
	"google.golang.org/api/iterator"
)

type LoggingChecks struct {
	client        *logging.ConfigClient
	metricsClient *logging.MetricsClient
	projectID     string
}

func NewLoggingChecks(client *logging.ConfigClient, metricsClient *logging.MetricsClient, projectID string) *LoggingChecks {
	return &LoggingChecks{
		client:        client,
		metricsClient: metricsClient,
		projectID:     projectID,
	}
}

func (c *LoggingChecks) Run(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult

	results = append(results, c.CheckLogSinks(ctx)...)
	results = append(results, c.CheckDataAccessLogs(ctx)...)
	results = append(results, c.CheckLogMetrics(ctx)...)

	return results, nil
}

// CheckLogSinks verifies audit logs are exported somewhere durable.
// The default 30-day _Default bucket retention falls short of the
// 12-month requirement.
func (c *LoggingChecks) CheckLogSinks(ctx context.Context) []CheckResult {
	var results []CheckResult

	req := &loggingpb.ListSinksRequest{
		Parent: fmt.Sprintf("projects/%s", c.projectID),
	}

	it := c.client.ListSinks(ctx, req)
	exportSinks := 0
	totalSinks := 0

	for {
		sink, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return append(results, CheckResult{
				Control:     "PCI-10.5.3-gcp",
				Name:        "Audit Log Export",
				Status:      "ERROR",
				Evidence:    fmt.Sprintf("Unable to list log sinks: %v", err),
				Remediation: "Verify the caller has logging.sinks.list",
				Priority:    PriorityHigh,
				Timestamp:   time.Now(),
				Frameworks:  GetFrameworkMappings("AUDIT_LOG_SINKS"),
			})
		}
		totalSinks++
		if sink.Name != "_Default" && sink.Name != "_Required" {
			exportSinks++
		}
	}

	if exportSinks == 0 {
		results = append(results, CheckResult{
			Control:  "PCI-10.5.3-gcp",
			Name:     "Audit Log Export",
			Status:   "FAIL",
			Severity: "HIGH",
			Evidence: "No export sinks beyond the defaults - audit logs must be retained for 12 months, the default bucket keeps 30 days",
			Remediation: "Create a sink exporting audit logs to a locked storage bucket",
			RemediationDetail: `gcloud logging sinks create pci-audit-export \
  storage.googleapis.com/AUDIT_BUCKET \
  --log-filter='logName:"cloudaudit.googleapis.com"'`,
			Priority:        PriorityHigh,
			ScreenshotGuide: "Logging → Log Router → Show export sink to durable storage",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/logs/router?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("AUDIT_LOG_SINKS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-10.5.3-gcp",
			Name:       "Audit Log Export",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("%d export sink(s) configured beyond the defaults", exportSinks),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("AUDIT_LOG_SINKS"),
		})
	}

	return results
}

// CheckDataAccessLogs surfaces the Data Access audit log requirement.
// Admin Activity logs are always on; Data Access logs are opt-in and
// their configuration lives in the project IAM policy.
func (c *LoggingChecks) CheckDataAccessLogs(ctx context.Context) []CheckResult {
	return []CheckResult{{
		Control:     "PCI-10.1-gcp",
		Name:        "Data Access Audit Logs",
		Status:      "INFO",
		Evidence:    "MANUAL: Verify Data Access audit logs are enabled for services holding cardholder data (Storage, Cloud SQL, BigQuery)",
		Remediation: "Enable Data Access logs for CDE services",
		RemediationDetail: `IAM & Admin → Audit Logs → select service → enable Data Read and Data Write`,
		Priority:        PriorityHigh,
		ScreenshotGuide: "IAM & Admin → Audit Logs → Show Data Access logs enabled for CDE services",
		ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/iam-admin/audit?project=%s", c.projectID),
		Timestamp:       time.Now(),
		Frameworks:      GetFrameworkMappings("AUDIT_LOG_RETENTION"),
	}}
}

// CheckLogMetrics verifies alerting metrics exist over the audit
// stream.
func (c *LoggingChecks) CheckLogMetrics(ctx context.Context) []CheckResult {
	var results []CheckResult

	req := &loggingpb.ListLogMetricsRequest{
		Parent: fmt.Sprintf("projects/%s", c.projectID),
	}

	it := c.metricsClient.ListLogMetrics(ctx, req)
	metricCount := 0

	for {
		_, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return results
		}
		metricCount++
	}

	if metricCount == 0 {
		results = append(results, CheckResult{
			Control:  "PCI-10.6.1-gcp",
			Name:     "Security Event Alerting",
			Status:   "FAIL",
			Severity: "MEDIUM",
			Evidence: "No log-based metrics defined - daily log review requires automated alerting on suspicious activity",
			Remediation: "Create log-based metrics with alert policies",
			RemediationDetail: `gcloud logging metrics create iam-changes \
  --description="IAM policy changes" \
  --log-filter='protoPayload.methodName="SetIamPolicy"'`,
			Priority:        PriorityMedium,
			ScreenshotGuide: "Logging → Log-based metrics → Show metrics with alert policies",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/logs/metrics?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("LOG_METRIC_ALERTS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-10.6.1-gcp",
			Name:       "Security Event Alerting",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("%d log-based metric(s) defined", metricCount),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("LOG_METRIC_ALERTS"),
		})
	}

	return results
}
