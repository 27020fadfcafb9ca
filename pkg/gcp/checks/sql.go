package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/sqladmin/v1"
)

type SQLChecks struct {
	service   *sqladmin.Service
	projectID string
}

func NewSQLChecks(service *sqladmin.Service, projectID string) *SQLChecks {
	return &SQLChecks{
		service:   service,
		projectID: projectID,
	}
}

func (c *SQLChecks) Run(ctx context.Context) ([]CheckResult, error) {
	instances, err := c.service.Instances.List(c.projectID).Context(ctx).Do()
	if err != nil {
		return []CheckResult{{
			Control:     "PCI-1.3.2-sql",
			Name:        "Cloud SQL Security",
			Status:      "ERROR",
			Evidence:    fmt.Sprintf("Unable to list Cloud SQL instances: %v", err),
			Remediation: "Verify the SQL Admin API is enabled and the caller has cloudsql.instances.list",
			Priority:    PriorityHigh,
			Timestamp:   time.Now(),
			Frameworks:  GetFrameworkMappings("SQL_PUBLIC_IP"),
		}}, nil
	}

	if len(instances.Items) == 0 {
		return []CheckResult{{
			Control:    "PCI-1.3.2-sql",
			Name:       "Cloud SQL Security",
			Status:     "PASS",
			Evidence:   "No Cloud SQL instances found",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SQL_PUBLIC_IP"),
		}}, nil
	}

	var results []CheckResult

	publicIP := []string{}
	openNetworks := []string{}
	noSSL := []string{}
	noBackups := []string{}

	for _, instance := range instances.Items {
		if instance.Settings == nil {
			continue
		}

		if ipCfg := instance.Settings.IpConfiguration; ipCfg != nil {
			if ipCfg.Ipv4Enabled {
				publicIP = append(publicIP, instance.Name)
			}
			for _, network := range ipCfg.AuthorizedNetworks {
				if network.Value == "0.0.0.0/0" {
					openNetworks = append(openNetworks, instance.Name)
				}
			}
			if !ipCfg.RequireSsl {
				noSSL = append(noSSL, instance.Name)
			}
		}

		if backup := instance.Settings.BackupConfiguration; backup == nil || !backup.Enabled {
			noBackups = append(noBackups, instance.Name)
		}
	}

	if len(openNetworks) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-1.3.1-sql",
			Name:              "Cloud SQL Authorized Networks",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d instances authorize connections from 0.0.0.0/0: %s", len(openNetworks), strings.Join(openNetworks, ", ")),
			Remediation:       "Remove the open authorized network entry",
			RemediationDetail: "gcloud sql instances patch INSTANCE --clear-authorized-networks",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "SQL → Instance → Connections → Show no 0.0.0.0/0 authorized networks",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/sql/instances?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SQL_AUTHORIZED_NETWORKS"),
		})
	}

	if len(publicIP) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-1.3.2-sql",
			Name:              "Cloud SQL Public IP",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d instances have public IP addresses: %s - cardholder databases must use private connectivity", len(publicIP), strings.Join(publicIP, ", ")),
			Remediation:       "Switch to private IP connectivity",
			RemediationDetail: "gcloud sql instances patch INSTANCE --no-assign-ip --network=VPC_NETWORK",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "SQL → Instance → Connections → Show private IP only",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/sql/instances?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SQL_PUBLIC_IP"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-1.3.2-sql",
			Name:       "Cloud SQL Public IP",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("None of %d instances have public IP addresses", len(instances.Items)),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SQL_PUBLIC_IP"),
		})
	}

	if len(noSSL) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-4.1-sql",
			Name:              "Cloud SQL SSL Enforcement",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d instances accept unencrypted connections: %s", len(noSSL), strings.Join(noSSL, ", ")),
			Remediation:       "Require SSL for all connections",
			RemediationDetail: "gcloud sql instances patch INSTANCE --require-ssl",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "SQL → Instance → Connections → Security → Show SSL required",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/sql/instances?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SQL_SSL_REQUIRED"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-4.1-sql",
			Name:       "Cloud SQL SSL Enforcement",
			Status:     "PASS",
			Evidence:   "All instances require SSL connections",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SQL_SSL_REQUIRED"),
		})
	}

	if len(noBackups) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-9.5.1-sql",
			Name:              "Cloud SQL Automated Backups",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d instances without automated backups: %s", len(noBackups), strings.Join(noBackups, ", ")),
			Remediation:       "Enable automated backups",
			RemediationDetail: "gcloud sql instances patch INSTANCE --backup-start-time=02:00",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "SQL → Instance → Backups → Show automated backups enabled",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/sql/instances?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SQL_BACKUPS"),
		})
	}

	return results, nil
}
