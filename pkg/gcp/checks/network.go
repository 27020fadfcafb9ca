package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/compute/v1"
)

// Cleartext or administrative ports that must never be open to the
// internet.
var sensitivePorts = map[string]string{
	"21":   "FTP",
	"22":   "SSH",
	"23":   "Telnet",
	"80":   "HTTP",
	"1433": "SQL Server",
	"3306": "MySQL",
	"3389": "RDP",
	"5432": "PostgreSQL",
}

type NetworkChecks struct {
	service   *compute.Service
	projectID string
}

func NewNetworkChecks(service *compute.Service, projectID string) *NetworkChecks {
	return &NetworkChecks{
		service:   service,
		projectID: projectID,
	}
}

func (c *NetworkChecks) Run(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult

	results = append(results, c.CheckOpenFirewalls(ctx)...)
	results = append(results, c.CheckDefaultNetwork(ctx)...)
	results = append(results, c.CheckSubnetFlowLogs(ctx)...)

	return results, nil
}

// CheckOpenFirewalls scans ingress rules for 0.0.0.0/0 sources on
// sensitive ports.
func (c *NetworkChecks) CheckOpenFirewalls(ctx context.Context) []CheckResult {
	var results []CheckResult

	firewallList, err := c.service.Firewalls.List(c.projectID).Context(ctx).Do()
	if err != nil {
		return append(results, CheckResult{
			Control:     "PCI-1.3-gcp",
			Name:        "Firewall Ingress Restriction",
			Status:      "ERROR",
			Evidence:    fmt.Sprintf("Unable to list firewall rules: %v", err),
			Remediation: "Verify the Compute API is enabled and the caller has compute.firewalls.list",
			Priority:    PriorityHigh,
			Timestamp:   time.Now(),
			Frameworks:  GetFrameworkMappings("FIREWALL_OPEN_INGRESS"),
		})
	}

	openRules := []string{}
	cleartextRules := []string{}

	for _, rule := range firewallList.Items {
		if rule.Disabled || rule.Direction != "INGRESS" {
			continue
		}

		openToWorld := false
		for _, sourceRange := range rule.SourceRanges {
			if sourceRange == "0.0.0.0/0" {
				openToWorld = true
			}
		}
		if !openToWorld {
			continue
		}

		for _, allowed := range rule.Allowed {
			for _, port := range allowed.Ports {
				if protocol, sensitive := sensitivePorts[port]; sensitive {
					entry := fmt.Sprintf("%s (%s %s)", rule.Name, protocol, port)
					openRules = append(openRules, entry)
					if protocol == "FTP" || protocol == "Telnet" || protocol == "HTTP" {
						cleartextRules = append(cleartextRules, entry)
					}
				}
			}
			// Empty port list with tcp/udp means all ports
			if len(allowed.Ports) == 0 && (allowed.IPProtocol == "tcp" || allowed.IPProtocol == "udp" || allowed.IPProtocol == "all") {
				openRules = append(openRules, fmt.Sprintf("%s (all %s ports)", rule.Name, allowed.IPProtocol))
			}
		}
	}

	if len(openRules) > 0 {
		displayRules := openRules
		if len(openRules) > 3 {
			displayRules = openRules[:3]
		}
		results = append(results, CheckResult{
			Control:  "PCI-1.3-gcp",
			Name:     "Firewall Ingress Restriction",
			Status:   "FAIL",
			Severity: "CRITICAL",
			Evidence: fmt.Sprintf("%d firewall rules expose sensitive ports to the internet: %s", len(openRules), strings.Join(displayRules, ", ")),
			Remediation: "Restrict ingress sources to known CIDR ranges",
			RemediationDetail: `gcloud compute firewall-rules update RULE_NAME --source-ranges=CORPORATE_CIDR
# Or use IAP for administrative access:
gcloud compute firewall-rules update RULE_NAME --source-ranges=35.235.240.0/20`,
			Priority:        PriorityCritical,
			ScreenshotGuide: "VPC network → Firewall → Show no 0.0.0.0/0 sources on sensitive ports",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/networking/firewalls/list?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("FIREWALL_OPEN_INGRESS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-1.3-gcp",
			Name:       "Firewall Ingress Restriction",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("No firewall rules expose sensitive ports to the internet (%d rules checked)", len(firewallList.Items)),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("FIREWALL_OPEN_INGRESS"),
		})
	}

	if len(cleartextRules) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-4.1-gcp",
			Name:              "Encryption in Transit",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("Cleartext protocols reachable from the internet: %s", strings.Join(cleartextRules, ", ")),
			Remediation:       "Use only encrypted protocols (HTTPS, SSH, TLS 1.2+)",
			RemediationDetail: "Replace HTTP with HTTPS behind a load balancer, FTP with SFTP, Telnet with SSH",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "VPC network → Firewall → Show no HTTP/FTP/Telnet rules",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/networking/firewalls/list?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("FIREWALL_CLEARTEXT"),
		})
	}

	return results
}

// CheckDefaultNetwork flags projects still running on the
// auto-created default network.
func (c *NetworkChecks) CheckDefaultNetwork(ctx context.Context) []CheckResult {
	var results []CheckResult

	networkList, err := c.service.Networks.List(c.projectID).Context(ctx).Do()
	if err != nil {
		return results
	}

	for _, network := range networkList.Items {
		if network.Name == "default" {
			return append(results, CheckResult{
				Control:  "PCI-2.1-gcp",
				Name:     "Default Network Removal",
				Status:   "FAIL",
				Severity: "HIGH",
				Evidence: "The auto-created default network exists - its preconfigured firewall rules allow broad internal access",
				Remediation: "Delete the default network and use purpose-built VPCs",
				RemediationDetail: `gcloud compute networks delete default
# Create a custom-mode VPC first and migrate workloads`,
				Priority:        PriorityHigh,
				ScreenshotGuide: "VPC network → VPC networks → Show no default network",
				ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/networking/networks/list?project=%s", c.projectID),
				Timestamp:       time.Now(),
				Frameworks:      GetFrameworkMappings("DEFAULT_NETWORK"),
			})
		}
	}

	return append(results, CheckResult{
		Control:    "PCI-2.1-gcp",
		Name:       "Default Network Removal",
		Status:     "PASS",
		Evidence:   "No default network in the project",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("DEFAULT_NETWORK"),
	})
}

// CheckSubnetFlowLogs verifies VPC flow logs across all regions.
func (c *NetworkChecks) CheckSubnetFlowLogs(ctx context.Context) []CheckResult {
	var results []CheckResult

	regionList, err := c.service.Regions.List(c.projectID).Context(ctx).Do()
	if err != nil {
		return results
	}

	withoutLogs := []string{}
	totalSubnets := 0

	for _, region := range regionList.Items {
		subnetList, err := c.service.Subnetworks.List(c.projectID, region.Name).Context(ctx).Do()
		if err != nil {
			continue
		}
		for _, subnet := range subnetList.Items {
			totalSubnets++
			if !subnet.EnableFlowLogs {
				withoutLogs = append(withoutLogs, fmt.Sprintf("%s/%s", region.Name, subnet.Name))
			}
		}
	}

	if totalSubnets == 0 {
		return results
	}

	if len(withoutLogs) > 0 {
		displaySubnets := withoutLogs
		if len(withoutLogs) > 3 {
			displaySubnets = withoutLogs[:3]
		}
		results = append(results, CheckResult{
			Control:  "PCI-10.2-gcp",
			Name:     "VPC Flow Logs",
			Status:   "FAIL",
			Severity: "HIGH",
			Evidence: fmt.Sprintf("%d/%d subnets without flow logs: %s - network access to the CDE goes unrecorded", len(withoutLogs), totalSubnets, strings.Join(displaySubnets, ", ")),
			Remediation: "Enable flow logs on every subnet",
			RemediationDetail: "gcloud compute networks subnets update SUBNET --region=REGION --enable-flow-logs",
			Priority:        PriorityHigh,
			ScreenshotGuide: "VPC network → Subnets → Flow logs column → Show On",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/networking/networks/list?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("SUBNET_FLOW_LOGS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-10.2-gcp",
			Name:       "VPC Flow Logs",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d subnets have flow logs enabled", totalSubnets),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SUBNET_FLOW_LOGS"),
		})
	}

	return results
}
