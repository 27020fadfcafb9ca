package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Ports that carry cleartext or legacy protocols. Exposing these to
// the internet fails the cardholder data environment boundary.
var unencryptedPorts = map[int32]string{
	21:   "FTP",
	23:   "Telnet",
	80:   "HTTP",
	1433: "SQL Server",
	3306: "MySQL",
	5432: "PostgreSQL",
}

type NetworkChecks struct {
	client *ec2.Client
}

func NewNetworkChecks(client *ec2.Client) *NetworkChecks {
	return &NetworkChecks{client: client}
}

func (c *NetworkChecks) Name() string {
	return "Network Security Controls"
}

func (c *NetworkChecks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	if result, err := c.CheckSegmentation(ctx); err == nil {
		results = append(results, result...)
	}

	if result, err := c.CheckDefaultSecurityGroups(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckUnencryptedProtocols(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckPublicInstances(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckIMDSv2(ctx); err == nil {
		results = append(results, result)
	}

	return results, nil
}

// CheckSegmentation verifies the account has network boundaries in
// place: more than the default VPC, and no security groups open to
// the world on administrative ports.
func (c *NetworkChecks) CheckSegmentation(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	vpcs, err := c.client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{})
	if err != nil {
		return []CheckResult{{
			Control:    "PCI-1.2.1",
			Name:       "Network Segmentation",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check VPCs: %v", err),
			Priority:   PriorityHigh,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("OPEN_SECURITY_GROUPS"),
		}}, nil
	}

	defaultOnly := true
	for _, vpc := range vpcs.Vpcs {
		if !aws.ToBool(vpc.IsDefault) {
			defaultOnly = false
			break
		}
	}

	if defaultOnly && len(vpcs.Vpcs) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-1.2.1",
			Name:              "Network Segmentation",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          "Only the default VPC exists - cardholder data environment is not segmented from other workloads",
			Remediation:       "Create a dedicated VPC for the cardholder data environment",
			RemediationDetail: "Isolate CDE workloads in their own VPC with restrictive security groups and NACLs",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "VPC → Your VPCs → Show dedicated CDE VPC",
			ConsoleURL:        "https://console.aws.amazon.com/vpc/home",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("OPEN_SECURITY_GROUPS"),
		})
	}

	sgs, err := c.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	if err != nil {
		return results, nil
	}

	openGroups := []string{}
	for _, sg := range sgs.SecurityGroups {
		for _, rule := range sg.IpPermissions {
			for _, ipRange := range rule.IpRanges {
				if aws.ToString(ipRange.CidrIp) == "0.0.0.0/0" {
					openGroups = append(openGroups, aws.ToString(sg.GroupId))
				}
			}
		}
	}

	if len(openGroups) > 0 {
		displayGroups := openGroups
		if len(openGroups) > 3 {
			displayGroups = openGroups[:3]
		}
		results = append(results, CheckResult{
			Control:           "PCI-1.3",
			Name:              "Inbound Traffic Restriction",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d security groups allow inbound traffic from 0.0.0.0/0: %s", len(openGroups), strings.Join(displayGroups, ", ")),
			Remediation:       "Restrict inbound rules to known CIDR ranges",
			RemediationDetail: "Replace 0.0.0.0/0 sources with your corporate or VPN CIDR blocks",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "EC2 → Security Groups → Inbound rules → Show no 0.0.0.0/0 sources",
			ConsoleURL:        "https://console.aws.amazon.com/ec2/v2/home#SecurityGroups",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("OPEN_SECURITY_GROUPS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-1.3",
			Name:       "Inbound Traffic Restriction",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("No security groups open to the internet (%d checked)", len(sgs.SecurityGroups)),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("OPEN_SECURITY_GROUPS"),
		})
	}

	return results, nil
}

// CheckDefaultSecurityGroups flags default security groups that still
// carry rules. Vendor defaults in use is a Requirement 2 failure.
func (c *NetworkChecks) CheckDefaultSecurityGroups(ctx context.Context) (CheckResult, error) {
	sgs, err := c.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("group-name"), Values: []string{"default"}},
		},
	})
	if err != nil {
		return CheckResult{
			Control:    "PCI-2.1",
			Name:       "Vendor Default Configuration",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check default security groups: %v", err),
			Priority:   PriorityHigh,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("DEFAULT_SECURITY_GROUP"),
		}, nil
	}

	defaultsWithRules := []string{}
	for _, sg := range sgs.SecurityGroups {
		if len(sg.IpPermissions) > 0 || len(sg.IpPermissionsEgress) > 1 {
			defaultsWithRules = append(defaultsWithRules, aws.ToString(sg.GroupId))
		}
	}

	if len(defaultsWithRules) > 0 {
		return CheckResult{
			Control:           "PCI-2.1",
			Name:              "Vendor Default Configuration",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d default security groups still carry rules: %s", len(defaultsWithRules), strings.Join(defaultsWithRules, ", ")),
			Remediation:       "Remove all rules from default security groups",
			RemediationDetail: "Default security groups should have zero inbound and outbound rules; use purpose-built groups instead",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "EC2 → Security Groups → default → Show empty rule sets",
			ConsoleURL:        "https://console.aws.amazon.com/ec2/v2/home#SecurityGroups",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("DEFAULT_SECURITY_GROUP"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-2.1",
		Name:       "Vendor Default Configuration",
		Status:     "PASS",
		Evidence:   "All default security groups have empty rule sets",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("DEFAULT_SECURITY_GROUP"),
	}, nil
}

// CheckUnencryptedProtocols scans for cleartext protocol ports exposed
// to the internet.
func (c *NetworkChecks) CheckUnencryptedProtocols(ctx context.Context) (CheckResult, error) {
	sgs, err := c.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-4.1",
			Name:       "Encryption in Transit",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check security groups: %v", err),
			Priority:   PriorityCritical,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("UNENCRYPTED_PROTOCOLS"),
		}, nil
	}

	exposed := []string{}
	for _, sg := range sgs.SecurityGroups {
		for _, rule := range sg.IpPermissions {
			if rule.FromPort == nil {
				continue
			}
			protocol, dangerous := unencryptedPorts[aws.ToInt32(rule.FromPort)]
			if !dangerous {
				continue
			}
			for _, ipRange := range rule.IpRanges {
				if aws.ToString(ipRange.CidrIp) == "0.0.0.0/0" {
					exposed = append(exposed, fmt.Sprintf("%s (%s)", protocol, aws.ToString(sg.GroupId)))
				}
			}
		}
	}

	if len(exposed) > 0 {
		displayExposed := exposed
		if len(exposed) > 3 {
			displayExposed = exposed[:3]
		}
		return CheckResult{
			Control:           "PCI-4.1",
			Name:              "Encryption in Transit",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("Cleartext protocols exposed to the internet: %s", strings.Join(displayExposed, ", ")),
			Remediation:       "Use only encrypted protocols (HTTPS, SSH, TLS 1.2+)",
			RemediationDetail: "Replace HTTP with HTTPS, FTP with SFTP, Telnet with SSH; never expose database ports publicly",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "EC2 → Security Groups → Show no HTTP/FTP/Telnet/database ports open to 0.0.0.0/0",
			ConsoleURL:        "https://console.aws.amazon.com/ec2/v2/home#SecurityGroups",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("UNENCRYPTED_PROTOCOLS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-4.1",
		Name:       "Encryption in Transit",
		Status:     "PASS",
		Evidence:   "No cleartext protocols exposed to the internet",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("UNENCRYPTED_PROTOCOLS"),
	}, nil
}

// CheckPublicInstances finds running instances with public IPs.
func (c *NetworkChecks) CheckPublicInstances(ctx context.Context) (CheckResult, error) {
	instances, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-1.3.1",
			Name:       "Public Instance Exposure",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check EC2 instances: %v", err),
			Priority:   PriorityHigh,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("PUBLIC_INSTANCES"),
		}, nil
	}

	publicInstances := []string{}
	for _, reservation := range instances.Reservations {
		for _, instance := range reservation.Instances {
			if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameRunning {
				continue
			}
			if instance.PublicIpAddress != nil {
				publicInstances = append(publicInstances, aws.ToString(instance.InstanceId))
			}
		}
	}

	if len(publicInstances) > 0 {
		displayInstances := publicInstances
		if len(publicInstances) > 3 {
			displayInstances = publicInstances[:3]
		}
		return CheckResult{
			Control:           "PCI-1.3.1",
			Name:              "Public Instance Exposure",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d running instances have public IP addresses: %s", len(publicInstances), strings.Join(displayInstances, ", ")),
			Remediation:       "Move instances to private subnets behind a load balancer or NAT",
			RemediationDetail: "CDE systems must not be directly reachable from the internet; front them with an ALB or NAT gateway",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "EC2 → Instances → Show no public IPv4 addresses on CDE instances",
			ConsoleURL:        "https://console.aws.amazon.com/ec2/v2/home#Instances",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("PUBLIC_INSTANCES"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-1.3.1",
		Name:       "Public Instance Exposure",
		Status:     "PASS",
		Evidence:   "No running instances with public IP addresses",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("PUBLIC_INSTANCES"),
	}, nil
}

// CheckIMDSv2 verifies instances require session-based metadata access.
func (c *NetworkChecks) CheckIMDSv2(ctx context.Context) (CheckResult, error) {
	instances, err := c.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{})
	if err != nil {
		return CheckResult{}, err
	}

	v1Instances := []string{}
	for _, reservation := range instances.Reservations {
		for _, instance := range reservation.Instances {
			if instance.State == nil || instance.State.Name != ec2types.InstanceStateNameRunning {
				continue
			}
			if instance.MetadataOptions == nil || instance.MetadataOptions.HttpTokens != ec2types.HttpTokensStateRequired {
				v1Instances = append(v1Instances, aws.ToString(instance.InstanceId))
			}
		}
	}

	if len(v1Instances) > 0 {
		return CheckResult{
			Control:           "PCI-2.2.2",
			Name:              "Instance Metadata Hardening",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          fmt.Sprintf("%d instances allow IMDSv1 - credentials can be stolen via SSRF", len(v1Instances)),
			Remediation:       "Require IMDSv2 on all instances",
			RemediationDetail: "aws ec2 modify-instance-metadata-options --instance-id <id> --http-tokens required",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "EC2 → Instance → Actions → Instance settings → Modify instance metadata options → Show IMDSv2 required",
			ConsoleURL:        "https://console.aws.amazon.com/ec2/v2/home#Instances",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("IMDS_V2"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-2.2.2",
		Name:       "Instance Metadata Hardening",
		Status:     "PASS",
		Evidence:   "All running instances require IMDSv2",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("IMDS_V2"),
	}, nil
}
