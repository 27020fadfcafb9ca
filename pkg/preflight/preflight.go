// Package preflight verifies the caller holds the permissions the
// assessment needs before any checks run. Missing permissions are
// reported and the scan continues; the affected checks surface their
// own errors as findings.
package preflight

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	crm "google.golang.org/api/cloudresourcemanager/v1"
)

// GCPRequiredPermissions lists the read permissions the GCP checks
// exercise, keyed by the service they unlock.
var GCPRequiredPermissions = map[string][]string{
	"storage": {
		"storage.buckets.list",
		"storage.buckets.get",
		"storage.buckets.getIamPolicy",
	},
	"iam": {
		"iam.serviceAccounts.list",
		"iam.serviceAccountKeys.list",
		"resourcemanager.projects.getIamPolicy",
	},
	"compute": {
		"compute.instances.list",
		"compute.firewalls.list",
		"compute.networks.list",
		"compute.subnetworks.list",
	},
	"sql": {
		"cloudsql.instances.list",
	},
	"logging": {
		"logging.sinks.list",
		"logging.logMetrics.list",
	},
	"kms": {
		"cloudkms.keyRings.list",
		"cloudkms.cryptoKeys.list",
	},
}

// AWSRequiredActions lists the read actions the AWS checks exercise.
var AWSRequiredActions = []string{
	"iam:GetAccountPasswordPolicy",
	"iam:GetAccountSummary",
	"iam:ListUsers",
	"iam:ListAccessKeys",
	"iam:ListMFADevices",
	"s3:ListAllMyBuckets",
	"s3:GetEncryptionConfiguration",
	"s3:GetBucketPublicAccessBlock",
	"ec2:DescribeVpcs",
	"ec2:DescribeSecurityGroups",
	"ec2:DescribeFlowLogs",
	"cloudtrail:DescribeTrails",
	"cloudtrail:GetTrailStatus",
	"rds:DescribeDBInstances",
	"kms:ListKeys",
	"kms:GetKeyRotationStatus",
	"config:DescribeConfigurationRecorders",
	"guardduty:ListDetectors",
	"securityhub:GetEnabledStandards",
	"secretsmanager:ListSecrets",
}

// Report is the preflight outcome for one scope target
type Report struct {
	Target  string   `json:"target"`
	Granted []string `json:"granted"`
	Missing []string `json:"missing"`
}

// Complete reports whether every required permission was granted
func (r Report) Complete() bool {
	return len(r.Missing) == 0
}

// GCPChecker probes projects.testIamPermissions
type GCPChecker struct {
	svc *crm.Service
}

func NewGCPChecker(ctx context.Context) (*GCPChecker, error) {
	svc, err := crm.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager service: %v", err)
	}
	return &GCPChecker{svc: svc}, nil
}

// Check tests the full permission list against one project
func (c *GCPChecker) Check(ctx context.Context, projectID string) (Report, error) {
	var all []string
	for _, perms := range GCPRequiredPermissions {
		all = append(all, perms...)
	}
	sort.Strings(all)

	resp, err := c.svc.Projects.TestIamPermissions(projectID, &crm.TestIamPermissionsRequest{
		Permissions: all,
	}).Context(ctx).Do()
	if err != nil {
		return Report{}, fmt.Errorf("testIamPermissions failed for %s: %v", projectID, err)
	}

	granted := make(map[string]bool, len(resp.Permissions))
	for _, p := range resp.Permissions {
		granted[p] = true
	}

	report := Report{Target: projectID}
	for _, p := range all {
		if granted[p] {
			report.Granted = append(report.Granted, p)
		} else {
			report.Missing = append(report.Missing, p)
		}
	}
	return report, nil
}

// AWSChecker probes caller identity and simulates the required actions
type AWSChecker struct {
	stsClient *sts.Client
	iamClient *iam.Client
}

func NewAWSChecker(stsClient *sts.Client, iamClient *iam.Client) *AWSChecker {
	return &AWSChecker{stsClient: stsClient, iamClient: iamClient}
}

// Check verifies connectivity and simulates the required action list
// against the caller's principal. Simulation failures (common for
// role-assumed or federated principals) degrade to a connectivity-only
// report rather than an error.
func (c *AWSChecker) Check(ctx context.Context) (Report, error) {
	identity, err := c.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Report{}, fmt.Errorf("AWS connection failed: %v", err)
	}

	report := Report{Target: aws.ToString(identity.Account)}

	resp, err := c.iamClient.SimulatePrincipalPolicy(ctx, &iam.SimulatePrincipalPolicyInput{
		PolicySourceArn: identity.Arn,
		ActionNames:     AWSRequiredActions,
	})
	if err != nil {
		// Can't simulate - assume granted and let checks report errors
		report.Granted = append(report.Granted, AWSRequiredActions...)
		return report, nil
	}

	for _, result := range resp.EvaluationResults {
		action := aws.ToString(result.EvalActionName)
		if result.EvalDecision == iamtypes.PolicyEvaluationDecisionTypeAllowed {
			report.Granted = append(report.Granted, action)
		} else {
			report.Missing = append(report.Missing, action)
		}
	}
	return report, nil
}
