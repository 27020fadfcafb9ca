package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Checks struct {
	client *s3.Client
}

func NewS3Checks(client *s3.Client) *S3Checks {
	return &S3Checks{client: client}
}

func (c *S3Checks) Name() string {
	return "S3 Bucket Security"
}

func (c *S3Checks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	if result, err := c.CheckPublicAccess(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckEncryption(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckVersioning(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckSecureTransport(ctx); err == nil {
		results = append(results, result)
	}

	return results, nil
}

func (c *S3Checks) CheckPublicAccess(ctx context.Context) (CheckResult, error) {
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-1.3.4",
			Name:       "S3 Public Access Block",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check S3 buckets: %v", err),
			Severity:   "HIGH",
			Priority:   PriorityHigh,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("S3_PUBLIC_ACCESS"),
		}, err
	}

	if len(resp.Buckets) == 0 {
		return CheckResult{
			Control:    "PCI-1.3.4",
			Name:       "S3 Public Access Block",
			Status:     "PASS",
			Evidence:   "No S3 buckets found",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("S3_PUBLIC_ACCESS"),
		}, nil
	}

	publicBuckets := []string{}
	for _, bucket := range resp.Buckets {
		pab, err := c.client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{
			Bucket: bucket.Name,
		})

		isPublic := false
		if err != nil || pab.PublicAccessBlockConfiguration == nil {
			// No public access block configured = potentially public
			isPublic = true
		} else {
			cfg := pab.PublicAccessBlockConfiguration
			if !aws.ToBool(cfg.BlockPublicAcls) ||
				!aws.ToBool(cfg.BlockPublicPolicy) ||
				!aws.ToBool(cfg.IgnorePublicAcls) ||
				!aws.ToBool(cfg.RestrictPublicBuckets) {
				isPublic = true
			}
		}
		if isPublic {
			publicBuckets = append(publicBuckets, aws.ToString(bucket.Name))
		}
	}

	if len(publicBuckets) > 0 {
		displayBuckets := publicBuckets
		if len(publicBuckets) > 3 {
			displayBuckets = publicBuckets[:3]
		}
		return CheckResult{
			Control:           "PCI-1.3.4",
			Name:              "S3 Public Access Block",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d/%d buckets lack full public access blocks: %s", len(publicBuckets), len(resp.Buckets), strings.Join(displayBuckets, ", ")),
			Remediation:       "Enable all four public access block settings on every bucket",
			RemediationDetail: "aws s3api put-public-access-block --bucket <name> --public-access-block-configuration BlockPublicAcls=true,IgnorePublicAcls=true,BlockPublicPolicy=true,RestrictPublicBuckets=true",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "S3 → Bucket → Permissions → Block public access → Show all four settings ON",
			ConsoleURL:        "https://s3.console.aws.amazon.com/s3/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("S3_PUBLIC_ACCESS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-1.3.4",
		Name:       "S3 Public Access Block",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("All %d buckets block public access", len(resp.Buckets)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("S3_PUBLIC_ACCESS"),
	}, nil
}

func (c *S3Checks) CheckEncryption(ctx context.Context) (CheckResult, error) {
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-3.4",
			Name:       "S3 Encryption at Rest",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check S3 buckets: %v", err),
			Priority:   PriorityCritical,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("S3_ENCRYPTION"),
		}, err
	}

	unencrypted := []string{}
	for _, bucket := range resp.Buckets {
		_, err := c.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
			Bucket: bucket.Name,
		})
		if err != nil {
			unencrypted = append(unencrypted, aws.ToString(bucket.Name))
		}
	}

	if len(unencrypted) > 0 {
		displayBuckets := unencrypted
		if len(unencrypted) > 3 {
			displayBuckets = unencrypted[:3]
		}
		return CheckResult{
			Control:           "PCI-3.4",
			Name:              "S3 Encryption at Rest",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d buckets without default encryption: %s - stored cardholder data must be unreadable", len(unencrypted), strings.Join(displayBuckets, ", ")),
			Remediation:       "Enable default encryption on all buckets",
			RemediationDetail: "aws s3api put-bucket-encryption --bucket <name> --server-side-encryption-configuration '{\"Rules\":[{\"ApplyServerSideEncryptionByDefault\":{\"SSEAlgorithm\":\"aws:kms\"}}]}'",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "S3 → Bucket → Properties → Default encryption → Show SSE-KMS enabled",
			ConsoleURL:        "https://s3.console.aws.amazon.com/s3/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("S3_ENCRYPTION"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-3.4",
		Name:       "S3 Encryption at Rest",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("All %d buckets have default encryption enabled", len(resp.Buckets)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("S3_ENCRYPTION"),
	}, nil
}

func (c *S3Checks) CheckVersioning(ctx context.Context) (CheckResult, error) {
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	unversioned := []string{}
	for _, bucket := range resp.Buckets {
		versioning, err := c.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
			Bucket: bucket.Name,
		})
		if err != nil || versioning.Status != "Enabled" {
			unversioned = append(unversioned, aws.ToString(bucket.Name))
		}
	}

	if len(unversioned) > 0 {
		return CheckResult{
			Control:           "PCI-10.5.5",
			Name:              "S3 Versioning",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          fmt.Sprintf("%d/%d buckets without versioning - log and evidence buckets need tamper protection", len(unversioned), len(resp.Buckets)),
			Remediation:       "Enable versioning on log and evidence buckets",
			RemediationDetail: "aws s3api put-bucket-versioning --bucket <name> --versioning-configuration Status=Enabled",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "S3 → Bucket → Properties → Bucket Versioning → Show Enabled",
			ConsoleURL:        "https://s3.console.aws.amazon.com/s3/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("S3_VERSIONING"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-10.5.5",
		Name:       "S3 Versioning",
		Status:     "PASS",
		Evidence:   "All buckets have versioning enabled",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("S3_VERSIONING"),
	}, nil
}

// CheckSecureTransport looks for bucket policies that deny cleartext
// access via the aws:SecureTransport condition.
func (c *S3Checks) CheckSecureTransport(ctx context.Context) (CheckResult, error) {
	resp, err := c.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	withoutSSL := []string{}
	for _, bucket := range resp.Buckets {
		policy, err := c.client.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{
			Bucket: bucket.Name,
		})
		if err != nil || !strings.Contains(aws.ToString(policy.Policy), "aws:SecureTransport") {
			withoutSSL = append(withoutSSL, aws.ToString(bucket.Name))
		}
	}

	if len(withoutSSL) > 0 {
		return CheckResult{
			Control:           "PCI-4.1.1",
			Name:              "S3 Secure Transport",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d/%d buckets don't enforce SSL/TLS on access", len(withoutSSL), len(resp.Buckets)),
			Remediation:       "Add bucket policies denying insecure transport",
			RemediationDetail: "Deny s3:* with condition {\"Bool\": {\"aws:SecureTransport\": \"false\"}}",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "S3 → Bucket → Permissions → Bucket policy → Show SecureTransport condition",
			ConsoleURL:        "https://s3.console.aws.amazon.com/s3/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("S3_SECURE_TRANSPORT"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-4.1.1",
		Name:       "S3 Secure Transport",
		Status:     "PASS",
		Evidence:   "All bucket policies enforce SSL/TLS",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("S3_SECURE_TRANSPORT"),
	}, nil
}
