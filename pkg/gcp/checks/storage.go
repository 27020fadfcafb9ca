package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

type StorageChecks struct {
	client    *storage.Client
	projectID string
}

func NewStorageChecks(client *storage.Client, projectID string) *StorageChecks {
	return &StorageChecks{
		client:    client,
		projectID: projectID,
	}
}

func (c *StorageChecks) Run(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult

	results = append(results, c.CheckPublicAccess(ctx)...)
	results = append(results, c.CheckEncryption(ctx)...)
	results = append(results, c.CheckUniformAccess(ctx)...)
	results = append(results, c.CheckVersioning(ctx)...)

	return results, nil
}

// CheckPublicAccess flags buckets granting access to allUsers or
// allAuthenticatedUsers.
func (c *StorageChecks) CheckPublicAccess(ctx context.Context) []CheckResult {
	var results []CheckResult

	publicBuckets := []string{}
	totalBuckets := 0

	it := c.client.Buckets(ctx, c.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return append(results, CheckResult{
				Control:    "PCI-1.3.4",
				Name:       "Storage Bucket Public Access",
				Status:     "ERROR",
				Evidence:   fmt.Sprintf("Unable to list buckets: %v", err),
				Priority:   PriorityHigh,
				Timestamp:  time.Now(),
				Frameworks: GetFrameworkMappings("STORAGE_PUBLIC_ACCESS"),
			})
		}
		totalBuckets++

		policy, err := c.client.Bucket(attrs.Name).IAM().V3().Policy(ctx)
		if err != nil {
			continue
		}

		for _, binding := range policy.Bindings {
			for _, member := range binding.Members {
				if member == "allUsers" || member == "allAuthenticatedUsers" {
					publicBuckets = append(publicBuckets, attrs.Name)
				}
			}
		}
	}

	if len(publicBuckets) > 0 {
		displayBuckets := publicBuckets
		if len(publicBuckets) > 3 {
			displayBuckets = publicBuckets[:3]
		}
		results = append(results, CheckResult{
			Control:  "PCI-1.3.4",
			Name:     "Storage Bucket Public Access",
			Status:   "FAIL",
			Severity: "CRITICAL",
			Evidence: fmt.Sprintf("%d/%d buckets publicly accessible: %s", len(publicBuckets), totalBuckets, strings.Join(displayBuckets, ", ")),
			Remediation: "Remove allUsers and allAuthenticatedUsers from bucket IAM policies",
			RemediationDetail: `gsutil iam ch -d allUsers gs://BUCKET_NAME
gsutil iam ch -d allAuthenticatedUsers gs://BUCKET_NAME`,
			Priority:        PriorityCritical,
			ScreenshotGuide: "Storage → Buckets → Permissions → Show no allUsers bindings",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/storage/browser?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("STORAGE_PUBLIC_ACCESS"),
		})
	} else if totalBuckets > 0 {
		results = append(results, CheckResult{
			Control:    "PCI-1.3.4",
			Name:       "Storage Bucket Public Access",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("None of %d buckets grant public access", totalBuckets),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("STORAGE_PUBLIC_ACCESS"),
		})
	}

	return results
}

// CheckEncryption reports buckets without a customer-managed default
// key. Google-managed encryption passes Requirement 3.4 but CMEK is
// needed for key rotation control.
func (c *StorageChecks) CheckEncryption(ctx context.Context) []CheckResult {
	var results []CheckResult

	googleManaged := []string{}
	totalBuckets := 0

	it := c.client.Buckets(ctx, c.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			break
		}
		totalBuckets++

		if attrs.Encryption == nil || attrs.Encryption.DefaultKMSKeyName == "" {
			googleManaged = append(googleManaged, attrs.Name)
		}
	}

	if totalBuckets == 0 {
		return results
	}

	if len(googleManaged) > 0 {
		results = append(results, CheckResult{
			Control:  "PCI-3.5",
			Name:     "Storage Customer-Managed Encryption",
			Status:   "INFO",
			Evidence: fmt.Sprintf("%d/%d buckets use Google-managed keys - CMEK gives you rotation and revocation control over stored cardholder data", len(googleManaged), totalBuckets),
			Remediation: "Configure a customer-managed default key on CDE buckets",
			RemediationDetail: `gsutil kms encryption -k projects/PROJECT/locations/LOCATION/keyRings/RING/cryptoKeys/KEY gs://BUCKET_NAME`,
			Priority:        PriorityLow,
			ScreenshotGuide: "Storage → Bucket → Configuration → Encryption → Show customer-managed key",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/storage/browser?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("STORAGE_CMEK"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-3.5",
			Name:       "Storage Customer-Managed Encryption",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d buckets use customer-managed encryption keys", totalBuckets),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("STORAGE_CMEK"),
		})
	}

	return results
}

// CheckUniformAccess verifies uniform bucket-level access so ACLs
// can't bypass IAM.
func (c *StorageChecks) CheckUniformAccess(ctx context.Context) []CheckResult {
	var results []CheckResult

	nonUniform := []string{}
	totalBuckets := 0

	it := c.client.Buckets(ctx, c.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			break
		}
		totalBuckets++

		if !attrs.UniformBucketLevelAccess.Enabled {
			nonUniform = append(nonUniform, attrs.Name)
		}
	}

	if totalBuckets == 0 {
		return results
	}

	if len(nonUniform) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-7.1-storage",
			Name:              "Uniform Bucket-Level Access",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          fmt.Sprintf("%d/%d buckets allow object ACLs alongside IAM: %v", len(nonUniform), totalBuckets, nonUniform),
			Remediation:       "Enable uniform bucket-level access",
			RemediationDetail: "gsutil uniformbucketlevelaccess set on gs://BUCKET_NAME",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "Storage → Bucket → Permissions → Show uniform access enabled",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/storage/browser?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("STORAGE_UNIFORM_ACCESS"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-7.1-storage",
			Name:       "Uniform Bucket-Level Access",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d buckets enforce uniform bucket-level access", totalBuckets),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("STORAGE_UNIFORM_ACCESS"),
		})
	}

	return results
}

// CheckVersioning verifies versioning on buckets holding logs or
// evidence.
func (c *StorageChecks) CheckVersioning(ctx context.Context) []CheckResult {
	var results []CheckResult

	unversioned := []string{}
	totalBuckets := 0

	it := c.client.Buckets(ctx, c.projectID)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			break
		}
		totalBuckets++

		if !attrs.VersioningEnabled {
			unversioned = append(unversioned, attrs.Name)
		}
	}

	if totalBuckets == 0 {
		return results
	}

	if len(unversioned) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-10.5.5-storage",
			Name:              "Storage Bucket Versioning",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          fmt.Sprintf("%d/%d buckets without versioning - audit log buckets need tamper protection", len(unversioned), totalBuckets),
			Remediation:       "Enable versioning on log and evidence buckets",
			RemediationDetail: "gsutil versioning set on gs://BUCKET_NAME",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "Storage → Bucket → Protection → Show versioning enabled",
			ConsoleURL:        fmt.Sprintf("https://console.cloud.google.com/storage/browser?project=%s", c.projectID),
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("STORAGE_VERSIONING"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-10.5.5-storage",
			Name:       "Storage Bucket Versioning",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d buckets have versioning enabled", totalBuckets),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("STORAGE_VERSIONING"),
		})
	}

	return results
}
