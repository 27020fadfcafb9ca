package checks

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/api/iterator"
)

type KMSChecks struct {
	client    *kms.KeyManagementClient
	projectID string
}

func NewKMSChecks(client *kms.KeyManagementClient, projectID string) *KMSChecks {
	return &KMSChecks{
		client:    client,
		projectID: projectID,
	}
}

// Run verifies automatic rotation on crypto keys. Key rings are
// location-scoped, so the common locations are swept.
func (c *KMSChecks) Run(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult

	keysWithoutRotation := []string{}
	totalKeys := 0

	locations := []string{"global", "us", "us-central1", "us-east1", "us-west1", "europe-west1", "asia-east1"}

	for _, location := range locations {
		keyRingIt := c.client.ListKeyRings(ctx, &kmspb.ListKeyRingsRequest{
			Parent: fmt.Sprintf("projects/%s/locations/%s", c.projectID, location),
		})

		for {
			keyRing, err := keyRingIt.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				break
			}

			keyIt := c.client.ListCryptoKeys(ctx, &kmspb.ListCryptoKeysRequest{
				Parent: keyRing.Name,
			})

			for {
				key, err := keyIt.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					break
				}
				if key.Purpose != kmspb.CryptoKey_ENCRYPT_DECRYPT {
					continue
				}
				totalKeys++

				if key.NextRotationTime == nil {
					keysWithoutRotation = append(keysWithoutRotation, key.Name)
				}
			}
		}
	}

	if len(keysWithoutRotation) > 0 {
		displayKeys := keysWithoutRotation
		if len(keysWithoutRotation) > 3 {
			displayKeys = keysWithoutRotation[:3]
		}
		results = append(results, CheckResult{
			Control:  "PCI-3.6.4-gcp",
			Name:     "KMS Key Rotation",
			Status:   "FAIL",
			Severity: "HIGH",
			Evidence: fmt.Sprintf("%d/%d crypto keys without automatic rotation: %v", len(keysWithoutRotation), totalKeys, displayKeys),
			Remediation: "Enable automatic rotation on keys protecting cardholder data",
			RemediationDetail: `gcloud kms keys update KEY_NAME \
  --location=LOCATION \
  --keyring=KEYRING_NAME \
  --rotation-period=90d \
  --next-rotation-time=$(date -d "+90 days" +%Y-%m-%dT%H:%M:%SZ)`,
			Priority:        PriorityHigh,
			ScreenshotGuide: "Security → Key Management → Key → Show rotation period set",
			ConsoleURL:      fmt.Sprintf("https://console.cloud.google.com/security/kms?project=%s", c.projectID),
			Timestamp:       time.Now(),
			Frameworks:      GetFrameworkMappings("KMS_ROTATION"),
		})
	} else if totalKeys > 0 {
		results = append(results, CheckResult{
			Control:    "PCI-3.6.4-gcp",
			Name:       "KMS Key Rotation",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d crypto keys have automatic rotation scheduled", totalKeys),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("KMS_ROTATION"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-3.6.4-gcp",
			Name:       "KMS Key Rotation",
			Status:     "INFO",
			Evidence:   "No crypto keys found in common locations",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("KMS_ROTATION"),
		})
	}

	return results, nil
}
