package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"
)

type KMSChecks struct {
	client *kms.Client
}

func NewKMSChecks(client *kms.Client) *KMSChecks {
	return &KMSChecks{client: client}
}

func (c *KMSChecks) Name() string {
	return "Key Management"
}

// Run checks annual rotation on customer-managed keys. Cryptographic
// key rotation is a hard requirement for keys protecting stored
// cardholder data.
func (c *KMSChecks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	withoutRotation := []string{}
	customerKeys := 0

	paginator := kms.NewListKeysPaginator(c.client, &kms.ListKeysInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return []CheckResult{{
				Control:    "PCI-3.6.4",
				Name:       "Encryption Key Rotation",
				Status:     "ERROR",
				Evidence:   fmt.Sprintf("Unable to list KMS keys: %v", err),
				Priority:   PriorityHigh,
				Timestamp:  time.Now(),
				Frameworks: GetFrameworkMappings("KMS_KEY_ROTATION"),
			}}, nil
		}

		for _, key := range page.Keys {
			meta, err := c.client.DescribeKey(ctx, &kms.DescribeKeyInput{
				KeyId: key.KeyId,
			})
			if err != nil || meta.KeyMetadata == nil {
				continue
			}
			// AWS-managed keys rotate automatically
			if meta.KeyMetadata.KeyManager != kmstypes.KeyManagerTypeCustomer {
				continue
			}
			if meta.KeyMetadata.KeyState != kmstypes.KeyStateEnabled {
				continue
			}
			customerKeys++

			rotation, err := c.client.GetKeyRotationStatus(ctx, &kms.GetKeyRotationStatusInput{
				KeyId: key.KeyId,
			})
			if err != nil || !rotation.KeyRotationEnabled {
				withoutRotation = append(withoutRotation, aws.ToString(key.KeyId))
			}
		}
	}

	if customerKeys == 0 {
		results = append(results, CheckResult{
			Control:    "PCI-3.6.4",
			Name:       "Encryption Key Rotation",
			Status:     "PASS",
			Evidence:   "No customer-managed KMS keys found",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("KMS_KEY_ROTATION"),
		})
		return results, nil
	}

	if len(withoutRotation) > 0 {
		displayKeys := withoutRotation
		if len(withoutRotation) > 3 {
			displayKeys = withoutRotation[:3]
		}
		results = append(results, CheckResult{
			Control:           "PCI-3.6.4",
			Name:              "Encryption Key Rotation",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d/%d customer-managed keys without annual rotation: %v", len(withoutRotation), customerKeys, displayKeys),
			Remediation:       "Enable automatic rotation on all customer-managed keys",
			RemediationDetail: "aws kms enable-key-rotation --key-id <key-id>",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "KMS → Customer managed keys → Key rotation → Show rotation enabled",
			ConsoleURL:        "https://console.aws.amazon.com/kms/home#/kms/keys",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("KMS_KEY_ROTATION"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-3.6.4",
			Name:       "Encryption Key Rotation",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d customer-managed keys rotate annually", customerKeys),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("KMS_KEY_ROTATION"),
		})
	}

	return results, nil
}
