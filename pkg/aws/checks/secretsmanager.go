package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type SecretsManagerChecks struct {
	client *secretsmanager.Client
}

func NewSecretsManagerChecks(client *secretsmanager.Client) *SecretsManagerChecks {
	return &SecretsManagerChecks{client: client}
}

func (c *SecretsManagerChecks) Name() string {
	return "Secrets Management"
}

func (c *SecretsManagerChecks) Run(ctx context.Context) ([]CheckResult, error) {
	secrets, err := c.client.ListSecrets(ctx, &secretsmanager.ListSecretsInput{})
	if err != nil {
		return []CheckResult{{
			Control:    "PCI-12.3.1",
			Name:       "Secret Rotation",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to list secrets: %v", err),
			Priority:   PriorityMedium,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SECRETS_ROTATION"),
		}}, nil
	}

	if len(secrets.SecretList) == 0 {
		return []CheckResult{{
			Control:    "PCI-12.3.1",
			Name:       "Secret Rotation",
			Status:     "INFO",
			Evidence:   "No secrets in Secrets Manager - verify credentials aren't stored in code or config files",
			Priority:   PriorityLow,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SECRETS_ROTATION"),
		}}, nil
	}

	results := []CheckResult{}

	withoutRotation := []string{}
	defaultKey := []string{}

	for _, secret := range secrets.SecretList {
		name := aws.ToString(secret.Name)
		if secret.RotationEnabled == nil || !*secret.RotationEnabled {
			withoutRotation = append(withoutRotation, name)
		}
		if aws.ToString(secret.KmsKeyId) == "" {
			defaultKey = append(defaultKey, name)
		}
	}

	if len(withoutRotation) > 0 {
		displaySecrets := withoutRotation
		if len(withoutRotation) > 3 {
			displaySecrets = withoutRotation[:3]
		}
		results = append(results, CheckResult{
			Control:           "PCI-12.3.1",
			Name:              "Secret Rotation",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          fmt.Sprintf("%d/%d secrets lack automatic rotation: %v", len(withoutRotation), len(secrets.SecretList), displaySecrets),
			Remediation:       "Enable automatic rotation on application secrets",
			RemediationDetail: "aws secretsmanager rotate-secret --secret-id <name> --rotation-lambda-arn <arn> --rotation-rules AutomaticallyAfterDays=90",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "Secrets Manager → Secret → Rotation → Show rotation enabled",
			ConsoleURL:        "https://console.aws.amazon.com/secretsmanager/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SECRETS_ROTATION"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-12.3.1",
			Name:       "Secret Rotation",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("All %d secrets have automatic rotation enabled", len(secrets.SecretList)),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("SECRETS_ROTATION"),
		})
	}

	if len(defaultKey) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-3.4-secrets",
			Name:              "Secret Encryption Keys",
			Status:            "INFO",
			Evidence:          fmt.Sprintf("%d/%d secrets use the AWS-managed key - customer-managed keys give rotation and access control", len(defaultKey), len(secrets.SecretList)),
			Remediation:       "Use customer-managed KMS keys for CDE secrets",
			RemediationDetail: "aws secretsmanager update-secret --secret-id <name> --kms-key-id <key-arn>",
			Priority:          PriorityLow,
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("SECRETS_ENCRYPTION"),
		})
	}

	return results, nil
}
