package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/backup"
)

type BackupChecks struct {
	client *backup.Client
}

func NewBackupChecks(client *backup.Client) *BackupChecks {
	return &BackupChecks{client: client}
}

func (c *BackupChecks) Name() string {
	return "Backup and Recovery"
}

func (c *BackupChecks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	if result, err := c.CheckBackupPlans(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckVaultEncryption(ctx); err == nil {
		results = append(results, result)
	}

	return results, nil
}

func (c *BackupChecks) CheckBackupPlans(ctx context.Context) (CheckResult, error) {
	plans, err := c.client.ListBackupPlans(ctx, &backup.ListBackupPlansInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-9.5.1",
			Name:       "Backup Plans",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check backup plans: %v", err),
			Priority:   PriorityMedium,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("BACKUP_PLAN_EXISTS"),
		}, nil
	}

	if len(plans.BackupPlansList) == 0 {
		return CheckResult{
			Control:           "PCI-9.5.1",
			Name:              "Backup Plans",
			Status:            "FAIL",
			Severity:          "MEDIUM",
			Evidence:          "No AWS Backup plans configured - media with cardholder data needs managed backups",
			Remediation:       "Create a backup plan covering CDE resources",
			RemediationDetail: "AWS Backup → Backup plans → Create plan; assign RDS, EBS, and S3 resources",
			Priority:          PriorityMedium,
			ScreenshotGuide:   "AWS Backup → Backup plans → Show plan with resource assignments",
			ConsoleURL:        "https://console.aws.amazon.com/backup/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("BACKUP_PLAN_EXISTS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-9.5.1",
		Name:       "Backup Plans",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("%d backup plan(s) configured", len(plans.BackupPlansList)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("BACKUP_PLAN_EXISTS"),
	}, nil
}

func (c *BackupChecks) CheckVaultEncryption(ctx context.Context) (CheckResult, error) {
	vaults, err := c.client.ListBackupVaults(ctx, &backup.ListBackupVaultsInput{})
	if err != nil {
		return CheckResult{}, err
	}

	if len(vaults.BackupVaultList) == 0 {
		return CheckResult{
			Control:    "PCI-3.4-backup",
			Name:       "Backup Vault Encryption",
			Status:     "PASS",
			Evidence:   "No backup vaults found",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("BACKUP_VAULT_ENCRYPTION"),
		}, nil
	}

	unencrypted := []string{}
	for _, vault := range vaults.BackupVaultList {
		if aws.ToString(vault.EncryptionKeyArn) == "" {
			unencrypted = append(unencrypted, aws.ToString(vault.BackupVaultName))
		}
	}

	if len(unencrypted) > 0 {
		return CheckResult{
			Control:           "PCI-3.4-backup",
			Name:              "Backup Vault Encryption",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d/%d backup vaults lack KMS encryption: %v", len(unencrypted), len(vaults.BackupVaultList), unencrypted),
			Remediation:       "Recreate vaults with a KMS encryption key",
			RemediationDetail: "Vault encryption cannot be changed after creation; create a new encrypted vault and migrate recovery points",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "AWS Backup → Backup vaults → Show encryption key assigned",
			ConsoleURL:        "https://console.aws.amazon.com/backup/",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("BACKUP_VAULT_ENCRYPTION"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-3.4-backup",
		Name:       "Backup Vault Encryption",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("All %d backup vaults use KMS encryption", len(vaults.BackupVaultList)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("BACKUP_VAULT_ENCRYPTION"),
	}, nil
}
