package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/backup"
	"github.com/aws/aws-sdk-go-v2/service/cloudtrail"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/configservice"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/guardduty"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/securityhub"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/stackaudit/pciscan/pkg/aws/checks"
	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stackaudit/pciscan/pkg/mappings"
)

type Scanner struct {
	cfg            awssdk.Config
	s3Client       *s3.Client
	iamClient      *iam.Client
	ec2Client      *ec2.Client
	ctClient       *cloudtrail.Client
	stsClient      *sts.Client
	configClient   *configservice.Client
	gdClient       *guardduty.Client
	shClient       *securityhub.Client
	rdsClient      *rds.Client
	cwClient       *cloudwatch.Client
	kmsClient      *kms.Client
	backupClient   *backup.Client
	secretsClient  *secretsmanager.Client
}

func NewScanner(profile string) (*Scanner, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithSharedConfigProfile(profile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	return &Scanner{
		cfg:           cfg,
		s3Client:      s3.NewFromConfig(cfg),
		iamClient:     iam.NewFromConfig(cfg),
		ec2Client:     ec2.NewFromConfig(cfg),
		ctClient:      cloudtrail.NewFromConfig(cfg),
		stsClient:     sts.NewFromConfig(cfg),
		configClient:  configservice.NewFromConfig(cfg),
		gdClient:      guardduty.NewFromConfig(cfg),
		shClient:      securityhub.NewFromConfig(cfg),
		rdsClient:     rds.NewFromConfig(cfg),
		cwClient:      cloudwatch.NewFromConfig(cfg),
		kmsClient:     kms.NewFromConfig(cfg),
		backupClient:  backup.NewFromConfig(cfg),
		secretsClient: secretsmanager.NewFromConfig(cfg),
	}, nil
}

func (s *Scanner) Name() string {
	return "aws"
}

// STSClient exposes the identity client for preflight probes.
func (s *Scanner) STSClient() *sts.Client {
	return s.stsClient
}

// IAMClient exposes the IAM client for preflight probes.
func (s *Scanner) IAMClient() *iam.Client {
	return s.iamClient
}

func (s *Scanner) GetAccountID(ctx context.Context) string {
	identity, err := s.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "unknown"
	}
	return *identity.Account
}

// Scan runs all check modules and returns the results with a PCI DSS
// mapping. A nonzero requirement restricts output to that requirement
// area.
func (s *Scanner) Scan(ctx context.Context, requirement int, verbose bool) ([]core.ScanResult, error) {
	_, err := s.stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("AWS connection failed: %v", err)
	}

	checkModules := []checks.Check{
		checks.NewNetworkChecks(s.ec2Client),
		checks.NewS3Checks(s.s3Client),
		checks.NewIAMChecks(s.iamClient),
		checks.NewRDSChecks(s.rdsClient),
		checks.NewKMSChecks(s.kmsClient),
		checks.NewLoggingChecks(s.ctClient, s.configClient, s.cwClient, s.ec2Client),
		checks.NewSecurityServicesChecks(s.gdClient, s.shClient),
		checks.NewBackupChecks(s.backupClient),
		checks.NewSecretsManagerChecks(s.secretsClient),
		checks.NewManualChecks(),
	}

	var results []core.ScanResult

	for _, check := range checkModules {
		if verbose {
			fmt.Printf("  Running %s...\n", check.Name())
		}

		checkResults, checkErr := check.Run(ctx)
		if checkErr != nil && verbose {
			fmt.Printf("    Warning in %s: %v\n", check.Name(), checkErr)
		}

		for _, cr := range checkResults {
			req := mappings.RequirementOf(cr.Control, cr.Frameworks)
			if requirement != 0 && req != requirement {
				continue
			}
			results = append(results, core.ScanResult{
				Control:           cr.Control,
				Name:              cr.Name,
				Category:          check.Name(),
				Status:            cr.Status,
				Severity:          cr.Severity,
				Evidence:          cr.Evidence,
				Remediation:       cr.Remediation,
				RemediationDetail: cr.RemediationDetail,
				ScreenshotGuide:   cr.ScreenshotGuide,
				ConsoleURL:        cr.ConsoleURL,
				Priority:          cr.Priority.Level,
				Frameworks:        cr.Frameworks,
			})
		}
	}

	return results, nil
}

func (s *Scanner) Close() error {
	return nil
}
