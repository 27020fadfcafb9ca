package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/iam/admin/apiv1"
	"cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/logging/apiv2"
	"cloud.google.com/go/storage"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/sqladmin/v1"

	"github.com/stackaudit/pciscan/pkg/core"
	"github.com/stackaudit/pciscan/pkg/gcp/checks"
	"github.com/stackaudit/pciscan/pkg/mappings"
)

type Scanner struct {
	projectID      string
	storageClient  *storage.Client
	iamClient      *admin.IamClient
	computeService *compute.Service
	sqlService     *sqladmin.Service
	loggingClient  *logging.ConfigClient
	metricsClient  *logging.MetricsClient
	kmsClient      *kms.KeyManagementClient
}

func NewScanner(ctx context.Context, projectID string) (*Scanner, error) {
	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	iamClient, err := admin.NewIamClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create IAM client: %v", err)
	}

	computeService, err := compute.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute service: %v", err)
	}

	sqlService, err := sqladmin.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQL service: %v", err)
	}

	loggingClient, err := logging.NewConfigClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging client: %v", err)
	}

	metricsClient, err := logging.NewMetricsClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics client: %v", err)
	}

	kmsClient, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS client: %v", err)
	}

	return &Scanner{
		projectID:      projectID,
		storageClient:  storageClient,
		iamClient:      iamClient,
		computeService: computeService,
		sqlService:     sqlService,
		loggingClient:  loggingClient,
		metricsClient:  metricsClient,
		kmsClient:      kmsClient,
	}, nil
}

func (s *Scanner) Name() string {
	return "gcp"
}

func (s *Scanner) GetAccountID(ctx context.Context) string {
	return s.projectID
}

// Scan runs all check modules against the project. A nonzero
// requirement restricts output to that requirement area.
func (s *Scanner) Scan(ctx context.Context, requirement int, verbose bool) ([]core.ScanResult, error) {
	// GCP check modules don't carry a Name() method, so pair each
	// with its category label here.
	checkModules := []struct {
		category string
		check    checks.Check
	}{
		{"Cloud Storage Controls", checks.NewStorageChecks(s.storageClient, s.projectID)},
		{"Identity & Access Management", checks.NewIAMChecks(s.iamClient, s.projectID)},
		{"Network Security Controls", checks.NewNetworkChecks(s.computeService, s.projectID)},
		{"Cloud SQL Controls", checks.NewSQLChecks(s.sqlService, s.projectID)},
		{"Logging & Monitoring", checks.NewLoggingChecks(s.loggingClient, s.metricsClient, s.projectID)},
		{"Key Management", checks.NewKMSChecks(s.kmsClient, s.projectID)},
	}

	var results []core.ScanResult

	for _, module := range checkModules {
		if verbose {
			fmt.Printf("  Running %s checks...\n", module.category)
		}

		checkResults, checkErr := module.check.Run(ctx)
		if checkErr != nil && verbose {
			fmt.Printf("    Warning: %v\n", checkErr)
		}

		for _, cr := range checkResults {
			req := mappings.RequirementOf(cr.Control, cr.Frameworks)
			if requirement != 0 && req != requirement {
				continue
			}
			results = append(results, core.ScanResult{
				Control:           cr.Control,
				Name:              cr.Name,
				Category:          module.category,
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
	if s.storageClient != nil {
		s.storageClient.Close()
	}
	if s.iamClient != nil {
		s.iamClient.Close()
	}
	if s.loggingClient != nil {
		s.loggingClient.Close()
	}
	if s.metricsClient != nil {
		s.metricsClient.Close()
	}
	if s.kmsClient != nil {
		s.kmsClient.Close()
	}
	return nil
}
