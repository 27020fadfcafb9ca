// Package scope enumerates the projects/accounts an assessment run
// covers: a single explicit target, or every active member of a GCP
// organization / AWS organization.
package scope

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgtypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	crm "google.golang.org/api/cloudresourcemanager/v1"
)

// Scope is the resolved set of assessment targets for one provider
type Scope struct {
	Provider string   `json:"provider"`
	OrgID    string   `json:"org_id,omitempty"`
	Targets  []string `json:"targets"`
}

// Resolver enumerates scope targets from the cloud provider APIs
type Resolver struct {
	gcpProjects *crm.Service
	awsOrg      *organizations.Client
	awsSTS      *sts.Client
}

// NewGCPResolver builds a resolver backed by Cloud Resource Manager
func NewGCPResolver(ctx context.Context) (*Resolver, error) {
	svc, err := crm.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource manager service: %v", err)
	}
	return &Resolver{gcpProjects: svc}, nil
}

// NewAWSResolver builds a resolver backed by Organizations and STS
func NewAWSResolver(ctx context.Context, profile string) (*Resolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(profile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}
	return &Resolver{
		awsOrg: organizations.NewFromConfig(cfg),
		awsSTS: sts.NewFromConfig(cfg),
	}, nil
}

// ResolveGCP returns the projects in scope. With an orgID, every
// ACTIVE project under the organization is included; otherwise the
// explicit project (or GOOGLE_CLOUD_PROJECT/GCP_PROJECT) is used.
func (r *Resolver) ResolveGCP(ctx context.Context, projectID, orgID string) (Scope, error) {
	if orgID != "" {
		var targets []string
		call := r.gcpProjects.Projects.List().
			Filter(fmt.Sprintf("parent.type:organization parent.id:%s", orgID))
		err := call.Pages(ctx, func(resp *crm.ListProjectsResponse) error {
			for _, p := range resp.Projects {
				if p.LifecycleState == "ACTIVE" {
					targets = append(targets, p.ProjectId)
				}
			}
			return nil
		})
		if err != nil {
			return Scope{}, fmt.Errorf("failed to list projects for organization %s: %v", orgID, err)
		}
		return NewScope("gcp", orgID, targets)
	}

	projectID = DefaultGCPProject(projectID)
	if projectID == "" {
		return Scope{}, fmt.Errorf("no GCP project specified: use -project or set GOOGLE_CLOUD_PROJECT")
	}
	return NewScope("gcp", "", []string{projectID})
}

// ResolveAWS returns the accounts in scope. With org enumeration
// enabled, every ACTIVE account in the AWS Organization is included;
// otherwise only the caller's account.
func (r *Resolver) ResolveAWS(ctx context.Context, wholeOrg bool) (Scope, error) {
	if wholeOrg {
		var targets []string
		paginator := organizations.NewListAccountsPaginator(r.awsOrg, &organizations.ListAccountsInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return Scope{}, fmt.Errorf("failed to list organization accounts: %v", err)
			}
			for _, acct := range page.Accounts {
				if acct.Status == orgtypes.AccountStatusActive && acct.Id != nil {
					targets = append(targets, *acct.Id)
				}
			}
		}
		return NewScope("aws", "", targets)
	}

	identity, err := r.awsSTS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Scope{}, fmt.Errorf("failed to resolve caller identity: %v", err)
	}
	return NewScope("aws", "", []string{*identity.Account})
}

// NewScope validates and normalizes a target list. Duplicates are
// dropped, first occurrence wins. An empty list is an error.
func NewScope(provider, orgID string, targets []string) (Scope, error) {
	seen := make(map[string]bool, len(targets))
	var deduped []string
	for _, t := range targets {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		deduped = append(deduped, t)
	}
	if len(deduped) == 0 {
		return Scope{}, fmt.Errorf("assessment scope for %s is empty", provider)
	}
	return Scope{Provider: provider, OrgID: orgID, Targets: deduped}, nil
}

// DefaultGCPProject applies the environment fallbacks for a project
// flag value of "" or "default"
func DefaultGCPProject(projectID string) string {
	if projectID == "" || projectID == "default" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			projectID = os.Getenv("GCP_PROJECT")
		}
	}
	return projectID
}
