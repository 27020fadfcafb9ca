package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
)

type IAMChecks struct {
	client *iam.Client
}

func NewIAMChecks(client *iam.Client) *IAMChecks {
	return &IAMChecks{client: client}
}

func (c *IAMChecks) Name() string {
	return "Identity and Access Management"
}

func (c *IAMChecks) Run(ctx context.Context) ([]CheckResult, error) {
	results := []CheckResult{}

	if result, err := c.CheckRootMFA(ctx); err == nil {
		results = append(results, result)
	}

	if result, err := c.CheckRootAccessKeys(ctx); err == nil {
		results = append(results, result)
	}

	results = append(results, c.CheckPasswordPolicy(ctx)...)

	results = append(results, c.CheckUserAccess(ctx)...)

	if result, err := c.CheckLeastPrivilege(ctx); err == nil {
		results = append(results, result)
	}

	return results, nil
}

func (c *IAMChecks) CheckRootMFA(ctx context.Context) (CheckResult, error) {
	summary, err := c.client.GetAccountSummary(ctx, &iam.GetAccountSummaryInput{})
	if err != nil {
		return CheckResult{
			Control:    "PCI-8.3.1",
			Name:       "Root Account MFA",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to check account summary: %v", err),
			Priority:   PriorityCritical,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("ROOT_MFA"),
		}, err
	}

	if summary.SummaryMap["AccountMFAEnabled"] != 1 {
		return CheckResult{
			Control:           "PCI-8.3.1",
			Name:              "Root Account MFA",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          "Root account has no MFA device - single stolen password compromises the whole account",
			Remediation:       "Enable MFA on the root account right now",
			RemediationDetail: "Sign in as root → Security credentials → Assign MFA device (hardware token preferred)",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Dashboard → Security recommendations → Show root MFA enabled",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/security_credentials",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("ROOT_MFA"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-8.3.1",
		Name:       "Root Account MFA",
		Status:     "PASS",
		Evidence:   "Root account has MFA enabled",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("ROOT_MFA"),
	}, nil
}

func (c *IAMChecks) CheckRootAccessKeys(ctx context.Context) (CheckResult, error) {
	summary, err := c.client.GetAccountSummary(ctx, &iam.GetAccountSummaryInput{})
	if err != nil {
		return CheckResult{}, err
	}

	if summary.SummaryMap["AccountAccessKeysPresent"] != 0 {
		return CheckResult{
			Control:           "PCI-8.3.1-root",
			Name:              "Root Access Keys",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          "Root account has active access keys - programmatic root access cannot be scoped or rotated safely",
			Remediation:       "Delete root access keys",
			RemediationDetail: "Sign in as root → Security credentials → Access keys → Delete; use IAM roles instead",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Dashboard → Show zero root access keys",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/security_credentials",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("ROOT_ACCESS_KEYS"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-8.3.1-root",
		Name:       "Root Access Keys",
		Status:     "PASS",
		Evidence:   "No root access keys exist",
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("ROOT_ACCESS_KEYS"),
	}, nil
}

// CheckPasswordPolicy validates the account password policy against
// the authentication parameters: 90-day rotation, 7+ characters,
// history of 4.
func (c *IAMChecks) CheckPasswordPolicy(ctx context.Context) []CheckResult {
	results := []CheckResult{}

	policy, err := c.client.GetAccountPasswordPolicy(ctx, &iam.GetAccountPasswordPolicyInput{})
	if err != nil {
		return append(results, CheckResult{
			Control:           "PCI-8.2.4",
			Name:              "Password Policy",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          "No password policy configured - 90-day rotation, length, and history requirements unmet",
			Remediation:       "Configure an account password policy",
			RemediationDetail: "aws iam update-account-password-policy --max-password-age 90 --minimum-password-length 7 --password-reuse-prevention 4",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Account settings → Password policy → Show policy configured",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/account_settings",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("PASSWORD_POLICY"),
		})
	}

	maxAge := aws.ToInt32(policy.PasswordPolicy.MaxPasswordAge)
	if maxAge == 0 || maxAge > 90 {
		currentSetting := "never expire"
		if maxAge > 0 {
			currentSetting = fmt.Sprintf("%d days", maxAge)
		}
		results = append(results, CheckResult{
			Control:           "PCI-8.2.4",
			Name:              "90-Day Password Rotation",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("Passwords set to %s - rotation must be 90 days or less", currentSetting),
			Remediation:       "Set password expiry to 90 days maximum",
			RemediationDetail: "aws iam update-account-password-policy --max-password-age 90",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Account settings → Password policy → Show 90 days or less",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/account_settings",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("PASSWORD_POLICY"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-8.2.4",
			Name:       "90-Day Password Rotation",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("Password expiry set to %d days", maxAge),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("PASSWORD_POLICY"),
		})
	}

	minLength := aws.ToInt32(policy.PasswordPolicy.MinimumPasswordLength)
	if minLength < 7 {
		results = append(results, CheckResult{
			Control:           "PCI-8.2.3",
			Name:              "Minimum Password Length",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("Minimum password length is %d characters - 7 or more required", minLength),
			Remediation:       "Set minimum length to 7+ characters",
			RemediationDetail: "aws iam update-account-password-policy --minimum-password-length 7",
			Priority:          PriorityHigh,
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("PASSWORD_POLICY"),
		})
	} else {
		results = append(results, CheckResult{
			Control:    "PCI-8.2.3",
			Name:       "Minimum Password Length",
			Status:     "PASS",
			Evidence:   fmt.Sprintf("Minimum password length is %d characters", minLength),
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("PASSWORD_POLICY"),
		})
	}

	reusePrevent := aws.ToInt32(policy.PasswordPolicy.PasswordReusePrevention)
	if reusePrevent < 4 {
		results = append(results, CheckResult{
			Control:           "PCI-8.2.5",
			Name:              "Password History",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("Password history remembers %d passwords - minimum 4 required", reusePrevent),
			Remediation:       "Set password reuse prevention to 4+",
			RemediationDetail: "aws iam update-account-password-policy --password-reuse-prevention 4",
			Priority:          PriorityHigh,
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("PASSWORD_POLICY"),
		})
	}

	return results
}

// CheckUserAccess sweeps all IAM users for missing MFA, stale access
// keys, and unused credentials.
func (c *IAMChecks) CheckUserAccess(ctx context.Context) []CheckResult {
	results := []CheckResult{}

	users, err := c.client.ListUsers(ctx, &iam.ListUsersInput{})
	if err != nil {
		return append(results, CheckResult{
			Control:    "PCI-8.3.1-users",
			Name:       "MFA for Console Access",
			Status:     "ERROR",
			Evidence:   fmt.Sprintf("Unable to list IAM users: %v", err),
			Priority:   PriorityCritical,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("IAM_USER_MFA"),
		})
	}

	noMFAUsers := []string{}
	oldKeys := []string{}
	staleUsers := []string{}

	for _, user := range users.Users {
		userName := aws.ToString(user.UserName)

		mfaDevices, _ := c.client.ListMFADevices(ctx, &iam.ListMFADevicesInput{
			UserName: aws.String(userName),
		})
		if len(mfaDevices.MFADevices) == 0 {
			// Only console users need MFA devices
			if _, err := c.client.GetLoginProfile(ctx, &iam.GetLoginProfileInput{
				UserName: aws.String(userName),
			}); err == nil {
				noMFAUsers = append(noMFAUsers, userName)
			}
		}

		keys, _ := c.client.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
			UserName: user.UserName,
		})
		for _, key := range keys.AccessKeyMetadata {
			if string(key.Status) == "Active" && key.CreateDate != nil {
				days := int(time.Since(*key.CreateDate).Hours() / 24)
				if days > 90 {
					oldKeys = append(oldKeys, fmt.Sprintf("%s (%d days)", userName, days))
				}
			}
		}

		if user.PasswordLastUsed != nil && time.Since(*user.PasswordLastUsed) > 90*24*time.Hour {
			staleUsers = append(staleUsers, userName)
		}
	}

	if len(noMFAUsers) > 0 {
		displayUsers := noMFAUsers
		if len(noMFAUsers) > 3 {
			displayUsers = noMFAUsers[:3]
		}
		results = append(results, CheckResult{
			Control:           "PCI-8.3.1-users",
			Name:              "MFA for Console Access",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d users with console access lack MFA: %s - MFA is required for ALL access", len(noMFAUsers), strings.Join(displayUsers, ", ")),
			Remediation:       "Enable MFA for every user with console access",
			RemediationDetail: "Every console user needs a registered MFA device, no exceptions",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Users → Show MFA column populated for all console users",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/users",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("IAM_USER_MFA"),
		})
	} else if len(users.Users) > 0 {
		results = append(results, CheckResult{
			Control:    "PCI-8.3.1-users",
			Name:       "MFA for Console Access",
			Status:     "PASS",
			Evidence:   "All users with console access have MFA enabled",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("IAM_USER_MFA"),
		})
	}

	if len(oldKeys) > 0 {
		displayKeys := oldKeys
		if len(oldKeys) > 3 {
			displayKeys = oldKeys[:3]
		}
		results = append(results, CheckResult{
			Control:           "PCI-8.2.4-keys",
			Name:              "90-Day Access Key Rotation",
			Status:            "FAIL",
			Severity:          "CRITICAL",
			Evidence:          fmt.Sprintf("%d access keys older than 90 days: %s", len(oldKeys), strings.Join(displayKeys, ", ")),
			Remediation:       "Rotate access keys every 90 days",
			RemediationDetail: "aws iam create-access-key --user-name <user> && aws iam delete-access-key --access-key-id <old-key>",
			Priority:          PriorityCritical,
			ScreenshotGuide:   "IAM → Users → Security credentials → Show all keys < 90 days old",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/users",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("ACCESS_KEY_ROTATION"),
		})
	} else if len(users.Users) > 0 {
		results = append(results, CheckResult{
			Control:    "PCI-8.2.4-keys",
			Name:       "Access Key Age",
			Status:     "PASS",
			Evidence:   "All active access keys rotated within 90 days",
			Priority:   PriorityInfo,
			Timestamp:  time.Now(),
			Frameworks: GetFrameworkMappings("ACCESS_KEY_ROTATION"),
		})
	}

	if len(staleUsers) > 0 {
		results = append(results, CheckResult{
			Control:           "PCI-8.1.4",
			Name:              "Inactive Account Removal",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d users haven't signed in for 90+ days - inactive accounts must be removed or disabled", len(staleUsers)),
			Remediation:       "Disable or delete accounts unused for 90 days",
			RemediationDetail: "aws iam delete-login-profile --user-name <user>",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "IAM → Users → Console last sign-in → Show no entries older than 90 days",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/users",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("UNUSED_CREDENTIALS"),
		})
	}

	return results
}

// CheckLeastPrivilege counts users carrying admin-level managed
// policies.
func (c *IAMChecks) CheckLeastPrivilege(ctx context.Context) (CheckResult, error) {
	users, err := c.client.ListUsers(ctx, &iam.ListUsersInput{})
	if err != nil {
		return CheckResult{}, err
	}

	usersWithAdmin := []string{}
	for _, user := range users.Users {
		policies, _ := c.client.ListAttachedUserPolicies(ctx, &iam.ListAttachedUserPoliciesInput{
			UserName: user.UserName,
		})
		for _, policy := range policies.AttachedPolicies {
			name := aws.ToString(policy.PolicyName)
			if strings.Contains(name, "AdministratorAccess") || strings.Contains(name, "PowerUser") {
				usersWithAdmin = append(usersWithAdmin, aws.ToString(user.UserName))
				break
			}
		}
	}

	if len(usersWithAdmin) > 2 {
		return CheckResult{
			Control:           "PCI-7.1",
			Name:              "Least Privilege Access",
			Status:            "FAIL",
			Severity:          "HIGH",
			Evidence:          fmt.Sprintf("%d users hold admin or power-user policies - access must be limited to job need", len(usersWithAdmin)),
			Remediation:       "Replace broad policies with task-scoped permissions",
			RemediationDetail: "Review each admin user and attach only the permissions their role requires",
			Priority:          PriorityHigh,
			ScreenshotGuide:   "IAM → Users → Permissions → Show scoped policies, not AdministratorAccess",
			ConsoleURL:        "https://console.aws.amazon.com/iam/home#/users",
			Timestamp:         time.Now(),
			Frameworks:        GetFrameworkMappings("IAM_LEAST_PRIVILEGE"),
		}, nil
	}

	return CheckResult{
		Control:    "PCI-7.1",
		Name:       "Least Privilege Access",
		Status:     "PASS",
		Evidence:   fmt.Sprintf("%d users with admin access (2 or fewer acceptable)", len(usersWithAdmin)),
		Priority:   PriorityInfo,
		Timestamp:  time.Now(),
		Frameworks: GetFrameworkMappings("IAM_LEAST_PRIVILEGE"),
	}, nil
}
