package preflight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportComplete(t *testing.T) {
	t.Parallel()

	complete := Report{
		Target:  "my-project",
		Granted: []string{"storage.buckets.list"},
	}
	assert.True(t, complete.Complete())

	incomplete := Report{
		Target:  "my-project",
		Granted: []string{"storage.buckets.list"},
		Missing: []string{"cloudsql.instances.list"},
	}
	assert.False(t, incomplete.Complete())
}

func TestGCPRequiredPermissions(t *testing.T) {
	t.Parallel()

	// Every service the GCP checks touch needs a permission entry
	for _, service := range []string{"storage", "iam", "compute", "sql", "logging", "kms"} {
		perms, ok := GCPRequiredPermissions[service]
		assert.True(t, ok, "no permission list for %s", service)
		assert.NotEmpty(t, perms)
	}
}

func TestAWSRequiredActions(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, AWSRequiredActions)
	for _, action := range AWSRequiredActions {
		assert.Contains(t, action, ":", "action %q is not service-qualified", action)
		// Preflight must stay read-only
		verb := action[strings.Index(action, ":")+1:]
		assert.False(t, strings.HasPrefix(verb, "Put") || strings.HasPrefix(verb, "Delete") || strings.HasPrefix(verb, "Create"),
			"action %q is not read-only", action)
	}
}
