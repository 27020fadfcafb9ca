package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScope(t *testing.T) {
	t.Parallel()

	t.Run("dedup preserves order", func(t *testing.T) {
		t.Parallel()
		s, err := NewScope("gcp", "", []string{"proj-a", "proj-b", "proj-a", "proj-c", "proj-b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"proj-a", "proj-b", "proj-c"}, s.Targets)
	})

	t.Run("empty strings dropped", func(t *testing.T) {
		t.Parallel()
		s, err := NewScope("aws", "", []string{"", "123456789012", ""})
		require.NoError(t, err)
		assert.Equal(t, []string{"123456789012"}, s.Targets)
	})

	t.Run("empty scope is an error", func(t *testing.T) {
		t.Parallel()
		_, err := NewScope("gcp", "", nil)
		assert.Error(t, err)

		_, err = NewScope("gcp", "", []string{"", ""})
		assert.Error(t, err)
	})

	t.Run("org ID carried through", func(t *testing.T) {
		t.Parallel()
		s, err := NewScope("gcp", "123456789", []string{"proj-a"})
		require.NoError(t, err)
		assert.Equal(t, "123456789", s.OrgID)
		assert.Equal(t, "gcp", s.Provider)
	})
}

func TestDefaultGCPProject(t *testing.T) {
	t.Run("explicit project wins", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
		assert.Equal(t, "my-project", DefaultGCPProject("my-project"))
	})

	t.Run("empty falls back to GOOGLE_CLOUD_PROJECT", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "env-project")
		assert.Equal(t, "env-project", DefaultGCPProject(""))
	})

	t.Run("default falls back to GCP_PROJECT", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		t.Setenv("GCP_PROJECT", "legacy-project")
		assert.Equal(t, "legacy-project", DefaultGCPProject("default"))
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "")
		t.Setenv("GCP_PROJECT", "")
		assert.Equal(t, "", DefaultGCPProject(""))
	})
}
