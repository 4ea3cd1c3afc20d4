package analytics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writePolicy(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileSystemPolicyRepository_LoadsOverrides(t *testing.T) {
	dir := t.TempDir()
	writePolicy(t, dir, "acme.yaml", `
tenant_id: "acme"
velocity_threshold: 3.5
recency_window: "3d"
lookback_days: 30
`)
	writePolicy(t, dir, "globex.yml", `
tenant_id: "globex"
scheduled: false
`)
	writePolicy(t, dir, "notes.txt", "ignored")
	writePolicy(t, dir, "empty.yaml", "# nothing here\n")

	repo, err := NewFileSystemPolicyRepository(dir, DefaultPolicy())
	require.NoError(t, err)
	require.Equal(t, 2, repo.Len())

	acme := repo.For("acme")
	require.Equal(t, 3.5, acme.VelocityThreshold)
	require.Equal(t, 72*time.Hour, acme.RecencyWindow)
	require.Equal(t, 30, acme.LookbackDays)

	globex := repo.For("globex")
	require.Equal(t, DefaultPolicy(), globex)

	require.Equal(t, DefaultPolicy(), repo.For("unknown"))
	require.Equal(t, []string{"acme"}, repo.ScheduledTenants())
	require.True(t, repo.Scheduled("acme"))
	require.False(t, repo.Scheduled("globex"))
	require.True(t, repo.Scheduled("unknown"))
}

func TestFileSystemPolicyRepository_MissingDirIsEmpty(t *testing.T) {
	repo, err := NewFileSystemPolicyRepository(filepath.Join(t.TempDir(), "absent"), DefaultPolicy())
	require.NoError(t, err)
	require.Equal(t, 0, repo.Len())
	require.Empty(t, repo.ScheduledTenants())
}

func TestFileSystemPolicyRepository_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{name: "duplicate tenant", files: map[string]string{
			"a.yaml": "tenant_id: acme\n",
			"b.yaml": "tenant_id: acme\n",
		}},
		{name: "bad recency window", files: map[string]string{"a.yaml": "tenant_id: acme\nrecency_window: soon\n"}},
		{name: "non-positive lookback", files: map[string]string{"a.yaml": "tenant_id: acme\nlookback_days: 0\n"}},
		{name: "negative threshold", files: map[string]string{"a.yaml": "tenant_id: acme\nvelocity_threshold: -1\n"}},
		{name: "malformed yaml", files: map[string]string{"a.yaml": "tenant_id: [acme\n"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tc.files {
				writePolicy(t, dir, name, body)
			}
			_, err := NewFileSystemPolicyRepository(dir, DefaultPolicy())
			require.Error(t, err)
		})
	}
}

func TestStaticPolicy(t *testing.T) {
	p := Policy{VelocityThreshold: 1, RecencyWindow: time.Hour, LookbackDays: 7}
	require.Equal(t, p, StaticPolicy(p).For("any"))
}
