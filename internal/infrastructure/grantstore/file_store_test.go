package grantstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadAndSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "policy", "grants.yaml")
	store := NewFileStore(path)
	assert.Equal(t, path, store.Path())

	// Loading from a non-existent file returns an empty policy
	policy, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, policy.Granted)
	assert.Empty(t, policy.Revoked)

	err = store.Save(system.PolicyConfig{
		Granted: []string{"INTERNET", "CAMERA"},
		Revoked: []string{"SMS"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	expectedContent := `granted:
  - CAMERA
  - INTERNET
revoked:
  - SMS
`
	assert.Equal(t, expectedContent, string(content))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"CAMERA", "INTERNET"}, loaded.Granted)
	assert.Equal(t, []string{"SMS"}, loaded.Revoked)
}

func TestFileStore_Load_InvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "grants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("granted: [unclosed"), 0o600))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse policy file")
}

func TestFileStore_Merge(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "grants.yaml")
	require.NoError(t, os.WriteFile(path, []byte("granted: [CAMERA, INTERNET]\nrevoked: [SMS]\n"), 0o600))

	base := system.PolicyConfig{
		Granted: []string{"INTERNET"},
		Rules:   []system.RuleConfig{{When: `key == "X"`, Decision: "granted"}},
	}

	merged, err := NewFileStore(path).Merge(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"INTERNET", "CAMERA"}, merged.Granted)
	assert.Equal(t, []string{"SMS"}, merged.Revoked)
	assert.Len(t, merged.Rules, 1)
	assert.Equal(t, []string{"INTERNET"}, base.Granted, "input must not be modified")
}
