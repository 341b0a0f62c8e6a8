package container

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.True(t, c.Platform().SupportsRuntimeGrants())
	assert.Equal(t, "interactive", c.Config().Prompt.Mode)
	assert.NotNil(t, c.GrantService())
	assert.NotNil(t, c.Coordinator())
	assert.NotNil(t, c.Logger())
}

func TestContainer_RequestEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "flowgrant.yaml", `
platform:
  version: "14"
policy:
  file: grants.yaml
  granted: [INTERNET]
`)
	writeFile(t, dir, "grants.yaml", "revoked: [SMS]\n")

	c, err := New(Options{
		Logger:     quietLogger(),
		ConfigPath: cfgPath,
		In:         strings.NewReader("y\nn\n"),
		Out:        io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SMS"}, c.Config().Policy.Revoked)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := c.GrantService().RequestEach(ctx, "INTERNET", "SMS", "CAMERA", "CONTACTS")
	require.NoError(t, err)
	assert.Equal(t, []grants.Grant{
		grants.New("INTERNET", true, false),
		grants.New("SMS", false, false),
		grants.New("CAMERA", true, false),
		grants.New("CONTACTS", false, true),
	}, list)

	c.Wait()
	assert.Equal(t, repositories.DecisionGranted, c.Decisions().Get("CAMERA"))

	// The session answer is now known to the oracle.
	ok, err := c.GrantService().IsAuthorized("CAMERA")
	require.NoError(t, err)
	assert.True(t, ok)

	explain, err := c.GrantService().ShouldExplainRationale("CONTACTS")
	require.NoError(t, err)
	assert.True(t, explain)

	records, err := c.Batches().List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"CAMERA", "CONTACTS"}, records[0].Batch.Keys)
	assert.True(t, records[0].Resolved)
}

func TestContainer_Overrides(t *testing.T) {
	t.Parallel()

	c, err := New(Options{
		Logger:          quietLogger(),
		PromptMode:      "grant-all",
		PlatformVersion: "5.1",
	})
	require.NoError(t, err)
	assert.False(t, c.Platform().SupportsRuntimeGrants())
	assert.Equal(t, "grant-all", c.Config().Prompt.Mode)

	_, err = New(Options{Logger: quietLogger(), PromptMode: "ask-later"})
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "flags", cfgErr.Aspect)
}

func TestContainer_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "flowgrant.yaml", "prompt:\n  mode: sometimes\n")

	_, err := New(Options{Logger: quietLogger(), ConfigPath: cfgPath})
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "host config", cfgErr.Aspect)
}

func TestContainer_PolicyFileConflict(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "flowgrant.yaml", "policy:\n  file: grants.yaml\n  granted: [SMS]\n")
	writeFile(t, dir, "grants.yaml", "revoked: [SMS]\n")

	_, err := New(Options{Logger: quietLogger(), ConfigPath: cfgPath})
	var cfgErr *apperrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "policy", cfgErr.Aspect)
}

func TestContainer_Close(t *testing.T) {
	t.Parallel()

	c, err := New(Options{Logger: quietLogger(), In: strings.NewReader("")})
	require.NoError(t, err)
	c.Close()

	_, err = c.GrantService().RequestEach(context.Background(), "CAMERA")
	assert.True(t, errors.Is(err, apperrors.ErrHostNotAttached))
}
