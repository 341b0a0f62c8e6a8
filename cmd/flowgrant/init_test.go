package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/reglet-dev/flowgrant/internal/templates"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHostConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", ".flowgrant.yaml")
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := writeHostConfig(cmd, path, templates.HostConfigData{
		PlatformVersion:    "14",
		RuntimeGrantsSince: system.DefaultRuntimeGrantsSince,
		PromptMode:         "grant-all",
		Granted:            []string{"INTERNET"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "wrote "+path)

	cfg, err := system.NewConfigLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, system.PromptModeGrantAll, cfg.Prompt.GetPromptMode())
	assert.Equal(t, []string{"INTERNET"}, cfg.Policy.Granted)
}

func TestWriteHostConfig_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".flowgrant.yaml")
	err := writeHostConfig(&cobra.Command{}, path, templates.HostConfigData{
		PlatformVersion:    "14",
		RuntimeGrantsSince: system.DefaultRuntimeGrantsSince,
		PromptMode:         "sometimes",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generated config is invalid")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitOutputPath(t *testing.T) {
	t.Parallel()

	path, err := initOutputPath("custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", path)
}
