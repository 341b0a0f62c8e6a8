package templates

import (
	"testing"

	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigTemplates_Load(t *testing.T) {
	t.Parallel()

	tmpl, err := ConfigTemplates()

	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup(HostConfigName), "template %s should be loaded", HostConfigName)
}

func TestRenderHostConfig_ParsesBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data HostConfigData
	}{
		{
			name: "empty lists",
			data: HostConfigData{
				PlatformVersion:    system.DefaultPlatformVersion,
				RuntimeGrantsSince: system.DefaultRuntimeGrantsSince,
				PromptMode:         "interactive",
			},
		},
		{
			name: "populated",
			data: HostConfigData{
				PlatformVersion:    "13",
				RuntimeGrantsSince: ">= 6.0.0",
				PromptMode:         "deny-all",
				PolicyFile:         "grants.yaml",
				Granted:            []string{"INTERNET", "CAMERA"},
				Revoked:            []string{"SMS"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := RenderHostConfig(tt.data)
			require.NoError(t, err)

			cfg, err := system.NewConfigLoader().Parse(out)
			require.NoError(t, err, string(out))

			assert.Equal(t, tt.data.PlatformVersion, cfg.Platform.Version)
			assert.Equal(t, tt.data.RuntimeGrantsSince, cfg.Platform.RuntimeGrantsSince)
			assert.Equal(t, tt.data.PromptMode, cfg.Prompt.Mode)
			assert.Equal(t, tt.data.PolicyFile, cfg.Policy.File)
			assert.ElementsMatch(t, tt.data.Granted, cfg.Policy.Granted)
			assert.ElementsMatch(t, tt.data.Revoked, cfg.Policy.Revoked)
		})
	}
}
