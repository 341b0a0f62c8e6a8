package oracle

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modernPlatform(t *testing.T) *Platform {
	t.Helper()
	p, err := NewPlatform("14", system.DefaultRuntimeGrantsSince)
	require.NoError(t, err)
	return p
}

func newOracle(t *testing.T, policy system.PolicyConfig, decisions repositories.DecisionRepository) *PolicyOracle {
	t.Helper()
	o, err := NewPolicyOracle(modernPlatform(t), policy, decisions,
		WithOracleLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return o
}

func TestPolicyOracle_Status(t *testing.T) {
	t.Parallel()

	policy := system.PolicyConfig{
		Granted: []string{"INTERNET", "SMS"},
		Revoked: []string{"SMS"},
		Rules: []system.RuleConfig{
			{When: `key startsWith "debug."`, Decision: "granted"},
			{When: `key endsWith ".secret"`, Decision: "revoked"},
		},
	}

	decisions := memory.NewDecisionStore()
	decisions.Record("CAMERA", repositories.DecisionGranted)
	decisions.Record("CONTACTS", repositories.DecisionDenied)
	o := newOracle(t, policy, decisions)

	tests := []struct {
		key      string
		expected ports.KeyStatus
	}{
		{key: "INTERNET", expected: ports.KeyStatus{Granted: true}},
		{key: "SMS", expected: ports.KeyStatus{RevokedByPolicy: true}},
		{key: "debug.trace", expected: ports.KeyStatus{Granted: true}},
		{key: "debug.secret", expected: ports.KeyStatus{RevokedByPolicy: true}},
		{key: "CAMERA", expected: ports.KeyStatus{Granted: true}},
		{key: "CONTACTS", expected: ports.KeyStatus{}},
		{key: "LOCATION", expected: ports.KeyStatus{}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			status, err := o.Status(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestPolicyOracle_LegacyPlatformGrantsEverything(t *testing.T) {
	t.Parallel()

	legacy, err := NewPlatform("5.1", system.DefaultRuntimeGrantsSince)
	require.NoError(t, err)

	o, err := NewPolicyOracle(legacy, system.PolicyConfig{Revoked: []string{"SMS"}}, nil)
	require.NoError(t, err)

	for _, key := range []string{"SMS", "CAMERA"} {
		status, err := o.Status(key)
		require.NoError(t, err)
		assert.Equal(t, ports.KeyStatus{Granted: true}, status, key)
	}
}

func TestPolicyOracle_RuleSeesPlatform(t *testing.T) {
	t.Parallel()

	o := newOracle(t, system.PolicyConfig{
		Rules: []system.RuleConfig{{When: `platform == "14.0.0" && key == "NFC"`, Decision: "granted"}},
	}, nil)

	status, err := o.Status("NFC")
	require.NoError(t, err)
	assert.True(t, status.Granted)
}

func TestNewPolicyOracle_InvalidRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		when string
	}{
		{name: "syntax error", when: `key ==`},
		{name: "not boolean", when: `key + "x"`},
		{name: "unknown variable", when: `user == "root"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewPolicyOracle(modernPlatform(t), system.PolicyConfig{
				Rules: []system.RuleConfig{{When: tt.when, Decision: "granted"}},
			}, nil)

			var cfgErr *apperrors.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "policy", cfgErr.Aspect)
		})
	}
}

func TestPolicyOracle_Detached(t *testing.T) {
	t.Parallel()

	o := newOracle(t, system.PolicyConfig{Granted: []string{"INTERNET"}}, nil)
	o.Detach()

	_, err := o.Status("INTERNET")
	assert.True(t, errors.Is(err, apperrors.ErrHostNotAttached))

	o.Attach()
	status, err := o.Status("INTERNET")
	require.NoError(t, err)
	assert.True(t, status.Granted)
}
