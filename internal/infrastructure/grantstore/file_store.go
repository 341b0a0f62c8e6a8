// Package grantstore reads and writes standalone policy files.
package grantstore

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
)

// FileStore provides file-based persistence for a grant policy.
type FileStore struct {
	path string
}

// NewFileStore creates a new FileStore.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
	}
}

// Path returns the path to the policy file.
func (s *FileStore) Path() string {
	return s.path
}

// policyFile represents the YAML structure of a policy file.
type policyFile struct {
	Granted []string `yaml:"granted"`
	Revoked []string `yaml:"revoked"`
}

// Load reads the policy file.
// If the file does not exist, it returns an empty policy without error.
func (s *FileStore) Load() (system.PolicyConfig, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return system.PolicyConfig{}, nil
	}

	//nolint:gosec // G304: path comes from the host config
	data, err := os.ReadFile(s.path)
	if err != nil {
		return system.PolicyConfig{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return system.PolicyConfig{}, fmt.Errorf("failed to parse policy file %s: %w", s.path, err)
	}

	return system.PolicyConfig{
		Granted: f.Granted,
		Revoked: f.Revoked,
	}, nil
}

// Save writes the granted and revoked lists of policy, sorted.
func (s *FileStore) Save(policy system.PolicyConfig) error {
	dir := filepath.Dir(s.path)
	//nolint:gosec // G301: 0o755 is standard for user config directories
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create policy directory: %w", err)
	}

	f := policyFile{
		Granted: sortedCopy(policy.Granted),
		Revoked: sortedCopy(policy.Revoked),
	}

	data, err := yaml.MarshalWithOptions(f, yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("failed to marshal policy to YAML: %w", err)
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Merge loads the policy file and appends its lists to policy.
// Keys already present are not repeated.
func (s *FileStore) Merge(policy system.PolicyConfig) (system.PolicyConfig, error) {
	loaded, err := s.Load()
	if err != nil {
		return policy, err
	}

	policy.Granted = appendMissing(policy.Granted, loaded.Granted)
	policy.Revoked = appendMissing(policy.Revoked, loaded.Revoked)
	return policy, nil
}

func appendMissing(dst, src []string) []string {
	out := slices.Clone(dst)
	for _, k := range src {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

func sortedCopy(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	slices.Sort(out)
	return out
}
