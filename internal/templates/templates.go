// Package templates provides embedded templates for host config scaffolding.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed config/*.tmpl
var configTemplates embed.FS

// HostConfigName is the template that renders ~/.flowgrant.yaml.
const HostConfigName = "flowgrant.yaml"

// HostConfigData contains the data used to render the host config template.
type HostConfigData struct {
	// PlatformVersion is the host platform version (e.g., "14.0.0")
	PlatformVersion string
	// RuntimeGrantsSince is the semver constraint for runtime grants (e.g., ">= 6.0.0")
	RuntimeGrantsSince string
	// PromptMode is one of interactive, grant-all, deny-all
	PromptMode string
	// PolicyFile optionally references a standalone policy file
	PolicyFile string
	Granted    []string
	Revoked    []string
}

// ConfigTemplates returns the parsed config templates.
func ConfigTemplates() (*template.Template, error) {
	tmpl := template.New("")

	err := fs.WalkDir(configTemplates, "config", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".tmpl") {
			return nil
		}

		content, err := configTemplates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}

		// Use filename without .tmpl as template name
		name := strings.TrimPrefix(path, "config/")
		name = strings.TrimSuffix(name, ".tmpl")

		_, err = tmpl.New(name).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	return tmpl, nil
}

// RenderHostConfig renders the host config template.
func RenderHostConfig(data HostConfigData) ([]byte, error) {
	tmpl, err := ConfigTemplates()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, HostConfigName, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", HostConfigName, err)
	}
	return buf.Bytes(), nil
}
