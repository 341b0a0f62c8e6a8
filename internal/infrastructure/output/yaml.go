package output

import (
	"io"

	"github.com/goccy/go-yaml"
	"github.com/reglet-dev/flowgrant/internal/application/dto"
)

// YAMLFormatter formats results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// FormatGrants writes the grant response as YAML.
func (f *YAMLFormatter) FormatGrants(resp *dto.GrantResponse) error {
	return f.write(resp)
}

// FormatStatus writes the key statuses as YAML.
func (f *YAMLFormatter) FormatStatus(statuses []dto.StatusResponse) error {
	return f.write(statuses)
}

func (f *YAMLFormatter) write(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}
