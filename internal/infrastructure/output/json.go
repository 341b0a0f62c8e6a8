package output

import (
	"encoding/json"
	"io"

	"github.com/reglet-dev/flowgrant/internal/application/dto"
)

// JSONFormatter formats results as JSON.
type JSONFormatter struct {
	writer io.Writer
	indent bool
}

// NewJSONFormatter creates a new JSON formatter.
// If indent is true, the output will be pretty-printed with indentation.
func NewJSONFormatter(w io.Writer, indent bool) *JSONFormatter {
	return &JSONFormatter{
		writer: w,
		indent: indent,
	}
}

// FormatGrants writes the grant response as JSON.
func (f *JSONFormatter) FormatGrants(resp *dto.GrantResponse) error {
	return f.write(resp)
}

// FormatStatus writes the key statuses as JSON.
func (f *JSONFormatter) FormatStatus(statuses []dto.StatusResponse) error {
	return f.write(statuses)
}

func (f *JSONFormatter) write(v any) error {
	encoder := json.NewEncoder(f.writer)
	if f.indent {
		encoder.SetIndent("", "  ")
	}
	// Encode adds the trailing newline
	return encoder.Encode(v)
}
