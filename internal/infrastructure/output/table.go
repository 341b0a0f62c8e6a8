package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/reglet-dev/flowgrant/internal/application/dto"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats results as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// FormatGrants writes the grant response as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) FormatGrants(resp *dto.GrantResponse) error {
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 60), colorGray))
	fmt.Fprintf(f.writer, "Mode: %s\n", f.colorize(string(resp.Mode), colorBold))
	if resp.Metadata.RequestID != "" {
		fmt.Fprintf(f.writer, "Request: %s\n", resp.Metadata.RequestID)
	}
	fmt.Fprintf(f.writer, "Duration: %s\n", resp.Metadata.Duration.Round(time.Millisecond))
	fmt.Fprintln(f.writer)

	for _, caller := range resp.Callers {
		f.formatCaller(caller, len(resp.Callers) > 1)
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 60), colorGray))
	f.formatDiagnostics(resp.Diagnostics)

	return nil
}

// formatCaller formats what one caller received.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatCaller(caller dto.CallerResult, numbered bool) {
	if numbered {
		fmt.Fprintf(f.writer, "%s\n", f.colorize(fmt.Sprintf("Caller %d:", caller.Caller), colorCyan))
	}

	for _, g := range caller.Grants {
		symbol, color := f.grantInfo(g.Authorized)
		line := fmt.Sprintf("  %s %s", f.colorize(symbol, color), g.Key)
		if g.CanExplainRationale {
			line += " " + f.colorize("(rationale available)", colorYellow)
		}
		fmt.Fprintln(f.writer, line)
	}

	_, color := f.grantInfo(caller.Authorized)
	verdict := "DENIED"
	if caller.Authorized {
		verdict = "AUTHORIZED"
	}
	fmt.Fprintf(f.writer, "  Result: %s\n\n", f.colorize(verdict, color))
}

// formatDiagnostics lists the prompts that were shown.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatDiagnostics(d dto.Diagnostics) {
	switch len(d.Batches) {
	case 0:
		fmt.Fprintln(f.writer, "No prompt shown.")
	case 1:
		fmt.Fprintln(f.writer, "1 prompt shown:")
	default:
		fmt.Fprintf(f.writer, "%d prompts shown:\n", len(d.Batches))
	}
	for _, b := range d.Batches {
		fmt.Fprintf(f.writer, "  %s %s\n", f.colorize(b.ID, colorGray), strings.Join(b.Keys, ", "))
	}
	for _, w := range d.Warnings {
		fmt.Fprintf(f.writer, "%s %s\n", f.colorize("warning:", colorYellow), w)
	}
}

// FormatStatus writes one line per key.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatStatus(statuses []dto.StatusResponse) error {
	for _, s := range statuses {
		var state, color string
		switch {
		case s.Authorized:
			state, color = "granted", colorGreen
		case s.RevokedByPolicy:
			state, color = "revoked by policy", colorRed
		default:
			state, color = "not granted", colorYellow
		}
		line := fmt.Sprintf("%-32s %s", s.Key, f.colorize(state, color))
		if s.CanExplainRationale {
			line += " (rationale available)"
		}
		fmt.Fprintln(f.writer, line)
	}
	return nil
}

func (f *TableFormatter) grantInfo(authorized bool) (string, string) {
	if authorized {
		return "✓", colorGreen
	}
	return "✗", colorRed
}
