// Package prompter shows grant prompts on a terminal and reports the answers
// back to the coordinator.
package prompter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/huh"
	apperrors "github.com/reglet-dev/flowgrant/internal/application/errors"
	"github.com/reglet-dev/flowgrant/internal/application/ports"
	"github.com/reglet-dev/flowgrant/internal/domain/grants"
	"github.com/reglet-dev/flowgrant/internal/domain/repositories"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/flowgrant/internal/infrastructure/system"
)

// Ensure interface compliance
var (
	_ ports.PromptInvoker  = (*TerminalPrompter)(nil)
	_ ports.RationaleProbe = (*TerminalPrompter)(nil)
)

const (
	answerAllow = "allow"
	answerDeny  = "deny"
	answerNever = "never"
)

// TerminalPrompter asks the user about each key of a batch, one batch at a time.
type TerminalPrompter struct {
	in        io.Reader
	reader    *bufio.Reader
	out       io.Writer
	decisions repositories.DecisionRepository
	logger    *slog.Logger
	mode      system.PromptMode
	tty       bool

	// mu keeps concurrent batches from interleaving on the terminal.
	mu       sync.Mutex
	inflight sync.WaitGroup
	detached atomic.Bool
}

// Option configures a TerminalPrompter.
type Option func(*TerminalPrompter)

// WithMode sets how prompts are answered.
func WithMode(mode system.PromptMode) Option {
	return func(p *TerminalPrompter) {
		p.mode = mode
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *TerminalPrompter) {
		p.logger = logger
	}
}

// WithTTY forces the full-screen prompt on or off.
func WithTTY(tty bool) Option {
	return func(p *TerminalPrompter) {
		p.tty = tty
	}
}

// NewTerminalPrompter creates a prompter reading answers from in and
// writing prompts to out. Answers are recorded in decisions.
func NewTerminalPrompter(in io.Reader, out io.Writer, decisions repositories.DecisionRepository, opts ...Option) *TerminalPrompter {
	if decisions == nil {
		decisions = memory.NewDecisionStore()
	}
	if out == nil {
		out = io.Discard
	}

	p := &TerminalPrompter{
		in:        in,
		out:       out,
		decisions: decisions,
		logger:    slog.Default(),
		mode:      system.PromptModeInteractive,
		tty:       isTerminal(in),
	}
	if in != nil {
		p.reader = bufio.NewReader(in)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsInteractive reports whether answers come from a terminal.
func (p *TerminalPrompter) IsInteractive() bool {
	return p.tty
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	// Character device (terminal), not a pipe or file
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Show starts asking about the batch and returns immediately. The answers
// are delivered to sink once every key has one.
func (p *TerminalPrompter) Show(_ context.Context, batch grants.PromptBatch, sink ports.ResultSink) error {
	if p.detached.Load() {
		return apperrors.NewHostNotAttachedError("show prompt", batch.Keys, nil)
	}
	if p.mode == system.PromptModeInteractive && p.reader == nil {
		return apperrors.NewHostNotAttachedError("show prompt", batch.Keys, p.FormatNonInteractiveError(batch.Keys))
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()

		outcomes := p.answer(batch)
		event := grants.NewResultEvent(batch, outcomes)
		if err := sink.Dispatch(event); err != nil {
			p.logger.Error("delivering prompt result", "batch", batch.ID.String(), "error", err)
		}
	}()
	return nil
}

// Wait blocks until every started prompt has delivered its result.
func (p *TerminalPrompter) Wait() {
	p.inflight.Wait()
}

// CanExplainRationale is true for keys the user denied without asking
// never to be asked again.
func (p *TerminalPrompter) CanExplainRationale(key string) (bool, error) {
	if p.detached.Load() {
		return false, apperrors.NewHostNotAttachedError("rationale", []string{key}, nil)
	}
	return p.decisions.Get(key) == repositories.DecisionDenied, nil
}

// Detach makes later Show and CanExplainRationale calls fail with
// ErrHostNotAttached. Prompts already started still deliver.
func (p *TerminalPrompter) Detach() {
	p.detached.Store(true)
}

// Attach undoes Detach.
func (p *TerminalPrompter) Attach() {
	p.detached.Store(false)
}

func (p *TerminalPrompter) answer(batch grants.PromptBatch) []grants.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mode == system.PromptModeInteractive {
		fmt.Fprintf(p.out, "\nPermissions requested:\n")
		for _, key := range batch.Keys {
			fmt.Fprintf(p.out, "  - %s\n", describeKey(key))
		}
	}

	outcomes := make([]grants.Outcome, len(batch.Keys))
	for i, key := range batch.Keys {
		if p.decisions.Get(key) == repositories.DecisionDeniedPermanently {
			p.logger.Debug("key denied permanently, not asking", "key", key)
			continue
		}

		decision := p.ask(key)
		p.decisions.Record(key, decision)
		outcomes[i] = grants.Outcome{
			Granted:             decision == repositories.DecisionGranted,
			CanExplainRationale: decision == repositories.DecisionDenied,
		}
	}
	return outcomes
}

func (p *TerminalPrompter) ask(key string) repositories.Decision {
	switch p.mode {
	case system.PromptModeGrantAll:
		return repositories.DecisionGranted
	case system.PromptModeDenyAll:
		return repositories.DecisionDenied
	}

	if p.tty {
		return p.askForm(key)
	}
	return p.askLine(key)
}

func (p *TerminalPrompter) askForm(key string) repositories.Decision {
	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Allow %s?", describeKey(key))).
			Options(
				huh.NewOption("Allow", answerAllow),
				huh.NewOption("Deny", answerDeny),
				huh.NewOption("Deny and don't ask again", answerNever),
			).
			Value(&choice),
	)).WithInput(p.in).WithOutput(p.out).Run()
	if err != nil {
		if !errors.Is(err, huh.ErrUserAborted) {
			p.logger.Warn("prompt failed, denying", "key", key, "error", err)
		}
		return repositories.DecisionDenied
	}
	return parseAnswer(choice)
}

func (p *TerminalPrompter) askLine(key string) repositories.Decision {
	fmt.Fprintf(p.out, "Allow %s? [y/N/never]: ", key)

	response, err := p.reader.ReadString('\n')
	if err != nil && response == "" {
		// On error (EOF, etc), treat as "no"
		return repositories.DecisionDenied
	}
	return parseAnswer(response)
}

func parseAnswer(response string) repositories.Decision {
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "y", "yes", answerAllow:
		return repositories.DecisionGranted
	case answerNever:
		return repositories.DecisionDeniedPermanently
	default:
		// Empty response (just Enter) and anything unknown count as "no"
		return repositories.DecisionDenied
	}
}

// describeKey returns a human-readable name for a key.
// Namespaced keys such as "android.permission.CAMERA" show their last segment first.
func describeKey(key string) string {
	i := strings.LastIndex(key, ".")
	if i <= 0 || i == len(key)-1 {
		return key
	}
	return fmt.Sprintf("%s (%s)", key[i+1:], key)
}

// FormatNonInteractiveError creates a helpful error message for hosts with no input.
func (p *TerminalPrompter) FormatNonInteractiveError(keys []string) error {
	var msg strings.Builder
	msg.WriteString("grants require a prompt but no input is attached\n\n")
	msg.WriteString("Requested permissions:\n")

	for _, key := range keys {
		fmt.Fprintf(&msg, "  - %s\n", describeKey(key))
	}

	msg.WriteString("\nTo decide these permissions:\n")
	msg.WriteString("  1. Run interactively and answer when prompted\n")
	msg.WriteString("  2. Use --prompt-mode grant-all or deny-all\n")
	msg.WriteString("  3. List them under policy.granted or policy.revoked in ~/.flowgrant.yaml\n")

	return errors.New(msg.String())
}
