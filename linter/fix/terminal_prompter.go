package fix

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cstlint/cstlint/validation"
)

// TerminalPrompter implements Prompter over a line-oriented reader and writer.
// Answers: y applies, n skips, a applies every remaining fix of the same
// rule, q skips every remaining fix.
type TerminalPrompter struct {
	mu     sync.Mutex
	reader *bufio.Reader
	writer io.Writer

	all  map[string]bool
	quit bool
}

var _ Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter creates a new terminal-based prompter.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		reader: bufio.NewReader(in),
		writer: out,
		all:    map[string]bool{},
	}
}

// writef writes formatted output to the prompter's writer, ignoring write errors
// since terminal output failures are not recoverable.
func (p *TerminalPrompter) writef(format string, args ...any) {
	_, _ = fmt.Fprintf(p.writer, format, args...)
}

func (p *TerminalPrompter) ConfirmFix(v validation.Violation) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quit {
		return false, nil
	}
	if p.all[v.Rule] {
		return true, nil
	}

	p.writef("\n%s:%d:%d %s %s\n", v.File, v.Line, v.Column, v.Rule, v.Message)
	for {
		p.writef("  Apply fix? [y]es, [n]o, [a]ll for %s, [q]uit: ", v.Rule)

		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			p.quit = true
			return false, fmt.Errorf("reading input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		case "a", "all":
			p.all[v.Rule] = true
			return true, nil
		case "q", "quit":
			p.quit = true
			return false, nil
		default:
			p.writef("  Invalid answer: %s\n", strings.TrimSpace(line))
		}
	}
}

// Confirm asks a yes/no question.
func (p *TerminalPrompter) Confirm(message string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writef("%s [y/n]: ", message)

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading input: %w", err)
	}
	line = strings.ToLower(strings.TrimSpace(line))

	return line == "y" || line == "yes", nil
}
