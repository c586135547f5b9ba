package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// linePrompter asks yes/no questions on a terminal-like stream pair.
// It implements the Prompter used by the publish step when asking to
// re-authenticate.
type linePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// newPrompter returns a prompter reading answers from in and writing
// questions to out. The scanner is shared across calls so buffered input
// is not lost between questions.
func newPrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewScanner(in), out: out}
}

// Confirm prints question followed by "[y/N]" and reads one line. Only "y"
// or "yes" (any case) confirm; end of input declines.
func (p *linePrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", question)

	// bufio.Scanner handles different line endings across platforms
	// (LF on Unix, CRLF on Windows).
	if p.in.Scan() {
		answer := strings.TrimSpace(strings.ToLower(p.in.Text()))
		return answer == "y" || answer == "yes", nil
	}
	if err := p.in.Err(); err != nil {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	return false, nil
}
