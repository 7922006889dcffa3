package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Prompter asks for one line of input per field. The returned text is the
// raw trimmed answer; an empty answer means "keep current".
type Prompter interface {
	Prompt(label, current string) (string, error)
	PromptSecret(label, current string) (string, error)
}

// LinePrompter is a Prompter over a line-oriented reader and writer.
type LinePrompter struct {
	in     *bufio.Reader
	out    io.Writer
	secret *os.File
}

// NewLinePrompter creates a prompter reading from in and writing prompts to
// out. When in is a terminal, secrets are read without echo.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	p := &LinePrompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		p.secret = f
	}
	return p
}

// Prompt shows label with the current value as the default and reads a line.
func (p *LinePrompter) Prompt(label, current string) (string, error) {
	p.writePrompt(label, current)
	return p.readLine()
}

// PromptSecret behaves like Prompt but masks the current value and, on a
// terminal, does not echo the answer.
func (p *LinePrompter) PromptSecret(label, current string) (string, error) {
	p.writePrompt(label, MaskToken(current))
	if p.secret == nil {
		return p.readLine()
	}

	raw, err := term.ReadPassword(int(p.secret.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func (p *LinePrompter) writePrompt(label, current string) {
	if current == "" {
		fmt.Fprintf(p.out, "%s: ", label)
		return
	}
	fmt.Fprintf(p.out, "%s [%s]: ", label, current)
}

// readLine reads up to the next newline. EOF counts as an empty answer, or
// as the partial line read before it.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
