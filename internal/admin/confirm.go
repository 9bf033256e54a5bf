// Package admin writes document bundles to the store: publishing with
// operator confirmation, rolling back uploads, and pruning upload history.
package admin

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ConfirmWord is what the operator types to accept a prompt.
const ConfirmWord = "YES"

// Confirmer asks the operator to approve a step.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// PromptConfirmer reads the answer from In after writing the prompt to Out.
// Only the exact word YES approves.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

func (p *PromptConfirmer) Confirm(prompt string) (bool, error) {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "%s Type %s to continue: ", prompt, ConfirmWord)
	line, err := p.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line) == ConfirmWord, nil
}

// AutoConfirm approves every prompt. Used for --yes.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string) (bool, error) { return true, nil }
