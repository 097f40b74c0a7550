package biometric

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptAuthenticator stands in for a platform sensor on terminals: the
// challenge is answered by typing into the console. Hardware presence and
// enrolment come from configuration.
type PromptAuthenticator struct {
	hardware bool
	enrolled bool
	in       *bufio.Reader
	out      io.Writer
}

func NewPromptAuthenticator(hardware, enrolled bool, in *bufio.Reader, out io.Writer) *PromptAuthenticator {
	return &PromptAuthenticator{hardware: hardware, enrolled: enrolled, in: in, out: out}
}

func (p *PromptAuthenticator) HasHardware(context.Context) (bool, error) { return p.hardware, nil }
func (p *PromptAuthenticator) IsEnrolled(context.Context) (bool, error)  { return p.enrolled, nil }

// Authenticate prints the prompt and waits for one line:
// "y" accepts, "f" picks the fallback, anything else cancels.
func (p *PromptAuthenticator) Authenticate(ctx context.Context, pr Prompt) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !p.hardware || !p.enrolled {
		return Result{Error: ReasonNotEnrolled}, nil
	}

	if _, err := fmt.Fprintf(p.out, "%s\n[y] confirm  [n] %s  [f] %s\n> ", pr.Message, pr.CancelLabel, pr.FallbackLabel); err != nil {
		return Result{}, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return Result{}, fmt.Errorf("read biometric answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return Result{Success: true}, nil
	case "f":
		return Result{Error: ReasonUserFallback}, nil
	default:
		return Result{Error: ReasonUserCancel}, nil
	}
}
