// Package console implements a terminal judge for live sessions.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/okian/elorank/internal/session"
	"github.com/okian/elorank/pkg/metrics"
)

// Input tokens understood by the judge.
const (
	answerFirst  = "1"
	answerSecond = "2"
	answerExit   = "exit"
)

// Judge prompts a human on out and reads answers from in.
type Judge struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewJudge creates a Judge over the given streams.
func NewJudge(in io.Reader, out io.Writer) *Judge {
	return &Judge{in: bufio.NewScanner(in), out: out}
}

// Choose presents the pair and waits for 1, 2 or exit. Anything else is
// reported and asked again; end of input ends the session.
func (j *Judge) Choose(ctx context.Context, first, second string) (session.Choice, error) {
	if _, err := fmt.Fprintf(j.out, "1. %s\n2. %s\n", first, second); err != nil {
		return session.ChoiceInvalid, fmt.Errorf("console: write: %w", err)
	}
	for {
		if err := ctx.Err(); err != nil {
			return session.ChoiceInvalid, err
		}
		if _, err := io.WriteString(j.out, "1/2 (or exit)? "); err != nil {
			return session.ChoiceInvalid, fmt.Errorf("console: write: %w", err)
		}
		if !j.in.Scan() {
			if err := j.in.Err(); err != nil {
				return session.ChoiceInvalid, fmt.Errorf("console: read: %w", err)
			}
			_, _ = io.WriteString(j.out, "\n")
			return session.ChoiceQuit, nil
		}
		switch strings.ToLower(strings.TrimSpace(j.in.Text())) {
		case answerFirst:
			return session.ChoiceFirst, nil
		case answerSecond:
			return session.ChoiceSecond, nil
		case answerExit:
			return session.ChoiceQuit, nil
		}
		metrics.RecordInvalidOutcome()
		if _, err := io.WriteString(j.out, "Input must be 1/2, try again\n"); err != nil {
			return session.ChoiceInvalid, fmt.Errorf("console: write: %w", err)
		}
	}
}
