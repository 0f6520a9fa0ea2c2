package hardware

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

// TerminalOperator prompts on a writer and waits for a line on a reader.
// An empty line (or anything else) resumes; "q" or "abort" aborts, as does
// end of input.
type TerminalOperator struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalOperator creates a new TerminalOperator.
func NewTerminalOperator(in io.Reader, out io.Writer) *TerminalOperator {
	return &TerminalOperator{in: bufio.NewReader(in), out: out}
}

type lineResult struct {
	line string
	err  error
}

// Resume prints message and waits for the operator.
func (o *TerminalOperator) Resume(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(o.out, "\n⏸  %s\n   Press Enter to resume, or type q to abort: ", strings.TrimSpace(message))

	done := make(chan lineResult, 1)
	go func() {
		line, err := o.in.ReadString('\n')
		done <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-done:
		if res.err != nil && res.line == "" {
			if res.err == io.EOF {
				return ErrAborted
			}
			return fmt.Errorf("failed to read operator input: %w", res.err)
		}
		switch strings.ToLower(strings.TrimSpace(res.line)) {
		case "q", "quit", "abort":
			return ErrAborted
		}
		return nil
	}
}

// AutoOperator resumes every pause immediately. It is used for unattended
// simulation.
type AutoOperator struct {
	logger *zap.Logger
}

// NewAutoOperator creates a new AutoOperator.
func NewAutoOperator(logger *zap.Logger) *AutoOperator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoOperator{logger: logger.Named("operator")}
}

// Resume logs message and returns.
func (o *AutoOperator) Resume(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.logger.Info("pause auto-resumed", zap.String("message", strings.TrimSpace(message)))
	return nil
}
