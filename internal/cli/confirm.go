package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirmer asks yes/no questions on the terminal.
type Confirmer struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewConfirmer creates a confirmer reading from reader and writing prompts
// to writer. Nil arguments default to stdin/stdout.
func NewConfirmer(reader io.Reader, writer io.Writer) *Confirmer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Confirmer{
		reader: NewNonBlockingReader(reader),
		writer: writer,
	}
}

// Confirm asks the question and returns true only on an explicit yes.
// EOF and cancellation count as no.
func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprint(c.writer, FormatPrompt(question+" [y/N]")); err != nil {
		return false, err
	}

	line, err := c.reader.ReadLine(ctx)
	if err != nil {
		if err == ErrInputCancelled || err == io.EOF {
			return false, nil
		}
		return false, err
	}

	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
