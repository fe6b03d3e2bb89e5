package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/rosterctl/internal/client/bulk"
)

// terminalNotifier prints transient results as single marked lines.
type terminalNotifier struct {
	w io.Writer
}

func (n terminalNotifier) Success(msg string) {
	fmt.Fprintf(n.w, "✔ %s\n", msg)
}

func (n terminalNotifier) Error(msg string) {
	fmt.Fprintf(n.w, "✖ %s\n", msg)
}

// terminalConfirmer asks a yes/no question on the console. Anything other
// than "y" or "yes" declines.
type terminalConfirmer struct {
	reader *bufio.Reader
	w      io.Writer
}

func severityBadge(s bulk.Severity) string {
	switch s {
	case bulk.SeverityDanger:
		return "[!!] "
	case bulk.SeverityWarning:
		return "[!] "
	default:
		return ""
	}
}

func (c terminalConfirmer) Confirm(ctx context.Context, cf bulk.Confirmation) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(c.w, "%s%s\n%s\n%s? [y/N] ", severityBadge(cf.Severity), cf.Title, cf.Message, cf.ConfirmText)
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return false, err
		}
		if line == "" {
			fmt.Fprintln(c.w)
			return false, nil
		}
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
