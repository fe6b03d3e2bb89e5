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

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Verify(ctx context.Context, id string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Refresh(ctx context.Context) error
	Toggle(ctx context.Context, ids []string) error
	Select(ctx context.Context, ids []string) error
	SelectAll(ctx context.Context) error
	ClearSelection(ctx context.Context) error
	Bulk(ctx context.Context, k bulk.Kind) error
}

const (
	helpAnonymous = "Available commands: register, login, verify <id>, exit"
	helpOperator  = "Available commands: list, refresh, toggle <id>..., select <id>..., selectall, clear, " +
		"block, unblock, delete, purge, whoami, verify <id>, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF, on "exit"/"quit" or when ctx is done. Handlers report
// their own failures, so returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "rosterctl (%s)> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpOperator)
			} else {
				fmt.Fprintln(w, helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "verify":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: verify <id>")
				continue
			}
			_ = a.Verify(ctx, args[0])

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "toggle", "select":
			if len(args) == 0 {
				fmt.Fprintf(w, "Usage: %s <id>...\n", cmd)
				continue
			}
			if cmd == "toggle" {
				_ = a.Toggle(ctx, args)
			} else {
				_ = a.Select(ctx, args)
			}

		case "selectall":
			_ = a.SelectAll(ctx)

		case "clear":
			_ = a.ClearSelection(ctx)

		case "block":
			_ = a.Bulk(ctx, bulk.KindBlock)

		case "unblock":
			_ = a.Bulk(ctx, bulk.KindUnblock)

		case "delete":
			_ = a.Bulk(ctx, bulk.KindDelete)

		case "purge":
			_ = a.Bulk(ctx, bulk.KindDeleteUnverified)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
