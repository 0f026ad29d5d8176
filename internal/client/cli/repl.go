package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// command is one REPL verb. Commands marked auth are only offered while
// signed in, guestOnly ones only while signed out.
type command struct {
	usage     string
	auth      bool
	guestOnly bool
	run       func(ctx context.Context, args []string) error
}

// execIface is the surface the REPL drives. App implements it; tests use
// a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	commands() map[string]command
	handleError(ctx context.Context, err error)
}

// runREPL reads commands from reader until EOF or exit. Command errors go
// to handleError and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, w io.Writer) {
	cmds := a.commands()
	for {
		fmt.Fprintf(w, "watchstore (%s)> ", statusFn(ctx))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printHelp(w, cmds, a.isLoggedIn(ctx))
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			c, ok := cmds[name]
			switch {
			case !ok:
				fmt.Fprintln(w, "Unknown command:", name)
			case c.auth && !a.isLoggedIn(ctx):
				fmt.Fprintf(w, "%s: please log in first\n", name)
			case c.guestOnly && a.isLoggedIn(ctx):
				fmt.Fprintf(w, "%s: already logged in\n", name)
			default:
				if err := c.run(ctx, args); err != nil {
					a.handleError(ctx, err)
				}
			}
		}

		if readErr != nil {
			return
		}
	}
}

func printHelp(w io.Writer, cmds map[string]command, loggedIn bool) {
	names := make([]string, 0, len(cmds))
	for name, c := range cmds {
		if (c.auth && !loggedIn) || (c.guestOnly && loggedIn) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Available commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-28s\n", cmds[name].usage)
	}
	fmt.Fprintf(w, "  %-28s\n", "exit")
}
