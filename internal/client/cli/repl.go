package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) error
	Posts(ctx context.Context, args []string) error
	Post(ctx context.Context, args []string) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
//	Not logged in:
//	  - help, register, login, status, posts, post, exit
//
//	Logged in:
//	  - help, me, refresh, posts, post, status, logout, exit
//
// Errors returned by command handlers are not fatal; the session notices
// and the handlers report them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "varta %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
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
				fmt.Fprintln(w, "Available commands: me, refresh, posts [category] [page], post <id>, status, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, posts [category] [page], post <id>, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "status":
			_ = a.Status(ctx)

		case "posts":
			_ = a.Posts(ctx, args)

		case "post":
			_ = a.Post(ctx, args)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
