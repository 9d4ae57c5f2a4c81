package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Renew(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line until EOF, "exit" or "quit". Commands
// prompt for their own input on the same reader.
//
//	Not logged in: help, register, login, exit
//	Logged in:     help, me, renew, logout, exit
//
// Errors returned by commands are reported by the commands themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tk> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, renew, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "me":
			_ = a.Me(ctx)
		case "renew":
			_ = a.Renew(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn("Unknown command: " + parts[0])
		}
	}
}
