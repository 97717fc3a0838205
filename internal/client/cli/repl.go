package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Enroll(ctx context.Context, path string) error
	Verify(ctx context.Context, path string) error
	Status(ctx context.Context) error
	Reset(ctx context.Context) error
	Passwords(ctx context.Context) error
	AddPassword(ctx context.Context) error
	EditPassword(ctx context.Context, id string) error
	DeletePassword(ctx context.Context, id string) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The same reader serves the interactive prompts of the commands, so it is
// never read ahead. The loop exits on EOF or on "exit" / "quit".
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("lw %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: enroll <file>, verify <file>, status, reset, passwords, addpass, editpass <id>, delpass <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "enroll", "verify":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <descriptor.json>", cmd))
				continue
			}
			if cmd == "enroll" {
				cmdErr = a.Enroll(ctx, args[0])
			} else {
				cmdErr = a.Verify(ctx, args[0])
			}

		case "status":
			cmdErr = a.Status(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "passwords":
			cmdErr = a.Passwords(ctx)

		case "addpass":
			cmdErr = a.AddPassword(ctx)

		case "editpass", "delpass":
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			if cmd == "editpass" {
				cmdErr = a.EditPassword(ctx, args[0])
			} else {
				cmdErr = a.DeletePassword(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
