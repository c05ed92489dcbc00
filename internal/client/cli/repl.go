package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	SignIn(ctx context.Context) error
	Register(ctx context.Context) error
	Code(ctx context.Context, args []string) error
	Resend(ctx context.Context) error
	Back(ctx context.Context) error
	Switch(ctx context.Context) error
	Cancel(ctx context.Context) error
	Status(ctx context.Context) error

	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the euem CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - signin | login  : sign in with email and password
//	  - register        : create an account
//	  - code [digits]   : submit the verification code
//	  - resend          : request a new verification code
//	  - back            : return from verification to registration
//	  - switch          : toggle between sign-in and registration
//	  - cancel          : close the dialog and clear the form
//	  - status          : show the dialog
//	  - help, exit | quit
//
//	Logged in:
//	  - whoami          : show the signed-in user
//	  - refresh         : reload the profile from the server
//	  - logout          : forget the session
//	  - help, exit | quit
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("euem %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
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
				printlnFn("Available commands: whoami, refresh, logout, exit")
			} else {
				printlnFn("Available commands: signin, register, code, resend, back, switch, cancel, status, exit")
			}

		case "signin", "login":
			if loggedOutOnly(a) {
				_ = a.SignIn(ctx)
			}
		case "register":
			if loggedOutOnly(a) {
				_ = a.Register(ctx)
			}
		case "code":
			if loggedOutOnly(a) {
				_ = a.Code(ctx, args)
			}
		case "resend":
			if loggedOutOnly(a) {
				_ = a.Resend(ctx)
			}
		case "back":
			if loggedOutOnly(a) {
				_ = a.Back(ctx)
			}
		case "switch":
			if loggedOutOnly(a) {
				_ = a.Switch(ctx)
			}
		case "cancel":
			if loggedOutOnly(a) {
				_ = a.Cancel(ctx)
			}
		case "status":
			if loggedOutOnly(a) {
				_ = a.Status(ctx)
			}

		case "whoami":
			if loggedInOnly(a) {
				_ = a.WhoAmI(ctx)
			}
		case "refresh":
			if loggedInOnly(a) {
				_ = a.Refresh(ctx)
			}
		case "logout":
			if loggedInOnly(a) {
				_ = a.Logout(ctx)
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func loggedOutOnly(a execIface) bool {
	if a.isLoggedIn() {
		printlnFn("Already signed in. Use 'logout' first.")
		return false
	}
	return true
}

func loggedInOnly(a execIface) bool {
	if !a.isLoggedIn() {
		printlnFn("Not signed in. Use 'signin' or 'register'.")
		return false
	}
	return true
}
