// Package cli provides the interactive euem command-line client.
//
// It wires configuration, the local session store, the account API client
// and the auth dialog into a REPL. On start the stored session is
// revalidated with the server; while signed out the REPL drives the
// sign-in / register / verify dialog. Every session the dialog produces is
// persisted before the command that produced it returns.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
