// Package client contains the client-side building blocks that talk to the
// outside world: the euem account service and the local database.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     account service: Login, RegisterUser, VerifyEmail,
//     ResendVerificationCode and GetProfile.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient). Every call
//     goes through one request helper that sets the JSON content type, an
//     optional bearer token and an X-Request-ID, and turns every non-2xx
//     response into an *AuthError. Empty or malformed response bodies are
//     tolerated and read as null.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations), wiring an
//     SQLite database and applying the embedded goose migrations.
//
// # Error Handling
//
// All API failures are *AuthError values carrying a user-facing Message.
// Status classes can be matched with errors.Is: ErrUnauthorized (401/403)
// and ErrUnavailable (no response, 502/503/504). Message(err) extracts the
// text to show.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
