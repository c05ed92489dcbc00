package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/euem/internal/client/authflow"
	"github.com/dmitrijs2005/euem/internal/client/client"
	"github.com/dmitrijs2005/euem/internal/client/config"
	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/client/services"
	"github.com/dmitrijs2005/euem/internal/client/sessionstore"
	"github.com/dmitrijs2005/euem/internal/filex"
	"github.com/dmitrijs2005/euem/internal/logging"
)

type App struct {
	config *config.Config
	auth   services.AuthService
	flow   *authflow.Controller
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
	now    func() time.Time

	// closers run in reverse order when Run returns.
	closers []func() error

	mu      sync.Mutex
	session *models.AuthSession

	// outcomeMu keeps outcomes in publish order when drained.
	outcomeMu sync.Mutex
}

// NewApp wires the HTTP client, the local session store and the auth
// dialog. When the local database cannot be opened the app still runs,
// but sessions are not kept across restarts.
func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", c.APIBaseURL, err)
	}
	if log == nil {
		log = logging.NewNop()
	}

	ctx := context.Background()
	store, closeStore := openStore(ctx, c, log)

	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout, client.WithLogger(log))
	as := services.NewAuthService(api, store, log)
	flow := authflow.NewController(api, authflow.Options{
		VerifiedDelay: c.VerifiedDelay,
		Logger:        log,
	})

	a := newApp(c, as, flow, bufio.NewReader(os.Stdin), os.Stdout, log)
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	return a, nil
}

func newApp(c *config.Config, as services.AuthService, flow *authflow.Controller, reader *bufio.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.NewNop()
	}
	return &App{
		config: c,
		auth:   as,
		flow:   flow,
		reader: reader,
		out:    out,
		log:    log,
		now:    time.Now,
	}
}

// openStore opens the SQLite database in the data directory. On failure
// it returns a store without a medium and a nil closer.
func openStore(ctx context.Context, c *config.Config, log logging.Logger) (*sessionstore.Store, func() error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		log.Warn(ctx, "data directory unavailable, sessions will not be kept", "dir", c.DataDir, "error", err)
		return sessionstore.New(nil, log), nil
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, c.DatabaseFile))
	if err != nil {
		log.Warn(ctx, "local database unavailable, sessions will not be kept", "dir", dir, "error", err)
		return sessionstore.New(nil, log), nil
	}
	return sessionstore.New(db, log), db.Close
}

// Run restores the stored session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer a.close()
	defer cancel()

	a.Root(ctx)
}

func (a *App) close() {
	a.flow.Shutdown()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session != nil
}

func (a *App) currentSession() *models.AuthSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *App) setSession(s *models.AuthSession) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

// restore revalidates the stored session with the server.
func (a *App) restore(ctx context.Context) {
	if a.config != nil && a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	s, err := a.auth.Restore(ctx)
	if err != nil {
		a.log.Info(ctx, "session not restored", "error", err)
		if errors.Is(err, client.ErrUnauthorized) {
			printlnFn("Your previous session has expired. Please sign in again.")
		} else if ctx.Err() == nil {
			printlnFn("Could not restore your session:", client.Message(err))
		}
		return
	}
	if s == nil {
		return
	}
	a.setSession(s)
	printlnFn("Welcome back,", displayName(s.User))
}

// drainOutcomes handles every outcome the auth dialog has published so
// far without blocking. The controller publishes a session before Dispatch
// returns, so draining right after a dialog step sees it; closes that come
// later from the delay timer are picked up before the next prompt.
func (a *App) drainOutcomes(ctx context.Context) {
	a.outcomeMu.Lock()
	defer a.outcomeMu.Unlock()
	for {
		select {
		case o := <-a.flow.Outcomes():
			a.handleOutcome(ctx, o)
		default:
			return
		}
	}
}

func (a *App) handleOutcome(ctx context.Context, o authflow.Outcome) {
	switch o.Kind {
	case authflow.OutcomeSuccess:
		if o.Session == nil {
			return
		}
		if err := a.auth.Persist(ctx, *o.Session); err != nil {
			a.log.Error(ctx, "persist session failed", "error", err)
			printlnFn("Signed in, but the session could not be saved:", err)
		}
		a.setSession(o.Session)
		printlnFn("Signed in as", displayName(o.Session.User))
	case authflow.OutcomeClosed:
		a.log.Debug(ctx, "auth dialog closed")
	}
}

func displayName(u models.AuthUser) string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Email
}
