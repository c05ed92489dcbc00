// Package services contains application services for the euem client.
// This file defines the session service: restoring a stored session on
// start, persisting new sessions, refreshing the profile, and logout.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/euem/internal/client/client"
	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/logging"
)

var ErrNotLoggedIn = errors.New("not logged in")

// ProfileClient is the API surface the service needs.
type ProfileClient interface {
	GetProfile(ctx context.Context, token string) (*models.AuthUser, error)
}

// SessionStore is implemented by sessionstore.Store.
type SessionStore interface {
	Save(ctx context.Context, session models.AuthSession) error
	Load(ctx context.Context) (*models.AuthSession, error)
	Clear(ctx context.Context) error
	UpdateUser(ctx context.Context, user models.AuthUser) error
}

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Restore: load the stored session and revalidate it with the server;
//     a session the server rejects is cleared.
//   - Persist: store a session returned by a successful sign-in.
//   - RefreshProfile: fetch the profile again and update the stored user.
//   - Logout: forget the stored session.
//   - Current: the stored session without contacting the server.
//
// All methods honor context cancellation.
type AuthService interface {
	Restore(ctx context.Context) (*models.AuthSession, error)
	Persist(ctx context.Context, session models.AuthSession) error
	RefreshProfile(ctx context.Context) (*models.AuthSession, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*models.AuthSession, error)
}

type authService struct {
	client ProfileClient
	store  SessionStore
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and store.
func NewAuthService(c ProfileClient, store SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{client: c, store: store, log: log}
}

// Restore returns the revalidated session, or nil when there is none.
// When the server rejects the stored session it is cleared and the
// rejection is returned. If ctx ends while the profile request is in
// flight the store is left untouched.
func (a *authService) Restore(ctx context.Context) (*models.AuthSession, error) {
	session, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := a.client.GetProfile(ctx, session.AccessToken)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		a.log.Info(ctx, "stored session rejected, clearing it", "error", err)
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("clear rejected session: %w", clearErr)
		}
		return nil, fmt.Errorf("revalidate session: %w", err)
	}

	if err := a.store.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("update stored user: %w", err)
	}
	restored := session.WithUser(*user)
	return &restored, nil
}

func (a *authService) Persist(ctx context.Context, session models.AuthSession) error {
	if err := a.store.Save(ctx, session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// RefreshProfile re-reads the profile for the stored session. An
// unauthorized answer clears the session; other failures leave it alone.
func (a *authService) RefreshProfile(ctx context.Context) (*models.AuthSession, error) {
	session, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stored session: %w", err)
	}
	if session == nil {
		return nil, ErrNotLoggedIn
	}

	user, err := a.client.GetProfile(ctx, session.AccessToken)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if clearErr := a.store.Clear(ctx); clearErr != nil {
				return nil, fmt.Errorf("clear rejected session: %w", clearErr)
			}
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if err := a.store.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("update stored user: %w", err)
	}
	refreshed := session.WithUser(*user)
	return &refreshed, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func (a *authService) Current(ctx context.Context) (*models.AuthSession, error) {
	return a.store.Load(ctx)
}
