package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/euem/internal/client/client"
	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/client/services"
	"github.com/dmitrijs2005/euem/internal/jwtx"
)

// WhoAmI prints the signed-in user and, when the token is a JWT, when it
// expires.
func (a *App) WhoAmI(context.Context) error {
	s := a.currentSession()
	if s == nil {
		return services.ErrNotLoggedIn
	}
	printlnFn(describeSession(*s, a.now()))
	return nil
}

func describeSession(s models.AuthSession, now time.Time) string {
	u := s.User
	lines := []string{
		"Name:     " + displayName(u),
		"Email:    " + u.Email,
		"Verified: " + yesNo(u.IsVerified),
	}
	if len(u.Roles) > 0 {
		lines = append(lines, "Roles:    "+strings.Join(u.Roles, ", "))
	}
	if !u.IsEnabled {
		lines = append(lines, "Account is disabled")
	}

	if exp, err := jwtx.ExpiresAt(s.AccessToken); err == nil {
		left := exp.Sub(now).Round(time.Second)
		if left > 0 {
			lines = append(lines, fmt.Sprintf("Token:    expires %s (in %s)", exp.Local().Format(time.DateTime), left))
		} else {
			lines = append(lines, fmt.Sprintf("Token:    expired %s", exp.Local().Format(time.DateTime)))
		}
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Refresh re-reads the profile. A rejected session signs the user out.
func (a *App) Refresh(ctx context.Context) error {
	s, err := a.auth.RefreshProfile(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) || errors.Is(err, services.ErrNotLoggedIn) {
			a.setSession(nil)
			printlnFn("Your session has expired. Please sign in again.")
			return err
		}
		printlnFn("Refresh failed:", client.Message(err))
		return err
	}
	a.setSession(s)
	printlnFn("Profile updated for", displayName(s.User))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err)
		return err
	}
	a.setSession(nil)
	printlnFn("Logged out.")
	return nil
}
