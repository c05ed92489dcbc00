package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/euem/internal/client/authflow"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// openMode moves the dialog to target, clearing the previous form.
func (a *App) openMode(ctx context.Context, target authflow.Mode) {
	for i := 0; i < 2; i++ {
		mode := a.flow.State().Mode
		if mode == target {
			return
		}
		if mode == authflow.ModeVerify && target == authflow.ModeRegister {
			a.flow.Dispatch(ctx, authflow.Back{})
			continue
		}
		a.flow.Dispatch(ctx, authflow.SwitchMode{})
	}
}

// SignIn prompts for credentials and submits the sign-in form. The
// outcome watcher picks up the session on success.
func (a *App) SignIn(ctx context.Context) error {
	a.openMode(ctx, authflow.ModeSignIn)

	email, err := getSimpleText(a.reader, "Email address", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}

	a.flow.Dispatch(ctx, authflow.InputChanged{Field: authflow.FieldEmail, Value: email})
	a.flow.Dispatch(ctx, authflow.InputChanged{Field: authflow.FieldPassword, Value: password})
	a.flow.Dispatch(ctx, authflow.Submit{})
	a.drainOutcomes(ctx)

	if st := a.flow.State(); st.Error != "" {
		a.showDialog()
	}
	return nil
}

// Register prompts for the registration form and submits it. On success
// the dialog moves to code verification.
func (a *App) Register(ctx context.Context) error {
	a.openMode(ctx, authflow.ModeRegister)

	fields := []struct {
		field  authflow.Field
		prompt string
		secret bool
	}{
		{authflow.FieldName, "Full name", false},
		{authflow.FieldEmail, "Email address", false},
		{authflow.FieldPassword, "Password", true},
		{authflow.FieldConfirmPassword, "Confirm password", true},
	}
	for _, f := range fields {
		var (
			value string
			err   error
		)
		if f.secret {
			value, err = getPassword(a.reader, f.prompt, a.out)
		} else {
			value, err = getSimpleText(a.reader, f.prompt, a.out)
		}
		if err != nil {
			return err
		}
		a.flow.Dispatch(ctx, authflow.InputChanged{Field: f.field, Value: value})
	}

	a.flow.Dispatch(ctx, authflow.Submit{})
	a.showDialog()
	return nil
}

// Code submits a verification code, given as arguments or prompted for.
func (a *App) Code(ctx context.Context, args []string) error {
	if a.flow.State().Mode != authflow.ModeVerify {
		printlnFn("No verification in progress. Use 'register' first.")
		return nil
	}

	if len(args) > 0 {
		a.flow.Dispatch(ctx, authflow.CodePasted{Code: strings.Join(args, "")})
	} else {
		text, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
		if err != nil {
			return err
		}
		a.flow.Dispatch(ctx, authflow.CodePasted{})
		for i, r := range []rune(text) {
			if i == authflow.CodeLength {
				break
			}
			a.flow.Dispatch(ctx, authflow.DigitEntered{Index: i, Value: string(r)})
		}
	}

	a.flow.Dispatch(ctx, authflow.Submit{})
	a.drainOutcomes(ctx)
	a.showDialog()
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	st := a.flow.State()
	switch {
	case st.Mode != authflow.ModeVerify || st.IsVerified:
		printlnFn("No verification in progress.")
		return nil
	case st.IsResending:
		printlnFn("A new code is already on its way.")
		return nil
	case st.TimeLeft > 0:
		printlnFn("You can request a new code in", st.TimeLeft, "seconds.")
		return nil
	}

	a.flow.Dispatch(ctx, authflow.Resend{})

	// the countdown restarts only when the server accepted the request
	if after := a.flow.State(); resent(st, after) {
		printlnFn("A new code was sent to", after.ResendEmail())
	}
	a.showDialog()
	return nil
}

func resent(before, after authflow.State) bool {
	return after.Epoch == before.Epoch && !after.IsResending && after.Error == "" && after.TimeLeft == authflow.ResendCooldown
}

func (a *App) Back(ctx context.Context) error {
	a.flow.Dispatch(ctx, authflow.Back{})
	a.showDialog()
	return nil
}

func (a *App) Switch(ctx context.Context) error {
	a.flow.Dispatch(ctx, authflow.SwitchMode{})
	a.showDialog()
	return nil
}

func (a *App) Cancel(ctx context.Context) error {
	a.flow.Dispatch(ctx, authflow.Close{})
	printlnFn("Cancelled.")
	return nil
}

func (a *App) Status(context.Context) error {
	a.showDialog()
	return nil
}
