package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/euem/internal/client/authflow"
)

func (a *App) getStatus() string {
	if s := a.currentSession(); s != nil {
		return fmt.Sprintf("(%s)", displayName(s.User))
	}
	return fmt.Sprintf("[%s]", a.flow.State().Mode)
}

// Root restores the session and runs the REPL. Dialog outcomes are
// handled before every prompt.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the euem CLI (type 'help' for commands)")

	a.restore(ctx)

	runREPL(ctx, a, func() string {
		a.drainOutcomes(ctx)
		return a.getStatus()
	}, a.reader)
}

func (a *App) showDialog() {
	printlnFn(renderDialog(a.flow.State()))
}

// renderDialog formats the dialog: heading, code slots and countdown in
// verify mode, and the current error.
func renderDialog(st authflow.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n%s", st.Title(), st.Subtitle())

	if st.Mode == authflow.ModeVerify {
		switch {
		case st.IsVerified:
			b.WriteString("\nWelcome to your portfolio! Your account has been created and verified successfully.")
		default:
			if email := st.ResendEmail(); email != "" {
				fmt.Fprintf(&b, "\nCode sent to: %s", email)
			}
			fmt.Fprintf(&b, "\nCode: %s", codeSlots(st.Code))
			switch {
			case st.IsResending:
				b.WriteString("\nSending a new code...")
			case st.TimeLeft > 0:
				fmt.Fprintf(&b, "\nResend code in %ds", st.TimeLeft)
			default:
				b.WriteString("\nDidn't receive the code? Type 'resend'.")
			}
		}
	}

	if st.Error != "" {
		fmt.Fprintf(&b, "\nError: %s", st.Error)
	}
	return b.String()
}

func codeSlots(code [authflow.CodeLength]string) string {
	slots := make([]string, len(code))
	for i, d := range code {
		if d == "" {
			d = "_"
		}
		slots[i] = d
	}
	return strings.Join(slots, " ")
}
