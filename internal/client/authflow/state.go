package authflow

import "strings"

// CodeLength is the number of digit slots of a verification code.
const CodeLength = 6

// ResendCooldown is the number of ticks before a code can be resent.
const ResendCooldown = 60

type Mode string

const (
	ModeSignIn   Mode = "signin"
	ModeRegister Mode = "register"
	ModeVerify   Mode = "verify"
)

// Form holds the text fields of the sign-in and register forms.
type Form struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// PendingCredentials are kept between a successful registration and the
// automatic login that follows verification. They live only in memory.
type PendingCredentials struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// State is the complete dialog state. The zero value is not useful; start
// from NewState.
type State struct {
	Mode Mode
	Form Form

	Code [CodeLength]string
	// Focus is the digit slot that should receive the next keystroke.
	Focus int

	IsVerified  bool
	IsLoading   bool
	IsResending bool
	TimeLeft    int

	// Error is the single user-facing message slot.
	Error string

	Pending *PendingCredentials

	// Epoch identifies the current dialog session.
	Epoch uint64
}

// NewState returns the initial sign-in state.
func NewState() State {
	return State{Mode: ModeSignIn, TimeLeft: ResendCooldown}
}

// CodeString joins the digit slots in order.
func (s State) CodeString() string {
	return strings.Join(s.Code[:], "")
}

// CodeComplete reports whether every slot holds a digit.
func (s State) CodeComplete() bool {
	return len(s.CodeString()) == CodeLength
}

// CanResend reports whether a Resend event would start a request.
func (s State) CanResend() bool {
	return s.Mode == ModeVerify && !s.IsVerified && s.TimeLeft == 0 && !s.IsResending
}

// ResendEmail is the address a new code would be sent to: the pending
// registration first, the form second.
func (s State) ResendEmail() string {
	if s.Pending != nil && s.Pending.Email != "" {
		return s.Pending.Email
	}
	return strings.TrimSpace(s.Form.Email)
}

// Title is the dialog heading for the current state.
func (s State) Title() string {
	switch s.Mode {
	case ModeRegister:
		return "Create Account"
	case ModeVerify:
		if s.IsVerified {
			return "Email Verified!"
		}
		return "Verify Your Email"
	default:
		return "Welcome Back"
	}
}

// Subtitle is the line shown under Title.
func (s State) Subtitle() string {
	switch s.Mode {
	case ModeRegister:
		return "Sign up to get started with your portfolio"
	case ModeVerify:
		if s.IsVerified {
			return "Your email has been successfully verified"
		}
		return "We sent a verification code to your email"
	default:
		return "Sign in to your account to continue"
	}
}
