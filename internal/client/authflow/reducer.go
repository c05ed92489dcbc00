package authflow

import (
	"strings"

	"github.com/dmitrijs2005/euem/internal/client/client"
	"github.com/dmitrijs2005/euem/internal/client/models"
)

// Validation messages.
const (
	MsgSignInRequired   = "Please enter your email and password"
	MsgNameRequired     = "Please enter your full name"
	MsgPasswordMismatch = "Passwords do not match"
	MsgInvalidCode      = "Please enter a valid 6-digit code"
	MsgMissingEmail     = "Missing email address. Please register again."
	MsgNoSession        = "Request failed: the server returned no session"
)

// Reduce returns the state that follows s after ev, and the effects to
// run. It does not mutate s and performs no I/O.
func Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case InputChanged:
		return inputChanged(s, ev), nil
	case DigitEntered:
		return digitEntered(s, ev), nil
	case CodePasted:
		if s.Mode != ModeVerify || s.IsVerified {
			return s, nil
		}
		s.Code, s.Focus = SplitCode(ev.Code)
		s.Error = ""
		return s, nil
	case Backspace:
		if s.Mode != ModeVerify || s.IsVerified {
			return s, nil
		}
		s.Focus = BackspaceFocus(s.Code, ev.Index)
		return s, nil
	case Submit:
		return submit(s)
	case SwitchMode:
		next := ModeRegister
		if s.Mode != ModeSignIn {
			next = ModeSignIn
		}
		return reset(s, next), []Effect{CancelTimers{}, StopCountdown{}}
	case Back:
		if s.Mode != ModeVerify {
			return s, nil
		}
		return reset(s, ModeRegister), []Effect{CancelTimers{}, StopCountdown{}}
	case Close:
		return reset(s, ModeSignIn), []Effect{CancelTimers{}, StopCountdown{}, EmitClose{}}
	case Tick:
		return tick(s)
	case Resend:
		return resend(s)

	case LoginDone:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		return loginDone(s, ev)
	case RegisterDone:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		return registerDone(s, ev)
	case VerifyDone:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		return verifyDone(s, ev)
	case AutoLoginDone:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		return autoLoginDone(s, ev)
	case ResendDone:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		return resendDone(s, ev)
	case DelayElapsed:
		if ev.Epoch != s.Epoch {
			return s, nil
		}
		if !ev.Close {
			email := s.ResendEmail()
			s = reset(s, ModeSignIn)
			s.Form.Email = email
			return s, nil
		}
		return reset(s, ModeSignIn), []Effect{EmitClose{}}
	}
	return s, nil
}

// reset clears every transient field and starts a new epoch in mode.
func reset(s State, mode Mode) State {
	n := NewState()
	n.Mode = mode
	n.Epoch = s.Epoch + 1
	return n
}

func inputChanged(s State, ev InputChanged) State {
	switch ev.Field {
	case FieldName:
		s.Form.Name = ev.Value
	case FieldEmail:
		s.Form.Email = ev.Value
	case FieldPassword:
		s.Form.Password = ev.Value
	case FieldConfirmPassword:
		s.Form.ConfirmPassword = ev.Value
	}
	return s
}

func digitEntered(s State, ev DigitEntered) State {
	if s.Mode != ModeVerify || s.IsVerified {
		return s
	}
	code, focus, ok := EnterDigit(s.Code, ev.Index, ev.Value)
	if !ok {
		return s
	}
	s.Code, s.Focus = code, focus
	s.Error = ""
	return s
}

func submit(s State) (State, []Effect) {
	if s.IsLoading {
		return s, nil
	}
	s.Error = ""

	switch s.Mode {
	case ModeSignIn:
		email := strings.TrimSpace(s.Form.Email)
		if email == "" || s.Form.Password == "" {
			s.Error = MsgSignInRequired
			return s, nil
		}
		s.IsLoading = true
		return s, []Effect{CallLogin{Epoch: s.Epoch, Email: email, Password: s.Form.Password}}

	case ModeRegister:
		first, last := splitName(s.Form.Name)
		email := strings.TrimSpace(s.Form.Email)
		switch {
		case first == "":
			s.Error = MsgNameRequired
			return s, nil
		case email == "" || s.Form.Password == "":
			s.Error = MsgSignInRequired
			return s, nil
		case s.Form.Password != s.Form.ConfirmPassword:
			s.Error = MsgPasswordMismatch
			return s, nil
		}
		s.IsLoading = true
		s.Pending = &PendingCredentials{Email: email, Password: s.Form.Password, FirstName: first, LastName: last}
		payload := models.RegisterPayload{Email: email, Password: s.Form.Password, FirstName: first, LastName: last}
		return s, []Effect{CallRegister{Epoch: s.Epoch, Payload: payload}}

	case ModeVerify:
		if s.IsVerified {
			return s, nil
		}
		if !s.CodeComplete() {
			s.Error = MsgInvalidCode
			return s, nil
		}
		s.IsLoading = true
		return s, []Effect{CallVerify{Epoch: s.Epoch, Code: s.CodeString()}}
	}
	return s, nil
}

// splitName takes the first word as the first name and the rest, with
// inner spacing collapsed, as the last name.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func loginDone(s State, ev LoginDone) (State, []Effect) {
	s.IsLoading = false
	if ev.Err != nil {
		s.Error = client.Message(ev.Err)
		return s, nil
	}
	if !usable(ev.Session) {
		s.Error = MsgNoSession
		return s, nil
	}
	return reset(s, ModeSignIn), []Effect{EmitSuccess{Session: *ev.Session}, EmitClose{}}
}

func registerDone(s State, ev RegisterDone) (State, []Effect) {
	s.IsLoading = false
	if ev.Err != nil {
		s.Error = client.Message(ev.Err)
		s.Pending = nil
		return s, nil
	}
	s.Mode = ModeVerify
	s.Code = [CodeLength]string{}
	s.Focus = 0
	s.IsVerified = false
	s.TimeLeft = ResendCooldown
	return s, []Effect{StartCountdown{}}
}

func verifyDone(s State, ev VerifyDone) (State, []Effect) {
	if ev.Err != nil {
		s.IsLoading = false
		s.Error = client.Message(ev.Err)
		return s, nil
	}
	s.IsVerified = true
	if s.Pending == nil {
		s.IsLoading = false
		return s, []Effect{StopCountdown{}, ScheduleDelay{Epoch: s.Epoch}}
	}
	return s, []Effect{
		StopCountdown{},
		CallLogin{Epoch: s.Epoch, Email: s.Pending.Email, Password: s.Pending.Password, Auto: true},
	}
}

// autoLoginDone hands the session over at once; only closing the dialog
// waits for the delay so the verified message stays on screen.
func autoLoginDone(s State, ev AutoLoginDone) (State, []Effect) {
	if ev.Err != nil || !usable(ev.Session) {
		msg := MsgNoSession
		if ev.Err != nil {
			msg = client.Message(ev.Err)
		}
		email := s.ResendEmail()
		s = reset(s, ModeSignIn)
		s.Form.Email = email
		s.Error = msg
		return s, nil
	}
	s.IsLoading = false
	s.Pending = nil
	return s, []Effect{EmitSuccess{Session: *ev.Session}, ScheduleDelay{Epoch: s.Epoch, Close: true}}
}

func tick(s State) (State, []Effect) {
	if s.Mode != ModeVerify || s.IsVerified || s.TimeLeft <= 0 {
		return s, nil
	}
	s.TimeLeft--
	if s.TimeLeft == 0 {
		return s, []Effect{StopCountdown{}}
	}
	return s, nil
}

func resend(s State) (State, []Effect) {
	if !s.CanResend() {
		return s, nil
	}
	email := s.ResendEmail()
	if email == "" {
		s.Error = MsgMissingEmail
		return s, nil
	}
	s.IsResending = true
	s.Error = ""
	return s, []Effect{CallResend{Epoch: s.Epoch, Email: email}}
}

func resendDone(s State, ev ResendDone) (State, []Effect) {
	s.IsResending = false
	if ev.Err != nil {
		s.Error = client.Message(ev.Err)
		return s, nil
	}
	s.TimeLeft = ResendCooldown
	s.Code = [CodeLength]string{}
	s.Focus = 0
	return s, []Effect{StartCountdown{}}
}

// usable reports whether a login answer carries a token. A 2xx with an
// empty body decodes to a zero session, which must not sign anyone in.
func usable(p *models.AuthSession) bool {
	return p != nil && p.AccessToken != ""
}
