package authflow

import "github.com/dmitrijs2005/euem/internal/client/models"

// Event is an input to Reduce: user intent, a timer, or the result of an
// API call started by an Effect.
type Event interface {
	event()
}

// Field names a text input of the form.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldPassword
	FieldConfirmPassword
)

type (
	// InputChanged replaces the value of one form field.
	InputChanged struct {
		Field Field
		Value string
	}

	// DigitEntered sets one verification slot. Value is "" or one digit.
	DigitEntered struct {
		Index int
		Value string
	}

	// CodePasted spreads a whole code across the slots.
	CodePasted struct {
		Code string
	}

	// Backspace is a backspace keystroke in slot Index. It only moves
	// focus; clearing a digit is a DigitEntered with an empty Value.
	Backspace struct {
		Index int
	}

	Submit     struct{}
	SwitchMode struct{}
	Back       struct{}
	Close      struct{}
	Tick       struct{}
	Resend     struct{}
)

// Results. Each carries the Epoch copied from the effect that started it.
type (
	LoginDone struct {
		Epoch   uint64
		Session *models.AuthSession
		Err     error
	}

	RegisterDone struct {
		Epoch uint64
		User  *models.AuthUser
		Err   error
	}

	VerifyDone struct {
		Epoch  uint64
		Result *models.StatusMessage
		Err    error
	}

	AutoLoginDone struct {
		Epoch   uint64
		Session *models.AuthSession
		Err     error
	}

	ResendDone struct {
		Epoch  uint64
		Result *models.StatusMessage
		Err    error
	}

	// DelayElapsed fires after a successful verification. Close is copied
	// from the ScheduleDelay that armed it.
	DelayElapsed struct {
		Epoch uint64
		Close bool
	}
)

func (InputChanged) event()  {}
func (DigitEntered) event()  {}
func (CodePasted) event()    {}
func (Backspace) event()     {}
func (Submit) event()        {}
func (SwitchMode) event()    {}
func (Back) event()          {}
func (Close) event()         {}
func (Tick) event()          {}
func (Resend) event()        {}
func (LoginDone) event()     {}
func (RegisterDone) event()  {}
func (VerifyDone) event()    {}
func (AutoLoginDone) event() {}
func (ResendDone) event()    {}
func (DelayElapsed) event()  {}
