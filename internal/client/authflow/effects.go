package authflow

import "github.com/dmitrijs2005/euem/internal/client/models"

// Effect is work requested by Reduce. Controller performs effects in the
// order they are returned.
type Effect interface {
	effect()
}

type (
	// CallLogin signs in. Auto marks the login that follows verification;
	// its result comes back as AutoLoginDone instead of LoginDone.
	CallLogin struct {
		Epoch    uint64
		Email    string
		Password string
		Auto     bool
	}

	CallRegister struct {
		Epoch   uint64
		Payload models.RegisterPayload
	}

	CallVerify struct {
		Epoch uint64
		Code  string
	}

	CallResend struct {
		Epoch uint64
		Email string
	}

	// StartCountdown (re)starts the one-second resend ticker.
	StartCountdown struct{}
	StopCountdown  struct{}

	// ScheduleDelay arms the post-verification timer that produces
	// DelayElapsed. The session has already been emitted by then; Close
	// says whether the dialog closes when the timer fires or returns to
	// sign-in instead.
	ScheduleDelay struct {
		Epoch uint64
		Close bool
	}

	// CancelTimers disarms any pending ScheduleDelay.
	CancelTimers struct{}

	EmitSuccess struct {
		Session models.AuthSession
	}

	EmitClose struct{}
)

func (CallLogin) effect()      {}
func (CallRegister) effect()   {}
func (CallVerify) effect()     {}
func (CallResend) effect()     {}
func (StartCountdown) effect() {}
func (StopCountdown) effect()  {}
func (ScheduleDelay) effect()  {}
func (CancelTimers) effect()   {}
func (EmitSuccess) effect()    {}
func (EmitClose) effect()      {}
