package authflow

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/logging"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultTickInterval  = time.Second
	DefaultVerifiedDelay = 1500 * time.Millisecond

	outcomeBuffer = 8
)

// AuthAPI is the part of the account API the dialog needs.
// client.HTTPClient satisfies it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.AuthSession, error)
	RegisterUser(ctx context.Context, payload models.RegisterPayload) (*models.AuthUser, error)
	VerifyEmail(ctx context.Context, code string) (*models.StatusMessage, error)
	ResendVerificationCode(ctx context.Context, email string) (*models.StatusMessage, error)
}

type OutcomeKind int

const (
	// OutcomeSuccess carries the session of a completed sign-in.
	OutcomeSuccess OutcomeKind = iota + 1
	// OutcomeClosed is published whenever the dialog closes, after a
	// success as well as on an explicit Close.
	OutcomeClosed
)

type Outcome struct {
	Kind    OutcomeKind
	Session *models.AuthSession
}

type Options struct {
	// Clock drives the countdown and the post-verification delay.
	// Defaults to the real clock.
	Clock clockwork.Clock

	TickInterval  time.Duration
	// VerifiedDelay is how long the verified message stays up before the
	// dialog closes. The session itself is published without waiting.
	VerifiedDelay time.Duration

	Logger logging.Logger
}

// Controller runs the dialog state machine.
//
// Dispatch is safe for concurrent use. API calls run on the dispatching
// goroutine, outside the state lock, so Dispatch returns only after the
// whole chain started by ev (for example verify then auto-login) has been
// applied. Timers run on their own goroutines.
type Controller struct {
	api           AuthAPI
	clock         clockwork.Clock
	tickInterval  time.Duration
	verifiedDelay time.Duration
	log           logging.Logger

	mu       sync.Mutex
	state    State
	tickGen  uint64
	tickStop chan struct{}
	delay    clockwork.Timer
	stopped  bool

	outcomes chan Outcome
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewController(api AuthAPI, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.VerifiedDelay <= 0 {
		opts.VerifiedDelay = DefaultVerifiedDelay
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Controller{
		api:           api,
		clock:         opts.Clock,
		tickInterval:  opts.TickInterval,
		verifiedDelay: opts.VerifiedDelay,
		log:           opts.Logger.With("component", "authflow"),
		state:         NewState(),
		outcomes:      make(chan Outcome, outcomeBuffer),
		done:          make(chan struct{}),
	}
}

// Outcomes delivers success and close notifications. The channel is never
// closed; stop reading after Shutdown.
func (c *Controller) Outcomes() <-chan Outcome {
	return c.outcomes
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Dispatch(ctx context.Context, ev Event) {
	c.dispatch(ctx, ev, 0)
}

// dispatch applies ev. A non-zero gen marks a countdown tick that is
// dropped unless it belongs to the running countdown.
func (c *Controller) dispatch(ctx context.Context, ev Event, gen uint64) {
	c.mu.Lock()
	if c.stopped || (gen != 0 && (gen != c.tickGen || c.tickStop == nil)) {
		c.mu.Unlock()
		return
	}

	prev := c.state
	next, effects := Reduce(c.state, ev)
	c.state = next
	if prev.Mode != next.Mode || prev.Epoch != next.Epoch {
		c.log.Debug(ctx, "auth dialog transition", "from", prev.Mode, "to", next.Mode, "epoch", next.Epoch)
	}

	var deferred []Effect
	for _, e := range effects {
		switch e := e.(type) {
		case StartCountdown:
			c.startCountdownLocked()
		case StopCountdown:
			c.stopCountdownLocked()
		case ScheduleDelay:
			c.scheduleDelayLocked(e)
		case CancelTimers:
			c.cancelDelayLocked()
		default:
			deferred = append(deferred, e)
		}
	}
	c.mu.Unlock()

	for _, e := range deferred {
		c.perform(ctx, e)
	}
}

func (c *Controller) perform(ctx context.Context, e Effect) {
	switch e := e.(type) {
	case CallLogin:
		session, err := c.api.Login(ctx, e.Email, e.Password)
		c.logResult(ctx, "login", err)
		if e.Auto {
			c.Dispatch(ctx, AutoLoginDone{Epoch: e.Epoch, Session: session, Err: err})
			return
		}
		c.Dispatch(ctx, LoginDone{Epoch: e.Epoch, Session: session, Err: err})

	case CallRegister:
		user, err := c.api.RegisterUser(ctx, e.Payload)
		c.logResult(ctx, "register", err)
		c.Dispatch(ctx, RegisterDone{Epoch: e.Epoch, User: user, Err: err})

	case CallVerify:
		res, err := c.api.VerifyEmail(ctx, e.Code)
		c.logResult(ctx, "verify email", err)
		c.Dispatch(ctx, VerifyDone{Epoch: e.Epoch, Result: res, Err: err})

	case CallResend:
		res, err := c.api.ResendVerificationCode(ctx, e.Email)
		c.logResult(ctx, "resend code", err)
		c.Dispatch(ctx, ResendDone{Epoch: e.Epoch, Result: res, Err: err})

	case EmitSuccess:
		session := e.Session
		c.publish(ctx, Outcome{Kind: OutcomeSuccess, Session: &session})

	case EmitClose:
		c.publish(ctx, Outcome{Kind: OutcomeClosed})
	}
}

func (c *Controller) logResult(ctx context.Context, op string, err error) {
	if err != nil {
		c.log.Info(ctx, op+" failed", "error", err)
		return
	}
	c.log.Debug(ctx, op+" succeeded")
}

func (c *Controller) publish(ctx context.Context, o Outcome) {
	select {
	case c.outcomes <- o:
	case <-ctx.Done():
		c.log.Warn(ctx, "outcome dropped", "kind", o.Kind, "error", ctx.Err())
	case <-c.done:
	}
}

func (c *Controller) startCountdownLocked() {
	c.stopCountdownLocked()

	gen := c.tickGen
	stop := make(chan struct{})
	c.tickStop = stop
	ticker := c.clock.NewTicker(c.tickInterval)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				c.dispatch(context.Background(), Tick{}, gen)
			}
		}
	}()
}

// stopCountdownLocked also invalidates ticks already in flight.
func (c *Controller) stopCountdownLocked() {
	if c.tickStop != nil {
		close(c.tickStop)
		c.tickStop = nil
	}
	c.tickGen++
}

func (c *Controller) scheduleDelayLocked(e ScheduleDelay) {
	c.cancelDelayLocked()
	c.delay = c.clock.AfterFunc(c.verifiedDelay, func() {
		c.Dispatch(context.Background(), DelayElapsed{Epoch: e.Epoch, Close: e.Close})
	})
}

func (c *Controller) cancelDelayLocked() {
	if c.delay != nil {
		c.delay.Stop()
		c.delay = nil
	}
}

// Shutdown stops all timers and makes further Dispatch calls no-ops.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.stopCountdownLocked()
	c.cancelDelayLocked()
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()
}
