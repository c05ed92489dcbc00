package authflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and returns canned results.
type fakeAPI struct {
	mu sync.Mutex

	LoginRet    []*models.AuthSession
	LoginErr    []error
	RegisterRet *models.AuthUser
	RegisterErr error
	VerifyErr   error
	ResendErr   error

	LoginCalls    int
	RegisterCalls int
	VerifyCalls   int
	ResendCalls   int

	LastLoginEmail    string
	LastLoginPassword string
	LastRegister      models.RegisterPayload
	LastVerifyCode    string
	LastResendEmail   string
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.AuthSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.LoginCalls
	f.LoginCalls++
	f.LastLoginEmail, f.LastLoginPassword = email, password

	var (
		s   *models.AuthSession
		err error
	)
	if i < len(f.LoginRet) {
		s = f.LoginRet[i]
	}
	if i < len(f.LoginErr) {
		err = f.LoginErr[i]
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (f *fakeAPI) RegisterUser(_ context.Context, p models.RegisterPayload) (*models.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastRegister = p
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	if f.RegisterRet == nil {
		return &models.AuthUser{ID: "new"}, nil
	}
	return f.RegisterRet, nil
}

func (f *fakeAPI) VerifyEmail(_ context.Context, code string) (*models.StatusMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.VerifyCalls++
	f.LastVerifyCode = code
	if f.VerifyErr != nil {
		return nil, f.VerifyErr
	}
	return &models.StatusMessage{Message: "ok", Success: true}, nil
}

func (f *fakeAPI) ResendVerificationCode(_ context.Context, email string) (*models.StatusMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResendCalls++
	f.LastResendEmail = email
	if f.ResendErr != nil {
		return nil, f.ResendErr
	}
	return &models.StatusMessage{Message: "sent", Success: true}, nil
}

func (f *fakeAPI) calls() (login, register, verify, resend int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LoginCalls, f.RegisterCalls, f.VerifyCalls, f.ResendCalls
}

func newTestController(t *testing.T, api AuthAPI) (*Controller, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	c := NewController(api, Options{Clock: clock})
	t.Cleanup(c.Shutdown)
	return c, clock
}

func nextOutcome(t *testing.T, c *Controller) Outcome {
	t.Helper()
	select {
	case o := <-c.Outcomes():
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no outcome published")
		return Outcome{}
	}
}

func requireNoOutcome(t *testing.T, c *Controller) {
	t.Helper()
	select {
	case o := <-c.Outcomes():
		t.Fatalf("unexpected outcome %+v", o)
	case <-time.After(50 * time.Millisecond):
	}
}

// advanceTicks moves the clock one tick at a time and waits for each tick
// to be applied; the fake ticker drops ticks nobody has received yet.
func advanceTicks(t *testing.T, c *Controller, clock *clockwork.FakeClock, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		want := c.State().TimeLeft - 1
		clock.Advance(time.Second)
		require.Eventually(t, func() bool { return c.State().TimeLeft == want },
			time.Second, time.Millisecond, "tick %d", i+1)
	}
}

func fill(ctx context.Context, c *Controller, events ...Event) {
	for _, ev := range events {
		c.Dispatch(ctx, ev)
	}
}

func register(ctx context.Context, c *Controller) {
	fill(ctx, c, SwitchMode{})
	fill(ctx, c, registerForm("Test User", "new@example.com", "password123!", "password123!")...)
	c.Dispatch(ctx, Submit{})
}

func TestController_SignInSuccess_EmitsSuccessOnceThenClose(t *testing.T) {
	api := &fakeAPI{LoginRet: []*models.AuthSession{&testSession}}
	c, _ := newTestController(t, api)
	ctx := context.Background()

	fill(ctx, c,
		InputChanged{Field: FieldEmail, Value: "test@example.com"},
		InputChanged{Field: FieldPassword, Value: "password123!"},
		Submit{},
	)

	assert.Equal(t, "test@example.com", api.LastLoginEmail)
	assert.Equal(t, "password123!", api.LastLoginPassword)

	o := nextOutcome(t, c)
	require.Equal(t, OutcomeSuccess, o.Kind)
	assert.Equal(t, testSession, *o.Session)
	assert.Equal(t, OutcomeClosed, nextOutcome(t, c).Kind)
	requireNoOutcome(t, c)

	login, _, _, _ := api.calls()
	assert.Equal(t, 1, login)
	assert.Equal(t, NewState().Mode, c.State().Mode)
	assert.False(t, c.State().IsLoading)
}

func TestController_SignInFailure_ShowsError(t *testing.T) {
	api := &fakeAPI{LoginErr: []error{errors.New("Invalid credentials")}}
	c, _ := newTestController(t, api)
	ctx := context.Background()

	fill(ctx, c,
		InputChanged{Field: FieldEmail, Value: "test@example.com"},
		InputChanged{Field: FieldPassword, Value: "nope"},
		Submit{},
	)

	st := c.State()
	assert.Equal(t, "Invalid credentials", st.Error)
	assert.False(t, st.IsLoading)
	requireNoOutcome(t, c)
}

func TestController_PasswordMismatch_MakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(t, api)
	ctx := context.Background()

	fill(ctx, c, SwitchMode{})
	fill(ctx, c, registerForm("Test User", "new@example.com", "password123!", "password124!")...)
	c.Dispatch(ctx, Submit{})

	_, register, _, _ := api.calls()
	assert.Zero(t, register)
	assert.Equal(t, MsgPasswordMismatch, c.State().Error)
}

func TestController_RegisterVerifyAutoLogin(t *testing.T) {
	unverified := testSession.User
	unverified.IsVerified = false
	api := &fakeAPI{
		RegisterRet: &unverified,
		LoginRet:    []*models.AuthSession{&testSession},
	}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)

	assert.Equal(t, models.RegisterPayload{
		Email: "new@example.com", Password: "password123!", FirstName: "Test", LastName: "User",
	}, api.LastRegister)
	st := c.State()
	require.Equal(t, ModeVerify, st.Mode)
	assert.Equal(t, "Verify Your Email", st.Title())
	assert.Equal(t, 60, st.TimeLeft)

	for i, d := range "123456" {
		c.Dispatch(ctx, DigitEntered{Index: i, Value: string(d)})
	}
	c.Dispatch(ctx, Submit{})

	_, _, verify, _ := api.calls()
	assert.Equal(t, 1, verify)
	assert.Equal(t, "123456", api.LastVerifyCode)
	assert.Equal(t, "new@example.com", api.LastLoginEmail)
	assert.Equal(t, "password123!", api.LastLoginPassword)
	assert.True(t, c.State().IsVerified)

	// the session is handed over before the delay starts
	o := nextOutcome(t, c)
	require.Equal(t, OutcomeSuccess, o.Kind)
	assert.Equal(t, testSession, *o.Session)

	// the verified message stays up until the delay elapses
	requireNoOutcome(t, c)
	assert.Equal(t, "Email Verified!", c.State().Title())
	clock.Advance(DefaultVerifiedDelay)

	assert.Equal(t, OutcomeClosed, nextOutcome(t, c).Kind)
	assert.Equal(t, ModeSignIn, c.State().Mode)
}

func TestController_AutoLoginWithoutToken_DoesNotSignIn(t *testing.T) {
	api := &fakeAPI{LoginRet: []*models.AuthSession{{}}}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	fill(ctx, c, CodePasted{Code: "123456"}, Submit{})

	st := c.State()
	assert.Equal(t, ModeSignIn, st.Mode)
	assert.Equal(t, MsgNoSession, st.Error)
	clock.Advance(DefaultVerifiedDelay)
	requireNoOutcome(t, c)
}

func TestController_AutoLoginFailure_FallsBackToSignIn(t *testing.T) {
	api := &fakeAPI{LoginErr: []error{errors.New("Account is disabled")}}
	c, _ := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	fill(ctx, c, CodePasted{Code: "123456"}, Submit{})

	st := c.State()
	assert.Equal(t, ModeSignIn, st.Mode)
	assert.Equal(t, "new@example.com", st.Form.Email)
	assert.Equal(t, "Account is disabled", st.Error)
	requireNoOutcome(t, c)
}

func TestController_CountdownEnablesResend(t *testing.T) {
	api := &fakeAPI{}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	fill(ctx, c, CodePasted{Code: "12"})

	advanceTicks(t, c, clock, 60)
	st := c.State()
	assert.Equal(t, 0, st.TimeLeft)
	assert.True(t, st.CanResend())

	// the countdown has stopped
	clock.Advance(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, c.State().TimeLeft)

	c.Dispatch(ctx, Resend{})
	_, _, _, resend := api.calls()
	assert.Equal(t, 1, resend)
	assert.Equal(t, "new@example.com", api.LastResendEmail)

	st = c.State()
	assert.Equal(t, 60, st.TimeLeft)
	assert.Equal(t, [CodeLength]string{}, st.Code)

	// and a new one is running
	advanceTicks(t, c, clock, 3)
	assert.Equal(t, 57, c.State().TimeLeft)
}

func TestController_ResendBeforeZeroIsIgnored(t *testing.T) {
	api := &fakeAPI{}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	advanceTicks(t, c, clock, 10)
	c.Dispatch(ctx, Resend{})

	_, _, _, resend := api.calls()
	assert.Zero(t, resend)
	assert.Equal(t, 50, c.State().TimeLeft)
}

func TestController_CloseDuringDelay_CancelsDelayedClose(t *testing.T) {
	api := &fakeAPI{LoginRet: []*models.AuthSession{&testSession}}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	fill(ctx, c, CodePasted{Code: "123456"}, Submit{})
	require.True(t, c.State().IsVerified)
	require.Equal(t, OutcomeSuccess, nextOutcome(t, c).Kind)

	c.Dispatch(ctx, Close{})
	assert.Equal(t, OutcomeClosed, nextOutcome(t, c).Kind)

	clock.Advance(DefaultVerifiedDelay * 2)
	requireNoOutcome(t, c)
	assert.Equal(t, ModeSignIn, c.State().Mode)
}

func TestController_BackStopsCountdown(t *testing.T) {
	api := &fakeAPI{}
	c, clock := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	advanceTicks(t, c, clock, 2)
	c.Dispatch(ctx, Back{})

	st := c.State()
	assert.Equal(t, ModeRegister, st.Mode)
	assert.Equal(t, 60, st.TimeLeft)

	clock.Advance(3 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 60, c.State().TimeLeft)
}

func TestController_ShutdownMakesDispatchNoop(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(t, api)
	ctx := context.Background()

	register(ctx, c)
	c.Shutdown()
	c.Shutdown()

	c.Dispatch(ctx, Close{})
	assert.Equal(t, ModeVerify, c.State().Mode)
}

func TestController_RealClock_SuccessDoesNotWaitForDelay(t *testing.T) {
	api := &fakeAPI{LoginRet: []*models.AuthSession{&testSession}}
	c := NewController(api, Options{})
	t.Cleanup(c.Shutdown)
	ctx := context.Background()

	register(ctx, c)
	fill(ctx, c, CodePasted{Code: "123456"}, Submit{})

	select {
	case o := <-c.Outcomes():
		require.Equal(t, OutcomeSuccess, o.Kind)
		assert.Equal(t, testSession, *o.Session)
	case <-time.After(time.Second):
		t.Fatalf("no session within 1s of verification (state %+v)", c.State())
	}
	assert.True(t, c.State().IsVerified, "dialog stays open for the delay")
}
