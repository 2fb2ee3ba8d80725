// Package session holds a signed-in user's identity and token on the client
// side, mirrors them to a Storage and ends the session after a window
// without user interaction.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/supportinsights/hub/internal/core/domain"
)

const (
	DefaultInactivityTimeout = 10 * time.Minute

	// ReasonInactivity is stored under KeyLogoutReason when the inactivity
	// window elapses.
	ReasonInactivity = "inactivity"

	LoginFailedMessage     = "An error occurred during login"
	LoginInProgressMessage = "A login is already in progress"
	LoginCancelledMessage  = "Login was cancelled"
	SessionExpiredMessage  = "You were logged out due to 10 minutes of inactivity. Please log in again."

	storageTimeout = 5 * time.Second
)

// RestorePolicy decides what New does with a previously persisted session.
type RestorePolicy int

const (
	// RestoreNever discards any persisted session on start.
	RestoreNever RestorePolicy = iota
	// RestoreUnexpired resumes a persisted session whose token has not
	// expired and whose last activity is inside the inactivity window.
	RestoreUnexpired
)

// Interaction is a user input event that counts as activity.
type Interaction int

const (
	PointerDown Interaction = iota
	PointerMove
	KeyDown
	Scroll
	TouchStart
	Click
)

var interactionNames = [...]string{"pointerdown", "pointermove", "keydown", "scroll", "touchstart", "click"}

func (i Interaction) String() string {
	if i < 0 || int(i) >= len(interactionNames) {
		return "unknown"
	}
	return interactionNames[i]
}

// Result is the outcome of Login. Error is a user-facing message.
type Result struct {
	Success bool
	Error   string
}

// State is a consistent snapshot of the client.
type State struct {
	Identity      *domain.PublicUser
	Token         string
	LastActivity  time.Time
	Authenticated bool
	Loading       bool
}

type Option func(*Client)

func WithStorage(s Storage) Option { return func(c *Client) { c.store = s } }

func WithClock(clk Clock) Option { return func(c *Client) { c.clock = clk } }

func WithInactivityTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithRestorePolicy(p RestorePolicy) Option { return func(c *Client) { c.restore = p } }

func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.logger = l } }

// Client is the session state machine. Identity and token are always set
// and cleared together under mu.
type Client struct {
	api     AuthAPI
	store   Storage
	clock   Clock
	timeout time.Duration
	restore RestorePolicy
	logger  zerolog.Logger

	mu           sync.Mutex
	identity     *domain.PublicUser
	token        string
	lastActivity time.Time
	timer        Timer
	timerGen     uint64
	// epoch advances on every logout and timeout; a login that started in
	// an older epoch is discarded.
	epoch   uint64
	loading bool
	closed  bool
}

// New builds a client and applies the restore policy to whatever the
// storage already holds.
func New(api AuthAPI, opts ...Option) (*Client, error) {
	c := &Client{
		api:     api,
		store:   NewMemoryStorage(),
		clock:   SystemClock,
		timeout: DefaultInactivityTimeout,
		restore: RestoreNever,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.restore == RestoreUnexpired && c.restoreLocked() {
		return c, nil
	}
	if err := c.clearStorage(); err != nil {
		return nil, err
	}
	return c, nil
}

// Login authenticates against the server. It never returns an error: every
// failure is reported as a Result with a user-facing message and leaves the
// client unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) Result {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result{Error: LoginFailedMessage}
	}
	if c.loading {
		c.mu.Unlock()
		return Result{Error: LoginInProgressMessage}
	}
	c.loading = true
	started := c.epoch
	c.mu.Unlock()

	resp, err := c.api.Login(ctx, email, password)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if c.epoch != started || c.closed {
		c.logger.Debug().Msg("discarding login that finished after logout")
		return Result{Error: LoginCancelledMessage}
	}

	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return Result{Error: rejected.Message}
		}
		c.logger.Warn().Err(err).Msg("login request failed")
		return Result{Error: LoginFailedMessage}
	}
	if resp == nil || resp.Token == "" || resp.User.ID == "" {
		c.logger.Warn().Msg("login response missing token or identity")
		return Result{Error: LoginFailedMessage}
	}

	user := resp.User
	c.identity = &user
	c.token = resp.Token
	c.lastActivity = c.clock.Now()
	c.persistLocked()
	c.armLocked(c.timeout)

	c.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session started")
	return Result{Success: true}
}

// Logout ends the session. Calling it without a session is a no-op apart
// from discarding any login still in flight.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	wasAuthenticated := c.identity != nil
	c.clearLocked()
	if wasAuthenticated {
		c.logger.Info().Msg("session ended by logout")
	}
}

// Touch records a user interaction and restarts the inactivity window. It
// is ignored while no session exists.
func (c *Client) Touch(i Interaction) {
	if i < PointerDown || i > Click {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.identity == nil || c.closed {
		return
	}
	c.lastActivity = c.clock.Now()
	c.setStorage(KeyLastActivity, formatMillis(c.lastActivity))
	c.armLocked(c.timeout)
}

// ConsumeLogoutReason returns the recorded logout reason once and clears it.
func (c *Client) ConsumeLogoutReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	reason, ok, err := c.store.Get(ctx, KeyLogoutReason)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read logout reason")
		return ""
	}
	if !ok {
		return ""
	}
	if err := c.store.Delete(ctx, KeyLogoutReason); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear logout reason")
	}
	return reason
}

// LogoutNotice maps a logout reason to the message shown on the login view.
func LogoutNotice(reason string) string {
	if reason == ReasonInactivity {
		return SessionExpiredMessage
	}
	return ""
}

// Close cancels the inactivity timer. The session itself is left as is.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.stopTimerLocked()
}

func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity != nil
}

func (c *Client) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Client) Identity() (domain.PublicUser, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.identity == nil {
		return domain.PublicUser{}, false
	}
	return *c.identity, true
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Token:         c.token,
		LastActivity:  c.lastActivity,
		Authenticated: c.identity != nil,
		Loading:       c.loading,
	}
	if c.identity != nil {
		id := *c.identity
		s.Identity = &id
	}
	return s
}

func (c *Client) expire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.timerGen || c.identity == nil {
		return
	}
	c.epoch++
	c.clearLocked()
	c.setStorage(KeyLogoutReason, ReasonInactivity)
	c.logger.Info().Dur("window", c.timeout).Msg("session ended by inactivity")
}

// armLocked replaces any pending timer.
func (c *Client) armLocked(d time.Duration) {
	c.stopTimerLocked()
	gen := c.timerGen
	c.timer = c.clock.AfterFunc(d, func() { c.expire(gen) })
}

func (c *Client) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Client) clearLocked() {
	c.stopTimerLocked()
	c.identity = nil
	c.token = ""
	c.lastActivity = time.Time{}
	if err := c.clearStorage(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

func (c *Client) clearStorage() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	return c.store.Delete(ctx, KeyToken, KeyUser, KeyLastActivity)
}

func (c *Client) persistLocked() {
	user, err := json.Marshal(c.identity)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode identity")
		return
	}
	c.setStorage(KeyToken, c.token)
	c.setStorage(KeyUser, string(user))
	c.setStorage(KeyLastActivity, formatMillis(c.lastActivity))
}

func (c *Client) setStorage(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	if err := c.store.Set(ctx, key, value); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to persist session")
	}
}

// restoreLocked resumes a persisted session when the token is unexpired
// and the last activity is inside the window.
func (c *Client) restoreLocked() bool {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	token, ok, err := c.store.Get(ctx, KeyToken)
	if err != nil || !ok || token == "" {
		return false
	}
	rawUser, ok, err := c.store.Get(ctx, KeyUser)
	if err != nil || !ok {
		return false
	}
	rawActivity, ok, err := c.store.Get(ctx, KeyLastActivity)
	if err != nil || !ok {
		return false
	}

	var user domain.PublicUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user.ID == "" {
		return false
	}
	millis, err := strconv.ParseInt(rawActivity, 10, 64)
	if err != nil {
		return false
	}
	last := time.UnixMilli(millis)

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return false
	}

	now := c.clock.Now()
	if !claims.ExpiresAt.After(now) {
		return false
	}
	idle := now.Sub(last)
	if idle < 0 {
		return false
	}
	if idle >= c.timeout {
		// The window ran out while nobody was watching.
		c.setStorage(KeyLogoutReason, ReasonInactivity)
		return false
	}

	c.identity = &user
	c.token = token
	c.lastActivity = last
	c.armLocked(c.timeout - idle)
	c.logger.Info().Str("user_id", user.ID).Msg("session restored")
	return true
}

func formatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
