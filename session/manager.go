// Package session holds the authenticated-user state of a running client.
//
// A Manager executes login, registration and logout against a source.Source,
// mirrors the session into a store.Store so it survives restarts, and publishes
// every change to its subscribers.
package session

import (
	"context"
	"edunova/common"
	"edunova/models"
	"edunova/source"
	"edunova/store"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// State is the position of a Manager in its two-state machine.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "AUTHENTICATED"
	default:
		return "ANONYMOUS"
	}
}

const loggedInMarker = "true"

// Manager owns the single session of a client process.
type Manager struct {
	src    source.Source
	kv     store.Store
	logger *zap.Logger

	// busy is set while a login or registration is in flight.
	busy atomic.Bool

	mu      sync.RWMutex
	current *models.User
	token   string
	subs    map[int]chan *models.User
	nextSub int
}

// NewManager builds an anonymous Manager. Call Restore to pick up a persisted session.
func NewManager(src source.Source, kv store.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		src:    src,
		kv:     kv,
		logger: logger,
		subs:   make(map[int]chan *models.User),
	}
}

// --- Authentication ---

// Login authenticates against the source and makes the result the active session.
// On failure the current state is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (models.Session, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return models.Session{}, common.ErrAuthInProgress
	}
	defer m.busy.Store(false)

	sess, err := m.src.Login(ctx, email, password)
	if err != nil {
		m.logger.Info("login failed", zap.String("email", email), zap.Error(err))
		return models.Session{}, sourceError("login", err)
	}
	if err := m.establish(ctx, sess); err != nil {
		return models.Session{}, err
	}
	m.logger.Info("user logged in", zap.Int("user_id", sess.User.ID))
	return sess, nil
}

// Register creates an account through the source and makes it the active session.
func (m *Manager) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	if err := validateRegistration(reg); err != nil {
		return models.Session{}, err
	}
	if !m.busy.CompareAndSwap(false, true) {
		return models.Session{}, common.ErrAuthInProgress
	}
	defer m.busy.Store(false)

	sess, err := m.src.Register(ctx, reg)
	if err != nil {
		m.logger.Info("registration failed", zap.String("email", reg.Email), zap.Error(err))
		return models.Session{}, sourceError("register", err)
	}
	if err := m.establish(ctx, sess); err != nil {
		return models.Session{}, err
	}
	m.logger.Info("user registered", zap.Int("user_id", sess.User.ID))
	return sess, nil
}

// Logout clears the session in the store, then in memory. Calling it while
// anonymous is a no-op. If the store cannot be cleared the session stays active.
// The source is told about the token on a best effort basis.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, store.KeyCurrentUser, store.KeyIsLoggedIn, store.KeyToken); err != nil {
		m.logger.Warn("failed to clear persisted session", zap.Error(err))
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}

	m.mu.Lock()
	token := m.token
	wasActive := m.current != nil
	m.current, m.token = nil, ""
	if wasActive {
		m.publishLocked(nil)
	}
	m.mu.Unlock()

	if token != "" {
		if err := m.src.Logout(ctx, token); err != nil {
			m.logger.Warn("source logout failed", zap.Error(err))
		}
	}
	if wasActive {
		m.logger.Info("user logged out")
	}
	return nil
}

// --- State ---

// Current returns a copy of the active user, or nil when anonymous.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Token returns the bearer credential of the active session, or "".
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) IsAuthenticated() bool {
	return m.Current() != nil
}

func (m *Manager) State() State {
	if m.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Restore publishes the persisted session, if any, without re-validating it.
// A value that cannot be decoded, or that names no user (null, {}), is dropped
// and the Manager stays anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	var u models.User
	found, err := store.GetJSON(ctx, m.kv, store.KeyCurrentUser, &u)
	if err != nil && !found {
		return fmt.Errorf("failed to read persisted session: %w", err)
	}
	if err == nil && found && u.ID <= 0 {
		err = errors.New("persisted user has no id")
	}
	if err != nil {
		m.logger.Warn("dropping corrupt persisted session", zap.Error(err))
		if delErr := m.kv.Delete(ctx, store.KeyCurrentUser, store.KeyIsLoggedIn, store.KeyToken); delErr != nil {
			m.logger.Warn("failed to clear corrupt session", zap.Error(delErr))
		}
		return nil
	}
	if !found {
		m.logger.Debug("no persisted session")
		return nil
	}

	token, err := m.kv.Get(ctx, store.KeyToken)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to read persisted token: %w", err)
	}

	m.mu.Lock()
	m.current, m.token = &u, token
	m.publishLocked(&u)
	m.mu.Unlock()

	m.logger.Info("session restored", zap.Int("user_id", u.ID))
	return nil
}

// --- Observers ---

// Subscribe returns a channel that receives the current user (nil when anonymous)
// immediately and after every change. A slow reader only sees the latest value.
// The returned function unsubscribes and closes the channel.
func (m *Manager) Subscribe() (<-chan *models.User, func()) {
	ch := make(chan *models.User, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- copyUser(m.current)
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			close(ch)
			m.mu.Unlock()
		})
	}
	return ch, cancel
}

// publishLocked must be called with m.mu held for writing.
func (m *Manager) publishLocked(u *models.User) {
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- copyUser(u)
	}
}

// --- Helpers ---

// establish persists sess and then makes it current. Nothing changes if the store
// rejects the write.
func (m *Manager) establish(ctx context.Context, sess models.Session) error {
	if err := store.SetJSON(ctx, m.kv, store.KeyCurrentUser, sess.User); err != nil {
		return m.rollbackPersist(ctx, err)
	}
	if err := m.kv.Set(ctx, store.KeyIsLoggedIn, loggedInMarker); err != nil {
		return m.rollbackPersist(ctx, err)
	}
	if err := m.kv.Set(ctx, store.KeyToken, sess.Token); err != nil {
		return m.rollbackPersist(ctx, err)
	}

	u := sess.User
	m.mu.Lock()
	m.current, m.token = &u, sess.Token
	m.publishLocked(&u)
	m.mu.Unlock()
	return nil
}

func (m *Manager) rollbackPersist(ctx context.Context, cause error) error {
	m.logger.Error("failed to persist session", zap.Error(cause))

	// Put the previous session back so memory and store agree.
	prev := m.Current()
	token := m.Token()
	if prev == nil {
		_ = m.kv.Delete(ctx, store.KeyCurrentUser, store.KeyIsLoggedIn, store.KeyToken)
	} else {
		_ = store.SetJSON(ctx, m.kv, store.KeyCurrentUser, prev)
		_ = m.kv.Set(ctx, store.KeyToken, token)
	}
	return fmt.Errorf("failed to persist session: %w", cause)
}

func validateRegistration(reg models.Registration) error {
	if strings.TrimSpace(reg.FullName) == "" || strings.TrimSpace(reg.Email) == "" || reg.Password == "" {
		return fmt.Errorf("%w: full name, email and password are required", common.ErrInvalidInput)
	}
	if reg.ConfirmPassword != "" && reg.ConfirmPassword != reg.Password {
		return common.ErrPasswordMismatch
	}
	return nil
}

// sourceError passes the caller-facing sentinels through and reports anything
// else as an unavailable data source.
func sourceError(op string, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrPasswordMismatch),
		errors.Is(err, common.ErrRateLimited),
		errors.Is(err, common.ErrDataSourceUnavailable):
		return err
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrDataSourceUnavailable, err)
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
