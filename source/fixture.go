package source

import (
	"context"
	"edunova/common"
	"edunova/fixtures"
	"edunova/models"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixture serves accounts, documents and videos from static JSON files.
// Accounts are loaded once and kept for the lifetime of the value.
type Fixture struct {
	fsys    fs.FS
	logger  *zap.Logger
	now     func() time.Time
	avatar  func() string
	durable bool

	mu       sync.Mutex
	accounts []models.Account
	loaded   bool
}

// FixtureOption configures a Fixture.
type FixtureOption func(*Fixture)

// WithDurableRegistration keeps registered accounts in memory so a later Login in
// the same process finds them. Without it a registration only lives in the session.
func WithDurableRegistration() FixtureOption {
	return func(f *Fixture) { f.durable = true }
}

// WithClock overrides the clock used for join dates.
func WithClock(now func() time.Time) FixtureOption {
	return func(f *Fixture) { f.now = now }
}

// WithAvatarPicker overrides the random avatar choice.
func WithAvatarPicker(pick func() string) FixtureOption {
	return func(f *Fixture) { f.avatar = pick }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) FixtureOption {
	return func(f *Fixture) { f.logger = logger }
}

// NewFixture reads fixtures from fsys. A nil fsys means the embedded dataset.
func NewFixture(fsys fs.FS, opts ...FixtureOption) *Fixture {
	if fsys == nil {
		fsys = fixtures.FS
	}
	f := &Fixture{
		fsys:   fsys,
		logger: zap.NewNop(),
		now:    time.Now,
		avatar: models.RandomAvatar,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Accounts returns the loaded accounts, including durable registrations.
func (f *Fixture) Accounts(ctx context.Context) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadAccounts(); err != nil {
		return nil, err
	}
	out := make([]models.Account, len(f.accounts))
	copy(out, f.accounts)
	return out, nil
}

// Login compares email and password with exact, case-sensitive equality.
func (f *Fixture) Login(ctx context.Context, email, password string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadAccounts(); err != nil {
		return models.Session{}, err
	}

	for _, acc := range f.accounts {
		if acc.Email == email && acc.Password == password {
			f.logger.Debug("fixture login matched", zap.Int("user_id", acc.ID))
			return models.Session{User: acc.User(), Token: newToken()}, nil
		}
	}
	return models.Session{}, common.ErrInvalidCredentials
}

// Register creates a new account with id = count+1, a random avatar and today's
// join date. The fixture files are never rewritten.
func (f *Fixture) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.loadAccounts(); err != nil {
		return models.Session{}, err
	}

	for _, acc := range f.accounts {
		if acc.Email == reg.Email {
			return models.Session{}, common.ErrDuplicateEmail
		}
	}

	acc := models.Account{
		ID:        len(f.accounts) + 1,
		FullName:  reg.FullName,
		Email:     reg.Email,
		Avatar:    f.avatar(),
		Level:     reg.Level,
		Specialty: reg.Specialty,
		JoinDate:  f.now().Format(models.JoinDateLayout),
	}
	if f.durable {
		acc.Password = reg.Password
		f.accounts = append(f.accounts, acc)
		f.logger.Info("registered account kept in memory", zap.Int("user_id", acc.ID))
	}
	return models.Session{User: acc.User(), Token: newToken()}, nil
}

// Logout is a no-op: fixture tokens are not tracked.
func (f *Fixture) Logout(ctx context.Context, token string) error {
	return nil
}

func (f *Fixture) Documents(ctx context.Context) ([]models.Document, error) {
	docs, err := fixtures.Load[models.Document](f.fsys, fixtures.DocumentsFile, fixtures.DocumentsKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDataSourceUnavailable, err)
	}
	return docs, nil
}

func (f *Fixture) Videos(ctx context.Context) ([]models.Video, error) {
	videos, err := fixtures.Load[models.Video](f.fsys, fixtures.VideosFile, fixtures.VideosKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDataSourceUnavailable, err)
	}
	return videos, nil
}

// loadAccounts must be called with f.mu held. A failed load is retried next time.
func (f *Fixture) loadAccounts() error {
	if f.loaded {
		return nil
	}
	accounts, err := fixtures.Load[models.Account](f.fsys, fixtures.AccountsFile, fixtures.AccountsKey)
	if err != nil {
		f.logger.Warn("failed to load accounts", zap.Error(err))
		return fmt.Errorf("%w: %v", common.ErrDataSourceUnavailable, err)
	}
	f.accounts, f.loaded = accounts, true
	return nil
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
