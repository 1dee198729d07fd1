package session

import (
	"context"
	"edunova/common"
	"edunova/models"
	"edunova/source"
	"edunova/store"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fixtureSource() *source.Fixture {
	return source.NewFixture(fstest.MapFS{
		"accounts.json": {Data: []byte(`{"accounts":[
			{"id":1,"fullName":"A","email":"a@x.com","password":"p1","avatar":"a.jpg","level":"Prépa","specialty":"MPSI","joinDate":"2024-01-15"}
		]}`)},
		"documents.json": {Data: []byte(`{"documents":[]}`)},
		"videos.json":    {Data: []byte(`{"videos":[]}`)},
	}, source.WithDurableRegistration())
}

// stubSource lets a test control the source's answers. Login blocks on gate when it is set.
type stubSource struct {
	gate      chan struct{}
	entered   chan struct{}
	loginErr  error
	logouts   []string
	logoutErr error
}

func (s *stubSource) Login(ctx context.Context, email, password string) (models.Session, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.loginErr != nil {
		return models.Session{}, s.loginErr
	}
	return models.Session{User: models.User{ID: 9, Email: email}, Token: "stub-token"}, nil
}

func (s *stubSource) Register(ctx context.Context, reg models.Registration) (models.Session, error) {
	return models.Session{User: models.User{ID: 10, Email: reg.Email, FullName: reg.FullName}, Token: "reg-token"}, nil
}

func (s *stubSource) Logout(ctx context.Context, token string) error {
	s.logouts = append(s.logouts, token)
	return s.logoutErr
}

func (s *stubSource) Documents(ctx context.Context) ([]models.Document, error) { return nil, nil }
func (s *stubSource) Videos(ctx context.Context) ([]models.Video, error)       { return nil, nil }

// failingStore rejects writes to one key, and every delete when failDelete is set.
type failingStore struct {
	*store.Memory
	failKey    string
	failDelete bool
}

func (f *failingStore) Set(ctx context.Context, key, value string) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingStore) Delete(ctx context.Context, keys ...string) error {
	if f.failDelete {
		return errors.New("read-only file system")
	}
	return f.Memory.Delete(ctx, keys...)
}

func TestLogin_Success(t *testing.T) {
	kv := store.NewMemory()
	m := NewManager(fixtureSource(), kv, nil)
	ctx := context.Background()

	sess, err := m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	want := models.User{ID: 1, FullName: "A", Email: "a@x.com", Avatar: "a.jpg", Level: "Prépa", Specialty: "MPSI", JoinDate: "2024-01-15"}
	if diff := cmp.Diff(want, sess.User); diff != "" {
		t.Errorf("session user mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, sess.Token, m.Token())

	persisted, err := kv.Get(ctx, store.KeyIsLoggedIn)
	require.NoError(t, err)
	assert.Equal(t, "true", persisted)

	var stored models.User
	found, err := store.GetJSON(ctx, kv, store.KeyCurrentUser, &stored)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, stored)
}

func TestLogin_InvalidCredentialsLeavesStateUnchanged(t *testing.T) {
	kv := store.NewMemory()
	m := NewManager(fixtureSource(), kv, nil)
	ctx := context.Background()

	_, err := m.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, Anonymous, m.State())
	_, err = kv.Get(ctx, store.KeyCurrentUser)
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing persisted")

	_, err = m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	_, err = m.Login(ctx, "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials, "empty password is just a wrong password")
	require.NotNil(t, m.Current())
	assert.Equal(t, 1, m.Current().ID, "failed login keeps the previous session")
}

func TestLogin_SourceFailureIsUnavailable(t *testing.T) {
	src := &stubSource{loginErr: errors.New("connection reset")}
	m := NewManager(src, store.NewMemory(), nil)

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, common.ErrDataSourceUnavailable)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Nil(t, m.Current())
}

func TestLogin_InProgress(t *testing.T) {
	src := &stubSource{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	m := NewManager(src, store.NewMemory(), nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := m.Login(ctx, "a@x.com", "p1")
		done <- err
	}()
	<-src.entered

	_, err := m.Login(ctx, "b@x.com", "p2")
	assert.ErrorIs(t, err, common.ErrAuthInProgress)
	_, err = m.Register(ctx, models.Registration{FullName: "B", Email: "b@x.com", Password: "p2"})
	assert.ErrorIs(t, err, common.ErrAuthInProgress)

	close(src.gate)
	require.NoError(t, <-done)
	require.NotNil(t, m.Current())
	assert.Equal(t, "a@x.com", m.Current().Email, "the first attempt wins")

	src.gate = nil
	src.entered = nil
	_, err = m.Login(ctx, "b@x.com", "p2")
	assert.NoError(t, err, "guard is released afterwards")
}

func TestLogin_StoreFailureRollsBack(t *testing.T) {
	kv := &failingStore{Memory: store.NewMemory(), failKey: store.KeyToken}
	m := NewManager(fixtureSource(), kv, nil)
	ctx := context.Background()

	_, err := m.Login(ctx, "a@x.com", "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Nil(t, m.Current())

	_, err = kv.Get(ctx, store.KeyCurrentUser)
	assert.ErrorIs(t, err, store.ErrNotFound, "partial write is undone")
	_, err = kv.Get(ctx, store.KeyIsLoggedIn)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegister(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)
	ctx := context.Background()

	sess, err := m.Register(ctx, models.Registration{
		FullName: "B", Email: "b@x.com", Password: "pw", ConfirmPassword: "pw", Level: "Terminale",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sess.User.ID)
	assert.Equal(t, "Terminale", sess.User.Level)
	assert.Equal(t, Authenticated, m.State())
	assert.Equal(t, "b@x.com", m.Current().Email)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name   string
		reg    models.Registration
		expect error
	}{
		{"Duplicate Email", models.Registration{FullName: "A2", Email: "a@x.com", Password: "x"}, common.ErrDuplicateEmail},
		{"Password Mismatch", models.Registration{FullName: "B", Email: "b@x.com", Password: "x", ConfirmPassword: "y"}, common.ErrPasswordMismatch},
		{"Missing Name", models.Registration{Email: "b@x.com", Password: "x"}, common.ErrInvalidInput},
		{"Blank Email", models.Registration{FullName: "B", Email: "  ", Password: "x"}, common.ErrInvalidInput},
		{"Missing Password", models.Registration{FullName: "B", Email: "b@x.com"}, common.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(fixtureSource(), store.NewMemory(), nil)
			_, err := m.Register(context.Background(), tt.reg)
			assert.ErrorIs(t, err, tt.expect)
			assert.Equal(t, Anonymous, m.State())
		})
	}
}

func TestLogout(t *testing.T) {
	src := &stubSource{logoutErr: errors.New("backend down")}
	kv := store.NewMemory()
	m := NewManager(src, kv, nil)
	ctx := context.Background()

	require.NoError(t, m.Logout(ctx), "logout while anonymous is a no-op")
	assert.Empty(t, src.logouts, "no token to revoke")

	_, err := m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx), "source failure does not fail logout")
	assert.Equal(t, []string{"stub-token"}, src.logouts)
	assert.Nil(t, m.Current())
	assert.Empty(t, m.Token())
	assert.Equal(t, Anonymous, m.State())

	for _, key := range []string{store.KeyCurrentUser, store.KeyIsLoggedIn, store.KeyToken} {
		_, err := kv.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound, "key %s cleared", key)
	}

	require.NoError(t, m.Logout(ctx), "second logout is idempotent")
	assert.Len(t, src.logouts, 1)
}

func TestLogout_StoreFailureKeepsSession(t *testing.T) {
	src := &stubSource{}
	kv := &failingStore{Memory: store.NewMemory()}
	m := NewManager(src, kv, nil)
	ctx := context.Background()

	sess, err := m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	kv.failDelete = true
	err = m.Logout(ctx)
	require.Error(t, err)
	assert.Equal(t, Authenticated, m.State(), "memory matches the store that still holds the session")
	assert.Equal(t, sess.Token, m.Token())
	assert.Empty(t, src.logouts, "token is not revoked")

	kv.failDelete = false
	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, Anonymous, m.State())

	restored := NewManager(src, kv, nil)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, Anonymous, restored.State())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)
	assert.Nil(t, m.Current())

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	require.NoError(t, err)

	first := m.Current()
	first.FullName = "changed"
	second := m.Current()
	assert.Equal(t, "A", second.FullName)
	assert.Equal(t, *m.Current(), *second, "repeated reads agree")
}

func TestRestore(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()

	first := NewManager(fixtureSource(), kv, nil)
	sess, err := first.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)

	second := NewManager(fixtureSource(), kv, nil)
	assert.Equal(t, Anonymous, second.State(), "nothing is read before Restore")
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, Authenticated, second.State())
	assert.Equal(t, sess.User, *second.Current())
	assert.Equal(t, sess.Token, second.Token())
}

func TestRestore_Empty(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)
	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, Anonymous, m.State())
}

func TestRestore_CorruptValueIsDropped(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "Undecodable", value: "{broken"},
		{name: "Null", value: "null"},
		{name: "Empty Object", value: "{}"},
		{name: "Zero ID", value: `{"id":0,"email":"a@x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemory()
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, store.KeyCurrentUser, tt.value))
			require.NoError(t, kv.Set(ctx, store.KeyIsLoggedIn, "true"))
			require.NoError(t, kv.Set(ctx, store.KeyToken, "stale"))

			m := NewManager(fixtureSource(), kv, nil)
			require.NoError(t, m.Restore(ctx))
			assert.Equal(t, Anonymous, m.State())
			assert.Nil(t, m.Current())
			assert.Empty(t, m.Token())

			for _, key := range []string{store.KeyCurrentUser, store.KeyIsLoggedIn, store.KeyToken} {
				_, err := kv.Get(ctx, key)
				assert.ErrorIs(t, err, store.ErrNotFound, key)
			}
		})
	}
}

func receive(t *testing.T, ch <-chan *models.User) *models.User {
	t.Helper()
	select {
	case u, ok := <-ch:
		require.True(t, ok, "channel closed")
		return u
	case <-time.After(time.Second):
		t.Fatal("no value published")
		return nil
	}
}

func TestSubscribe(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)
	ctx := context.Background()

	ch, cancel := m.Subscribe()
	defer cancel()
	assert.Nil(t, receive(t, ch), "replays the anonymous state")

	_, err := m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	u := receive(t, ch)
	require.NotNil(t, u)
	assert.Equal(t, 1, u.ID)

	require.NoError(t, m.Logout(ctx))
	assert.Nil(t, receive(t, ch))

	late, cancelLate := m.Subscribe()
	defer cancelLate()
	assert.Nil(t, receive(t, late), "late subscriber sees the current value")
}

func TestSubscribe_SlowReaderSeesLatest(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)
	ctx := context.Background()

	ch, cancel := m.Subscribe()
	defer cancel()

	_, err := m.Login(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	_, err = m.Register(ctx, models.Registration{FullName: "B", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)

	u := receive(t, ch)
	require.NotNil(t, u)
	assert.Equal(t, "b@x.com", u.Email, "only the latest value is buffered")

	select {
	case extra := <-ch:
		t.Fatalf("unexpected extra value %+v", extra)
	default:
	}
}

func TestSubscribe_Cancel(t *testing.T) {
	m := NewManager(fixtureSource(), store.NewMemory(), nil)

	ch, cancel := m.Subscribe()
	receive(t, ch)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "channel is closed")

	_, err := m.Login(context.Background(), "a@x.com", "p1")
	assert.NoError(t, err, "publishing after cancel does not block or panic")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ANONYMOUS", Anonymous.String())
	assert.Equal(t, "AUTHENTICATED", Authenticated.String())
}
