package integration_tests

import (
	"context"
	"edunova/api"
	"edunova/common"
	"edunova/config"
	"edunova/content"
	"edunova/db"
	"edunova/fixtures"
	"edunova/models"
	"edunova/session"
	"edunova/settings"
	"edunova/source"
	"edunova/store"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJwtSecret = "a-very-secure-secret-for-testing-only"

var serverBaseURL string

// --- Test Main: Setup & Teardown ---

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "edunova_integration_")
	if err != nil {
		log.Fatalf("FATAL: failed to create temp dir: %v", err)
	}

	cfg := &config.Config{
		DbFilePath:    filepath.Join(dir, "test_db.json"),
		SaveInterval:  time.Hour,
		JwtSecret:     testJwtSecret,
		TokenLifetime: time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
	database, err := db.NewDatabase(cfg, fixtures.FS, nil)
	if err != nil {
		log.Fatalf("FATAL: failed to open database: %v", err)
	}

	srv := httptest.NewServer(api.NewRouter(database, cfg, nil, nil))
	serverBaseURL = srv.URL

	code := m.Run()

	srv.Close()
	_ = database.Close()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// newClientStack wires a client process the way the CLI does for --source=remote.
func newClientStack(t *testing.T, kv store.Store) (*source.Client, *session.Manager) {
	t.Helper()
	client := source.NewClient(serverBaseURL, 5*time.Second, nil, nil)
	mgr := session.NewManager(client, kv, nil)
	client.SetTokenSource(mgr.Token)
	require.NoError(t, mgr.Restore(context.Background()))
	return client, mgr
}

func TestSessionWorkflow(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	client, mgr := newClientStack(t, kv)

	// --- Anonymous ---
	assert.Equal(t, session.Anonymous, mgr.State())
	_, err := client.Settings().Get(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "settings need a session")

	// --- Wrong password ---
	_, err = mgr.Login(ctx, "fatima.trabelsi@email.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, session.Anonymous, mgr.State())

	// --- Empty fields fail like any other mismatch ---
	_, err = mgr.Login(ctx, "fatima.trabelsi@email.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = mgr.Login(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, session.Anonymous, mgr.State())

	// --- Login ---
	sess, err := mgr.Login(ctx, "fatima.trabelsi@email.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.User.ID)
	assert.Equal(t, session.Authenticated, mgr.State())

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.User, me)

	// --- Settings round trip ---
	s, err := client.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.Defaults(), s)

	s.Language = "ar"
	s.Privacy.ProfileVisibility = "friends"
	require.NoError(t, client.Settings().Update(ctx, s))
	got, err := client.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	bad := s
	bad.Theme = "neon"
	assert.ErrorIs(t, client.Settings().Update(ctx, bad), common.ErrInvalidInput)

	// --- Progress ---
	require.NoError(t, client.Progress().Update(ctx, "document", 1, 100, true))
	require.NoError(t, client.Progress().Update(ctx, "video", 3, 45, false))
	entries, err := client.Progress().List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	stats, err := client.Progress().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Courses: 1, SuccessRate: 50, ActiveThisWeek: 2}, stats)

	// --- Restart: a second process restores the session from the store ---
	client2, mgr2 := newClientStack(t, kv)
	assert.Equal(t, session.Authenticated, mgr2.State())
	me, err = client2.Me(ctx)
	require.NoError(t, err, "restored token is still valid")
	assert.Equal(t, 2, me.ID)

	// --- Logout revokes the token on the backend ---
	token := mgr2.Token()
	require.NoError(t, mgr2.Logout(ctx))
	assert.Equal(t, session.Anonymous, mgr2.State())

	stale := source.NewClient(serverBaseURL, 5*time.Second, func() string { return token }, nil)
	_, err = stale.Me(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized, "revoked token is rejected")

	_, restoredAfterLogout := newClientStack(t, kv)
	assert.Equal(t, session.Anonymous, restoredAfterLogout.State(), "logout cleared the store")
}

func TestRegisterWorkflow(t *testing.T) {
	ctx := context.Background()
	_, mgr := newClientStack(t, store.NewMemory())

	_, err := mgr.Register(ctx, models.Registration{
		FullName: "Ines Hamdi", Email: "ines.hamdi@email.com", Password: "pw1", ConfirmPassword: "pw2",
	})
	assert.ErrorIs(t, err, common.ErrPasswordMismatch, "checked before reaching the backend")

	_, err = mgr.Register(ctx, models.Registration{FullName: "Dup", Email: "salma.bouazizi@email.com", Password: "x"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	sess, err := mgr.Register(ctx, models.Registration{
		FullName: "Ines Hamdi", Email: "ines.hamdi@email.com", Password: "pw1", ConfirmPassword: "pw1", Level: "Prépa",
	})
	require.NoError(t, err)
	assert.Greater(t, sess.User.ID, 6)
	assert.Equal(t, "Prépa", sess.User.Level)

	_, other := newClientStack(t, store.NewMemory())
	again, err := other.Login(ctx, "ines.hamdi@email.com", "pw1")
	require.NoError(t, err, "the backend keeps registrations")
	assert.Equal(t, sess.User.ID, again.User.ID)
}

func TestContentWorkflow(t *testing.T) {
	ctx := context.Background()
	client, _ := newClientStack(t, store.NewMemory())
	catalog := content.NewCatalog(client, nil)

	docs, err := catalog.Documents(ctx, content.Filter{Subject: "Mathématiques", Type: "exercices"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Suites numériques", docs[0].Title)

	remote, err := client.SearchDocuments(ctx, content.Filter{Subject: "Mathématiques", Type: "exercices"})
	require.NoError(t, err)
	assert.Equal(t, docs, remote, "client-side and server-side filtering agree")

	v, err := catalog.Video(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Limites de fonctions", v.Title)

	_, err = catalog.Document(ctx, 404)
	assert.ErrorIs(t, err, common.ErrNotFound)

	subjects, levels, err := catalog.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chimie", "Informatique", "Mathématiques", "Physique"}, subjects)
	assert.Equal(t, []string{"Prépa", "Terminale", "Université"}, levels)
}

func TestBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	client := source.NewClient(url, time.Second, nil, nil)
	mgr := session.NewManager(client, store.NewMemory(), nil)

	_, err := mgr.Login(context.Background(), "a@x.com", "p1")
	assert.ErrorIs(t, err, common.ErrDataSourceUnavailable)
	assert.Equal(t, session.Anonymous, mgr.State())

	_, err = content.NewCatalog(client, nil).Documents(context.Background(), content.Filter{})
	assert.ErrorIs(t, err, common.ErrDataSourceUnavailable)
}
