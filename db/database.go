package db

import (
	"context"
	"edunova/common"
	"edunova/config"
	"edunova/fixtures"
	"edunova/models"
	"edunova/progress"
	"edunova/settings"
	"edunova/utils"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Database holds all backend data and manages concurrent access.
// The embedded models.Database is what gets written to disk; the rest is runtime state.
type Database struct {
	models.Database
	config      *config.Config
	logger      *zap.Logger
	saveTimer   *time.Timer // Timer for debounced saving
	savePending bool
	saveMutex   sync.Mutex // Guards saveTimer and savePending
	persistMu   sync.Mutex // Serialises writes to the database file

	revoked   map[string]time.Time // Token ID -> token expiry
	revokedMu sync.Mutex

	now func() time.Time
}

// NewDatabase loads the database file named in cfg. When the file holds no accounts
// and seed is non-nil, accounts, documents and videos are seeded from it.
func NewDatabase(cfg *config.Config, seed fs.FS, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		Database: emptyState(),
		config:   cfg,
		logger:   logger,
		revoked:  make(map[string]time.Time),
		now:      time.Now,
	}

	logger.Info("initializing database", zap.String("file", cfg.DbFilePath))
	if err := db.Load(); err != nil {
		return nil, err
	}

	if seed != nil && db.isEmpty() {
		if err := db.Seed(seed); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func emptyState() models.Database {
	return models.Database{
		Accounts: make(map[int]models.Account),
		Settings: make(map[int]models.Settings),
		Progress: make(map[int][]models.ProgressEntry),
	}
}

// Load reads the database state from the configured file. A missing file leaves
// the database empty. A file that cannot be parsed is a critical error.
func (db *Database) Load() error {
	db.Database.Mu.Lock()
	defer db.Database.Mu.Unlock()

	fileData, err := os.ReadFile(db.config.DbFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			db.logger.Info("database file not found, starting empty", zap.String("file", db.config.DbFilePath))
			return nil
		}
		db.logger.Error("failed to read database file, starting empty",
			zap.String("file", db.config.DbFilePath), zap.Error(err))
		return nil
	}

	if err := json.Unmarshal(fileData, &db.Database); err != nil {
		db.logger.Error("failed to parse database file", zap.String("file", db.config.DbFilePath), zap.Error(err))
		db.ensureMaps()
		return fmt.Errorf("failed to parse database file '%s': %w", db.config.DbFilePath, err)
	}
	db.ensureMaps()

	db.logger.Info("loaded database",
		zap.String("file", db.config.DbFilePath),
		zap.Int("accounts", len(db.Database.Accounts)),
		zap.Int("documents", len(db.Database.Documents)),
		zap.Int("videos", len(db.Database.Videos)))
	return nil
}

// ensureMaps must be called with the write lock held.
func (db *Database) ensureMaps() {
	if db.Database.Accounts == nil {
		db.Database.Accounts = make(map[int]models.Account)
	}
	if db.Database.Settings == nil {
		db.Database.Settings = make(map[int]models.Settings)
	}
	if db.Database.Progress == nil {
		db.Database.Progress = make(map[int][]models.ProgressEntry)
	}
}

func (db *Database) isEmpty() bool {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	return len(db.Database.Accounts) == 0 && len(db.Database.Documents) == 0 && len(db.Database.Videos) == 0
}

// Seed imports the fixture envelopes from fsys. Plaintext fixture passwords are
// replaced by bcrypt hashes before they reach the database.
func (db *Database) Seed(fsys fs.FS) error {
	accounts, err := fixtures.Load[models.Account](fsys, fixtures.AccountsFile, fixtures.AccountsKey)
	if err != nil {
		return fmt.Errorf("failed to seed accounts: %w", err)
	}
	documents, err := fixtures.Load[models.Document](fsys, fixtures.DocumentsFile, fixtures.DocumentsKey)
	if err != nil {
		return fmt.Errorf("failed to seed documents: %w", err)
	}
	videos, err := fixtures.Load[models.Video](fsys, fixtures.VideosFile, fixtures.VideosKey)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	for i := range accounts {
		if accounts[i].Password == "" {
			continue
		}
		hash, err := utils.HashPassword(accounts[i].Password, db.config.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for account %d: %w", accounts[i].ID, err)
		}
		accounts[i].PasswordHash = hash
		accounts[i].Password = ""
	}

	db.Database.Mu.Lock()
	for _, acc := range accounts {
		db.Database.Accounts[acc.ID] = acc
	}
	db.Database.Documents = documents
	db.Database.Videos = videos
	db.Database.Mu.Unlock()

	db.logger.Info("seeded database from fixtures",
		zap.Int("accounts", len(accounts)),
		zap.Int("documents", len(documents)),
		zap.Int("videos", len(videos)))

	db.requestSave()
	return nil
}

// --- Persistence ---

// persist writes the current state to disk: temp file, optional .bak, then rename.
func (db *Database) persist() error {
	db.persistMu.Lock()
	defer db.persistMu.Unlock()

	db.Database.Mu.RLock()
	jsonData, err := json.MarshalIndent(&db.Database, "", "  ")
	db.Database.Mu.RUnlock()
	if err != nil {
		db.logger.Error("failed to marshal database state", zap.Error(err))
		return err
	}

	path := db.config.DbFilePath
	tempFilePath := path + ".tmp"
	backupFilePath := path + ".bak"

	if err := os.WriteFile(tempFilePath, jsonData, 0600); err != nil {
		db.logger.Error("failed to write temporary database file", zap.String("file", tempFilePath), zap.Error(err))
		return err
	}

	if db.config.EnableBackup {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, backupFilePath); err != nil {
				db.logger.Warn("failed to create backup, proceeding with save",
					zap.String("backup", backupFilePath), zap.Error(err))
			}
		} else if !os.IsNotExist(err) {
			db.logger.Warn("failed to stat database file before backup", zap.String("file", path), zap.Error(err))
		}
	}

	if err := os.Rename(tempFilePath, path); err != nil {
		db.logger.Error("failed to rename temporary database file", zap.String("file", tempFilePath), zap.Error(err))
		_ = os.Remove(tempFilePath)
		return err
	}

	db.logger.Debug("saved database state", zap.String("file", path))
	return nil
}

// requestSave is called after every write to schedule a debounced save.
func (db *Database) requestSave() {
	db.saveMutex.Lock()
	defer db.saveMutex.Unlock()

	if db.config.SaveInterval <= 0 {
		go func() {
			if err := db.persist(); err != nil {
				db.logger.Error("immediate persist failed", zap.Error(err))
			}
		}()
		return
	}

	if db.saveTimer != nil {
		db.saveTimer.Stop()
	}
	db.savePending = true

	db.saveTimer = time.AfterFunc(db.config.SaveInterval, func() {
		db.saveMutex.Lock()
		if !db.savePending {
			db.saveMutex.Unlock()
			return
		}
		db.savePending = false
		db.saveMutex.Unlock()

		if err := db.persist(); err != nil {
			db.logger.Error("debounced persist failed", zap.Error(err))
		}
	})
}

// Close flushes a pending save before shutdown.
func (db *Database) Close() error {
	db.saveMutex.Lock()
	if db.saveTimer != nil {
		db.saveTimer.Stop()
		db.saveTimer = nil
	}
	needsFinalPersist := db.savePending
	db.savePending = false
	db.saveMutex.Unlock()

	if !needsFinalPersist {
		return nil
	}
	db.logger.Info("performing final persist on close")
	if err := db.persist(); err != nil {
		db.logger.Error("final persist failed", zap.Error(err))
		return err
	}
	return nil
}

// --- Accounts ---

// CreateAccount stores a new account built from reg. The id is the account count
// plus one and the password is stored as a bcrypt hash.
func (db *Database) CreateAccount(reg models.Registration) (models.Account, error) {
	hash, err := utils.HashPassword(reg.Password, db.config.BcryptCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	db.Database.Mu.Lock()
	defer db.Database.Mu.Unlock()

	for _, existing := range db.Database.Accounts {
		if existing.Email == reg.Email {
			return models.Account{}, fmt.Errorf("%w: '%s'", common.ErrDuplicateEmail, reg.Email)
		}
	}

	id := len(db.Database.Accounts) + 1
	for {
		if _, taken := db.Database.Accounts[id]; !taken {
			break
		}
		id++
	}

	acc := models.Account{
		ID:           id,
		FullName:     reg.FullName,
		Email:        reg.Email,
		PasswordHash: hash,
		Avatar:       models.RandomAvatar(),
		Level:        reg.Level,
		Specialty:    reg.Specialty,
		JoinDate:     db.now().Format(models.JoinDateLayout),
	}
	db.Database.Accounts[id] = acc
	db.logger.Info("created account", zap.Int("user_id", id))

	db.requestSave()
	return acc, nil
}

func (db *Database) GetAccountByID(id int) (models.Account, bool) {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	acc, found := db.Database.Accounts[id]
	return acc, found
}

// GetAccountByEmail matches the email exactly.
func (db *Database) GetAccountByEmail(email string) (models.Account, bool) {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	for _, acc := range db.Database.Accounts {
		if acc.Email == email {
			return acc, true
		}
	}
	return models.Account{}, false
}

// Authenticate returns the account for email if password matches its hash.
func (db *Database) Authenticate(email, password string) (models.Account, error) {
	acc, found := db.GetAccountByEmail(email)
	if !found || !utils.CheckPasswordHash(password, acc.PasswordHash) {
		return models.Account{}, common.ErrInvalidCredentials
	}
	return acc, nil
}

// AllAccounts returns the public view of every account, ordered by id.
func (db *Database) AllAccounts() []models.User {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()

	users := make([]models.User, 0, len(db.Database.Accounts))
	for _, acc := range db.Database.Accounts {
		users = append(users, acc.User())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// --- Content ---

// Documents returns a copy of the document list. It satisfies content.Loader.
func (db *Database) Documents(_ context.Context) ([]models.Document, error) {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	out := make([]models.Document, len(db.Database.Documents))
	copy(out, db.Database.Documents)
	return out, nil
}

// Videos returns a copy of the video list. It satisfies content.Loader.
func (db *Database) Videos(_ context.Context) ([]models.Video, error) {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	out := make([]models.Video, len(db.Database.Videos))
	copy(out, db.Database.Videos)
	return out, nil
}

// --- Settings ---

// GetSettings returns the saved settings of a user, or the defaults.
func (db *Database) GetSettings(userID int) models.Settings {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	s, found := db.Database.Settings[userID]
	if !found {
		return settings.Defaults()
	}
	return s
}

func (db *Database) UpdateSettings(userID int, s models.Settings) error {
	if err := settings.Validate(s); err != nil {
		return err
	}

	db.Database.Mu.Lock()
	if _, found := db.Database.Accounts[userID]; !found {
		db.Database.Mu.Unlock()
		return fmt.Errorf("%w: account %d", common.ErrNotFound, userID)
	}
	db.Database.Settings[userID] = s
	db.Database.Mu.Unlock()

	db.logger.Info("updated settings", zap.Int("user_id", userID))
	db.requestSave()
	return nil
}

// --- Progress ---

// GetProgress returns a copy of the user's progress collection, never nil.
func (db *Database) GetProgress(userID int) []models.ProgressEntry {
	db.Database.Mu.RLock()
	defer db.Database.Mu.RUnlock()
	entries := db.Database.Progress[userID]
	out := make([]models.ProgressEntry, len(entries))
	copy(out, entries)
	return out
}

// UpsertProgress records an update for the user, stamped with the current time.
func (db *Database) UpsertProgress(userID int, upd models.ProgressUpdate) (models.ProgressEntry, error) {
	entry, err := progress.NewEntry(upd.ContentType, upd.ContentID, upd.Progress, upd.Completed, db.now())
	if err != nil {
		return models.ProgressEntry{}, err
	}

	db.Database.Mu.Lock()
	if _, found := db.Database.Accounts[userID]; !found {
		db.Database.Mu.Unlock()
		return models.ProgressEntry{}, fmt.Errorf("%w: account %d", common.ErrNotFound, userID)
	}
	db.Database.Progress[userID] = progress.Upsert(db.Database.Progress[userID], entry)
	db.Database.Mu.Unlock()

	db.logger.Debug("updated progress",
		zap.Int("user_id", userID),
		zap.String("content_type", entry.ContentType),
		zap.Int("content_id", entry.ContentID))
	db.requestSave()
	return entry, nil
}

// Stats summarises the user's progress as of now.
func (db *Database) Stats(userID int) models.Stats {
	return progress.ComputeStats(db.GetProgress(userID), db.now())
}

// --- Revoked tokens ---

// RevokeToken blocks the token ID until its expiry. Revocations are not persisted.
func (db *Database) RevokeToken(tokenID string, expiry time.Time) {
	db.revokedMu.Lock()
	defer db.revokedMu.Unlock()
	db.revoked[tokenID] = expiry
	db.logger.Debug("revoked token", zap.String("jti", tokenID))
}

// IsTokenRevoked reports whether tokenID was revoked. Expired entries are dropped.
func (db *Database) IsTokenRevoked(tokenID string) bool {
	db.revokedMu.Lock()
	defer db.revokedMu.Unlock()

	expiry, found := db.revoked[tokenID]
	if !found {
		return false
	}
	if db.now().After(expiry) {
		delete(db.revoked, tokenID)
		return false
	}
	return true
}
