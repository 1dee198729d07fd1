// Package settings provides the per-user preferences with their defaults.
package settings

import (
	"context"
	"edunova/common"
	"edunova/models"
	"edunova/store"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Allowed enum values.
var (
	Themes            = []string{"light", "dark", "auto"}
	Languages         = []string{"fr", "en", "ar"}
	ProfileVisibility = []string{"public", "private", "friends"}
	DownloadQualities = []string{"low", "medium", "high"}
)

const (
	minPlaybackSpeed = 0.25
	maxPlaybackSpeed = 4.0
)

// Service reads and writes the settings of the current user.
type Service interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, s models.Settings) error
}

// Defaults returns the settings a user starts with.
func Defaults() models.Settings {
	return models.Settings{
		Theme:    "auto",
		Language: "fr",
		Notifications: models.NotificationSettings{
			Email:      true,
			Push:       true,
			NewCourses: true,
			Reminders:  false,
		},
		Privacy: models.PrivacySettings{
			ProfileVisibility: "public",
			ShowProgress:      true,
			AllowMessages:     true,
		},
		Preferences: models.PlaybackPreferences{
			Autoplay:        false,
			Subtitles:       true,
			PlaybackSpeed:   1,
			DownloadQuality: "medium",
		},
	}
}

// Merge overlays the JSON document raw onto base. Fields missing from raw keep
// their value from base, at any nesting depth.
func Merge(base models.Settings, raw []byte) (models.Settings, error) {
	if len(raw) == 0 {
		return base, nil
	}
	merged := base
	if err := json.Unmarshal(raw, &merged); err != nil {
		return base, fmt.Errorf("%w: malformed settings: %v", common.ErrInvalidInput, err)
	}
	return merged, nil
}

// Validate checks every enum field and the playback speed range.
func Validate(s models.Settings) error {
	switch {
	case !slices.Contains(Themes, s.Theme):
		return fmt.Errorf("%w: unknown theme '%s'", common.ErrInvalidInput, s.Theme)
	case !slices.Contains(Languages, s.Language):
		return fmt.Errorf("%w: unknown language '%s'", common.ErrInvalidInput, s.Language)
	case !slices.Contains(ProfileVisibility, s.Privacy.ProfileVisibility):
		return fmt.Errorf("%w: unknown profile visibility '%s'", common.ErrInvalidInput, s.Privacy.ProfileVisibility)
	case !slices.Contains(DownloadQualities, s.Preferences.DownloadQuality):
		return fmt.Errorf("%w: unknown download quality '%s'", common.ErrInvalidInput, s.Preferences.DownloadQuality)
	case s.Preferences.PlaybackSpeed < minPlaybackSpeed || s.Preferences.PlaybackSpeed > maxPlaybackSpeed:
		return fmt.Errorf("%w: playback speed %.2f out of range", common.ErrInvalidInput, s.Preferences.PlaybackSpeed)
	}
	return nil
}

// LocalService keeps the settings under the userSettings key of a store.
type LocalService struct {
	kv     store.Store
	logger *zap.Logger
}

func NewLocalService(kv store.Store, logger *zap.Logger) *LocalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalService{kv: kv, logger: logger}
}

// Get returns the defaults merged with whatever was saved. A corrupt saved value
// is ignored.
func (s *LocalService) Get(ctx context.Context) (models.Settings, error) {
	raw, err := s.kv.Get(ctx, store.KeySettings)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Defaults(), nil
		}
		return models.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	merged, err := Merge(Defaults(), []byte(raw))
	if err != nil {
		s.logger.Warn("ignoring corrupt saved settings", zap.Error(err))
		return Defaults(), nil
	}
	return merged, nil
}

func (s *LocalService) Update(ctx context.Context, settings models.Settings) error {
	if err := Validate(settings); err != nil {
		return err
	}
	if err := store.SetJSON(ctx, s.kv, store.KeySettings, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Debug("settings saved")
	return nil
}
