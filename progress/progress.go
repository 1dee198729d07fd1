// Package progress tracks how far a user got through documents, videos and exercises.
package progress

import (
	"context"
	"edunova/common"
	"edunova/models"
	"edunova/store"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Content types recognised in progress entries.
const (
	TypeDocument = "document"
	TypeVideo    = "video"
	TypeExercise = "exercise"
)

// ContentTypes lists the accepted content types.
var ContentTypes = []string{TypeDocument, TypeVideo, TypeExercise}

const activeWindow = 7 * 24 * time.Hour

// Service lists and updates the progress of the current user.
type Service interface {
	List(ctx context.Context) ([]models.ProgressEntry, error)
	Update(ctx context.Context, contentType string, contentID, progress int, completed bool) error
	Stats(ctx context.Context) (models.Stats, error)
}

// Upsert replaces the entry with the same (ContentType, ContentID) in place, or
// appends e when there is none. entries is not modified.
func Upsert(entries []models.ProgressEntry, e models.ProgressEntry) []models.ProgressEntry {
	out := make([]models.ProgressEntry, len(entries), len(entries)+1)
	copy(out, entries)
	for i := range out {
		if out[i].ContentType == e.ContentType && out[i].ContentID == e.ContentID {
			out[i] = e
			return out
		}
	}
	return append(out, e)
}

// NewEntry validates the update fields and builds the entry stamped at now.
// progress is clamped to 0..100.
func NewEntry(contentType string, contentID, progress int, completed bool, now time.Time) (models.ProgressEntry, error) {
	if !slices.Contains(ContentTypes, contentType) {
		return models.ProgressEntry{}, fmt.Errorf("%w: unknown content type '%s'", common.ErrInvalidInput, contentType)
	}
	if contentID <= 0 {
		return models.ProgressEntry{}, fmt.Errorf("%w: content id must be positive", common.ErrInvalidInput)
	}
	return models.ProgressEntry{
		ContentType:  contentType,
		ContentID:    contentID,
		Progress:     min(max(progress, 0), 100),
		Completed:    completed,
		LastAccessed: now.UTC(),
	}, nil
}

// ComputeStats summarises entries as seen at now.
func ComputeStats(entries []models.ProgressEntry, now time.Time) models.Stats {
	var st models.Stats
	completed := 0
	for _, e := range entries {
		if e.Completed {
			completed++
			switch e.ContentType {
			case TypeDocument:
				st.Courses++
			case TypeExercise:
				st.Exercises++
			case TypeVideo:
				st.Videos++
			}
		}
		if !e.LastAccessed.IsZero() && now.Sub(e.LastAccessed) <= activeWindow {
			st.ActiveThisWeek++
		}
	}
	if len(entries) > 0 {
		st.SuccessRate = int(math.Round(100 * float64(completed) / float64(len(entries))))
	}
	return st
}

// LocalTracker keeps the progress collection under the userProgress key of a store.
type LocalTracker struct {
	kv     store.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewLocalTracker builds a tracker. A nil now means time.Now.
func NewLocalTracker(kv store.Store, now func() time.Time, logger *zap.Logger) *LocalTracker {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalTracker{kv: kv, now: now, logger: logger}
}

// List returns the saved entries, or an empty collection if none were saved.
func (t *LocalTracker) List(ctx context.Context) ([]models.ProgressEntry, error) {
	var entries []models.ProgressEntry
	found, err := store.GetJSON(ctx, t.kv, store.KeyUserProgress, &entries)
	if err != nil && found {
		t.logger.Warn("ignoring corrupt saved progress", zap.Error(err))
		return []models.ProgressEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	return entries, nil
}

func (t *LocalTracker) Update(ctx context.Context, contentType string, contentID, progress int, completed bool) error {
	entry, err := NewEntry(contentType, contentID, progress, completed, t.now())
	if err != nil {
		return err
	}
	entries, err := t.List(ctx)
	if err != nil {
		return err
	}
	entries = Upsert(entries, entry)
	if err := store.SetJSON(ctx, t.kv, store.KeyUserProgress, entries); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	t.logger.Debug("progress saved",
		zap.String("content_type", contentType),
		zap.Int("content_id", contentID),
		zap.Int("progress", entry.Progress))
	return nil
}

func (t *LocalTracker) Stats(ctx context.Context) (models.Stats, error) {
	entries, err := t.List(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return ComputeStats(entries, t.now()), nil
}
