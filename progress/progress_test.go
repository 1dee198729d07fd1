package progress

import (
	"context"
	"edunova/common"
	"edunova/models"
	"edunova/store"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func entry(contentType string, id, progress int, completed bool, accessed time.Time) models.ProgressEntry {
	return models.ProgressEntry{ContentType: contentType, ContentID: id, Progress: progress, Completed: completed, LastAccessed: accessed}
}

func TestUpsert(t *testing.T) {
	a := entry(TypeVideo, 1, 10, false, testNow)
	b := entry(TypeDocument, 1, 20, false, testNow)

	entries := Upsert(nil, a)
	entries = Upsert(entries, b)
	require.Len(t, entries, 2, "same id with another type is a different entry")

	updated := entry(TypeVideo, 1, 90, true, testNow.Add(time.Hour))
	next := Upsert(entries, updated)
	assert.Equal(t, []models.ProgressEntry{updated, b}, next, "replaced in place")
	assert.Equal(t, a, entries[0], "input is not modified")

	again := Upsert(next, updated)
	assert.Equal(t, next, again, "upserting the same entry twice is idempotent")
}

func TestNewEntry(t *testing.T) {
	local := time.Date(2026, 5, 10, 14, 0, 0, 0, time.FixedZone("CET", 2*3600))

	e, err := NewEntry(TypeExercise, 3, 150, true, local)
	require.NoError(t, err)
	assert.Equal(t, 100, e.Progress, "clamped to 100")
	assert.Equal(t, time.UTC, e.LastAccessed.Location())
	assert.True(t, e.LastAccessed.Equal(local))

	e, err = NewEntry(TypeVideo, 3, -5, false, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Progress, "clamped to 0")

	_, err = NewEntry("podcast", 3, 10, false, testNow)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = NewEntry(TypeVideo, 0, 10, false, testNow)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, models.Stats{}, ComputeStats(nil, testNow), "empty collection")

	entries := []models.ProgressEntry{
		entry(TypeDocument, 1, 100, true, testNow.Add(-time.Hour)),
		entry(TypeDocument, 2, 40, false, testNow.Add(-6*24*time.Hour)),
		entry(TypeVideo, 1, 100, true, testNow.Add(-8*24*time.Hour)),
		entry(TypeExercise, 1, 100, true, testNow.Add(-30*24*time.Hour)),
		entry(TypeExercise, 2, 100, true, time.Time{}),
		entry(TypeVideo, 2, 10, false, testNow),
	}

	st := ComputeStats(entries, testNow)
	assert.Equal(t, models.Stats{
		Courses:        1,
		Exercises:      2,
		Videos:         1,
		SuccessRate:    67,
		ActiveThisWeek: 3,
	}, st)
}

func TestLocalTracker(t *testing.T) {
	kv := store.NewMemory()
	now := testNow
	tracker := NewLocalTracker(kv, func() time.Time { return now }, nil)
	ctx := context.Background()

	entries, err := tracker.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	require.NoError(t, tracker.Update(ctx, TypeVideo, 2, 30, false))
	require.NoError(t, tracker.Update(ctx, TypeDocument, 5, 100, true))
	now = now.Add(time.Minute)
	require.NoError(t, tracker.Update(ctx, TypeVideo, 2, 80, false))

	entries, err = tracker.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entry(TypeVideo, 2, 80, false, testNow.Add(time.Minute)), entries[0])
	assert.Equal(t, entry(TypeDocument, 5, 100, true, testNow), entries[1])

	st, err := tracker.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Courses: 1, SuccessRate: 50, ActiveThisWeek: 2}, st)

	assert.ErrorIs(t, tracker.Update(ctx, "quiz", 1, 10, false), common.ErrInvalidInput)
}

func TestLocalTracker_CorruptSavedValue(t *testing.T) {
	kv := store.NewMemory()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, store.KeyUserProgress, `{"not":"a list"}`))

	tracker := NewLocalTracker(kv, nil, nil)
	entries, err := tracker.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, tracker.Update(ctx, TypeExercise, 1, 50, false), "a corrupt value is overwritten")
	entries, err = tracker.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
