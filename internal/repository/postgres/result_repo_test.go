package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nback-api/internal/domain/entity"
	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

var baseDay = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newResult(userID string, score, level int, at time.Time) *entity.Result {
	return &entity.Result{ID: uuid.NewString(), UserID: userID, Score: score, Level: level, SubmittedAt: at}
}

func TestResultRepo_CreateAndGetForDay(t *testing.T) {
	repo := NewResultRepo(setupTestDB(t))
	ctx := context.Background()
	r := newResult("u1", 10, 3, baseDay)

	require.NoError(t, repo.Create(ctx, r))
	assert.Equal(t, "2024-06-01", r.Day)

	got, err := repo.GetForDay(ctx, "u1", entity.DayOf(baseDay.Add(10*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, 10, got.Score)

	_, err = repo.GetForDay(ctx, "u1", entity.DayOf(baseDay.AddDate(0, 0, 1)))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.GetForDay(ctx, "u2", entity.DayOf(baseDay))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestResultRepo_CreateSecondResultSameDayConflicts(t *testing.T) {
	repo := NewResultRepo(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newResult("u1", 10, 3, baseDay)))

	err := repo.Create(ctx, newResult("u1", 1, 1, baseDay.Add(5*time.Hour)))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Другой пользователь и другой день не конфликтуют
	assert.NoError(t, repo.Create(ctx, newResult("u2", 1, 1, baseDay)))
	assert.NoError(t, repo.Create(ctx, newResult("u1", 1, 1, baseDay.AddDate(0, 0, 1))))
}

func TestResultRepo_UpdateForDay(t *testing.T) {
	repo := NewResultRepo(setupTestDB(t))
	ctx := context.Background()
	original := newResult("u1", 10, 3, baseDay)
	require.NoError(t, repo.Create(ctx, original))
	later := baseDay.Add(2 * time.Hour)

	t.Run("mutation persisted", func(t *testing.T) {
		updated, changed, err := repo.UpdateForDay(ctx, "u1", entity.DayOf(later), func(r *entity.Result) bool {
			return r.Improve(12, 3, later)
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, 12, updated.Score)

		stored, err := repo.GetForDay(ctx, "u1", entity.DayOf(baseDay))
		require.NoError(t, err)
		assert.Equal(t, 12, stored.Score)
		assert.Equal(t, 3, stored.Level)
		assert.True(t, later.Equal(stored.SubmittedAt))
	})

	t.Run("no mutation leaves row untouched", func(t *testing.T) {
		evenLater := later.Add(time.Hour)
		got, changed, err := repo.UpdateForDay(ctx, "u1", entity.DayOf(evenLater), func(r *entity.Result) bool {
			return r.Improve(1, 1, evenLater)
		})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, 12, got.Score)

		stored, err := repo.GetForDay(ctx, "u1", entity.DayOf(baseDay))
		require.NoError(t, err)
		assert.True(t, later.Equal(stored.SubmittedAt))
	})

	t.Run("missing day", func(t *testing.T) {
		_, _, err := repo.UpdateForDay(ctx, "u1", entity.DayOf(baseDay.AddDate(0, 0, 3)), func(*entity.Result) bool {
			t.Fatal("mutate не должен вызываться без записи")
			return false
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestResultRepo_Listing(t *testing.T) {
	repo := NewResultRepo(setupTestDB(t))
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Create(ctx, newResult("u1", i, 1, baseDay.AddDate(0, 0, i))))
	}
	require.NoError(t, repo.Create(ctx, newResult("u2", 100, 9, baseDay)))

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 7)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)

	recent, err := repo.ListRecentByUser(ctx, "u1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].SubmittedAt.After(recent[i].SubmittedAt), "результаты должны идти строго по убыванию времени")
	}
	assert.Equal(t, 6, recent[0].Score)

	none, err := repo.ListRecentByUser(ctx, "nobody", 5)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
