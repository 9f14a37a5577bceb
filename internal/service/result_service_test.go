package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nback-api/internal/domain/entity"
	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

func createTestResultService(t *testing.T, repo *MockResultRepository) *ResultService {
	t.Helper()
	svc, err := NewResultService(repo, 0, nil)
	require.NoError(t, err)
	return svc
}

var testDay = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func TestNewResultService_RequiresRepository(t *testing.T) {
	_, err := NewResultService(nil, 5, nil)
	assert.Error(t, err)
}

func TestSubmit_CreatesFirstResultOfDay(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	repo.On("GetForDay", ctx, "u1", entity.DayOf(testDay)).Return(nil, apperrors.ErrNotFound)
	repo.On("Create", ctx, mock.MatchedBy(func(r *entity.Result) bool {
		return r.UserID == "u1" && r.Score == 10 && r.Level == 3 && r.SubmittedAt.Equal(testDay) && r.ID != ""
	})).Return(nil)

	result, err := svc.Submit(ctx, "u1", 10, 3, testDay)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Score)
	assert.Equal(t, 3, result.Level)
	repo.AssertExpectations(t)
}

func TestSubmit_SecondResultSameDayConflicts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	later := testDay.Add(10 * time.Hour)
	repo.On("GetForDay", ctx, "u1", entity.DayOf(later)).Return(&entity.Result{ID: "r1", UserID: "u1"}, nil)

	_, err := svc.Submit(ctx, "u1", 50, 5, later)
	assert.ErrorIs(t, err, ErrDayResultTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmit_RaceLostOnUniqueIndex(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	repo.On("GetForDay", ctx, "u1", entity.DayOf(testDay)).Return(nil, apperrors.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Result")).Return(apperrors.ErrConflict)

	_, err := svc.Submit(ctx, "u1", 10, 3, testDay)
	assert.ErrorIs(t, err, ErrDayResultTaken)
}

func TestSubmit_UnknownUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	// Внешний ключ на users не выполнен: токен валиден, пользователя нет
	repo.On("GetForDay", ctx, "ghost", entity.DayOf(testDay)).Return(nil, apperrors.ErrNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*entity.Result")).Return(apperrors.ErrNotFound)

	_, err := svc.Submit(ctx, "ghost", 10, 3, testDay)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSubmit_RepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	dbErr := errors.New("db down")
	repo.On("GetForDay", ctx, "u1", entity.DayOf(testDay)).Return(nil, dbErr)

	_, err := svc.Submit(ctx, "u1", 10, 3, testDay)
	assert.ErrorIs(t, err, dbErr)
}

func TestUpdate_Policy(t *testing.T) {
	original := testDay
	candidate := testDay.Add(2 * time.Hour)

	tests := []struct {
		name          string
		score, level  int
		wantScore     int
		wantLevel     int
		wantTimestamp time.Time
	}{
		{"higher level with zero score", 0, 4, 0, 4, candidate},
		{"equal level higher score", 11, 3, 11, 3, candidate},
		{"equal level lower score", 5, 3, 10, 3, original},
		{"equal level equal score", 10, 3, 10, 3, original},
		{"lower level higher score", 99, 2, 10, 3, original},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockResultRepository)
			svc := createTestResultService(t, repo)

			existing := &entity.Result{ID: "r1", UserID: "u1", Score: 10, Level: 3, SubmittedAt: original}
			repo.On("UpdateForDay", ctx, "u1", entity.DayOf(candidate)).Return(existing, nil)

			result, err := svc.Update(ctx, "u1", tt.score, tt.level, candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantLevel, result.Level)
			assert.True(t, tt.wantTimestamp.Equal(result.SubmittedAt))
		})
	}
}

func TestUpdate_NoResultForDay(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	repo.On("UpdateForDay", ctx, "u1", entity.DayOf(testDay)).Return(nil, apperrors.ErrNotFound)

	_, err := svc.Update(ctx, "u1", 10, 3, testDay)
	assert.ErrorIs(t, err, ErrNoDayResult)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListRecent_DefaultAndExplicitLimit(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	repo.On("ListRecentByUser", ctx, "u1", DefaultRecentLimit).Return([]entity.Result{{ID: "r1"}}, nil)
	repo.On("ListRecentByUser", ctx, "u1", 2).Return([]entity.Result{{ID: "r1"}, {ID: "r2"}}, nil)

	results, err := svc.ListRecent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = svc.ListRecent(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	repo.AssertExpectations(t)
}

func TestListForUserAndAll(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResultRepository)
	svc := createTestResultService(t, repo)

	repo.On("ListByUser", ctx, "u1").Return([]entity.Result{{ID: "r1"}}, nil)
	repo.On("ListAll", ctx).Return(nil, errors.New("db down"))

	results, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = svc.ListAll(ctx)
	assert.Error(t, err)
}
