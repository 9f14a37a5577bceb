package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/nback-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// MockResultRepository реализует repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *entity.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetForDay(ctx context.Context, userID string, day entity.DayWindow) (*entity.Result, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Result), args.Error(1)
}

// UpdateForDay применяет mutate к записи, которую вернул мок, как это делает настоящий репозиторий
func (m *MockResultRepository) UpdateForDay(ctx context.Context, userID string, day entity.DayWindow, mutate func(*entity.Result) bool) (*entity.Result, bool, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, false, args.Error(1)
	}
	result := args.Get(0).(*entity.Result)
	changed := mutate(result)
	return result, changed, args.Error(1)
}

func (m *MockResultRepository) ListByUser(ctx context.Context, userID string) ([]entity.Result, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepository) ListAll(ctx context.Context) ([]entity.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

func (m *MockResultRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.Result, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Result), args.Error(1)
}

// recordingMailer запоминает отправленные письма
type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendWelcome(ctx context.Context, toEmail, name string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}
