package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/nback-api/internal/domain/entity"
	"github.com/yourusername/nback-api/internal/domain/repository"
	"github.com/yourusername/nback-api/internal/metrics"
	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

// DefaultRecentLimit - сколько последних результатов отдается по умолчанию
const DefaultRecentLimit = 5

// ResultService управляет дневными результатами N-Back: не более одного результата
// на пользователя за календарный день, обновление только при улучшении.
type ResultService struct {
	resultRepo  repository.ResultRepository
	recentLimit int
	logger      *zap.Logger
}

// NewResultService создает сервис результатов. recentLimit <= 0 заменяется на DefaultRecentLimit.
func NewResultService(resultRepo repository.ResultRepository, recentLimit int, logger *zap.Logger) (*ResultService, error) {
	if resultRepo == nil {
		return nil, fmt.Errorf("ResultRepository is required for ResultService")
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		resultRepo:  resultRepo,
		recentLimit: recentLimit,
		logger:      logger.Named("ResultService"),
	}, nil
}

// Submit создает результат за день submittedAt. Если за этот день результат уже есть,
// возвращается ErrDayResultTaken.
func (s *ResultService) Submit(ctx context.Context, userID string, score, level int, submittedAt time.Time) (*entity.Result, error) {
	day := entity.DayOf(submittedAt)

	_, err := s.resultRepo.GetForDay(ctx, userID, day)
	if err == nil {
		return nil, ErrDayResultTaken
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check day result: %w", err)
	}

	result := &entity.Result{
		ID:          uuid.NewString(),
		UserID:      userID,
		Score:       score,
		Level:       level,
		SubmittedAt: submittedAt,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		// Между проверкой и вставкой успел пройти параллельный запрос
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrDayResultTaken
		}
		// Токен подписан верно, но пользователя уже нет
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create result: %w", err)
	}

	metrics.ResultsSubmitted.Inc()
	s.logger.Info("result submitted",
		zap.String("user_id", userID),
		zap.String("day", day.Key),
		zap.Int("level", level),
		zap.Int("score", score),
	)
	return result, nil
}

// Update применяет попытку к результату того же дня. Запись меняется только при
// улучшении (см. entity.Result.Improve); иначе возвращается без изменений.
func (s *ResultService) Update(ctx context.Context, userID string, score, level int, submittedAt time.Time) (*entity.Result, error) {
	day := entity.DayOf(submittedAt)

	result, improved, err := s.resultRepo.UpdateForDay(ctx, userID, day, func(r *entity.Result) bool {
		return r.Improve(score, level, submittedAt)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrNoDayResult
		}
		return nil, fmt.Errorf("failed to update result: %w", err)
	}

	outcome := "unchanged"
	if improved {
		outcome = "improved"
	}
	metrics.ResultUpdates.WithLabelValues(outcome).Inc()
	s.logger.Debug("result update applied",
		zap.String("user_id", userID),
		zap.String("day", day.Key),
		zap.String("outcome", outcome),
	)
	return result, nil
}

// ListForUser возвращает все результаты пользователя
func (s *ResultService) ListForUser(ctx context.Context, userID string) ([]entity.Result, error) {
	results, err := s.resultRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// ListAll возвращает результаты всех пользователей
func (s *ResultService) ListAll(ctx context.Context) ([]entity.Result, error) {
	results, err := s.resultRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

// ListRecent возвращает последние результаты пользователя от новых к старым.
// limit <= 0 означает лимит по умолчанию из конфигурации.
func (s *ResultService) ListRecent(ctx context.Context, userID string, limit int) ([]entity.Result, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	results, err := s.resultRepo.ListRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}
	return results, nil
}
