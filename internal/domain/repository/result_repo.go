package repository

import (
	"context"

	"github.com/yourusername/nback-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами N-Back
type ResultRepository interface {
	// Create сохраняет новый результат. Возвращает apperrors.ErrConflict, если
	// у пользователя уже есть результат за этот день.
	Create(ctx context.Context, result *entity.Result) error

	// GetForDay возвращает результат пользователя за день или apperrors.ErrNotFound.
	GetForDay(ctx context.Context, userID string, day entity.DayWindow) (*entity.Result, error)

	// UpdateForDay блокирует результат пользователя за день, передает его в mutate
	// и сохраняет, только если mutate вернул true. Возвращает итоговую запись и флаг изменения.
	UpdateForDay(ctx context.Context, userID string, day entity.DayWindow, mutate func(*entity.Result) bool) (*entity.Result, bool, error)

	ListByUser(ctx context.Context, userID string) ([]entity.Result, error)
	ListAll(ctx context.Context) ([]entity.Result, error)

	// ListRecentByUser возвращает не более limit результатов, от новых к старым
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.Result, error)
}
