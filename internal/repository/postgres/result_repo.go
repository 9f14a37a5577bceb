package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/nback-api/internal/domain/entity"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Create сохраняет новый результат. Уникальный индекс (user_id, result_day)
// отклоняет второй результат за день даже при параллельных запросах.
func (r *ResultRepo) Create(ctx context.Context, result *entity.Result) error {
	return translateError(r.db.WithContext(ctx).Create(result).Error)
}

// GetForDay возвращает результат пользователя за день
func (r *ResultRepo) GetForDay(ctx context.Context, userID string, day entity.DayWindow) (*entity.Result, error) {
	var result entity.Result
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND result_day = ?", userID, day.Key).
		First(&result).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}

// UpdateForDay выполняет чтение-изменение-запись в одной транзакции.
// Строка блокируется через SELECT ... FOR UPDATE, поэтому параллельные улучшения
// одного дня применяются последовательно.
func (r *ResultRepo) UpdateForDay(ctx context.Context, userID string, day entity.DayWindow, mutate func(*entity.Result) bool) (*entity.Result, bool, error) {
	var result entity.Result
	changed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND result_day = ?", userID, day.Key).
			First(&result).Error; err != nil {
			return err
		}

		if !mutate(&result) {
			return nil
		}
		changed = true

		return tx.Model(&result).
			Select("score", "level", "submitted_at", "result_day").
			Updates(&result).Error
	})
	if err != nil {
		return nil, false, translateError(err)
	}
	return &result, changed, nil
}

// ListByUser возвращает все результаты пользователя
func (r *ResultRepo) ListByUser(ctx context.Context, userID string) ([]entity.Result, error) {
	results := []entity.Result{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at").
		Find(&results).Error
	return results, err
}

// ListAll возвращает результаты всех пользователей
func (r *ResultRepo) ListAll(ctx context.Context) ([]entity.Result, error) {
	results := []entity.Result{}
	err := r.db.WithContext(ctx).Order("user_id, submitted_at").Find(&results).Error
	return results, err
}

// ListRecentByUser возвращает последние результаты пользователя
func (r *ResultRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]entity.Result, error) {
	results := []entity.Result{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}
