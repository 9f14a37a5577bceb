package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

// SQLSTATE нарушений ограничений в PostgreSQL
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// translateError приводит ошибки драйвера к ошибкам приложения
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict
	}
	// Ссылка на несуществующую запись, например результат удаленного пользователя
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperrors.ErrConflict
		case foreignKeyViolation:
			return apperrors.ErrNotFound
		}
	}
	return err
}
