package service

import (
	"fmt"

	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
)

// Ошибки сервисов с понятными клиенту сообщениями. Каждая оборачивает общую ошибку
// приложения, поэтому обработчики могут сопоставлять их и через errors.Is(err, apperrors.ErrXxx).
var (
	ErrEmailTaken     = fmt.Errorf("%w: user with same email already exists", apperrors.ErrConflict)
	ErrUnknownEmail   = fmt.Errorf("%w: user with this email does not exist", apperrors.ErrInvalidCredentials)
	ErrWrongPassword  = fmt.Errorf("%w: incorrect password", apperrors.ErrInvalidCredentials)
	ErrUserNotFound   = fmt.Errorf("%w: user not found", apperrors.ErrNotFound)
	ErrDayResultTaken = fmt.Errorf("%w: result for this day already exists", apperrors.ErrConflict)
	ErrNoDayResult    = fmt.Errorf("%w: no result for this day to update", apperrors.ErrNotFound)
)
