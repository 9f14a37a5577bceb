package errors

import "errors"

// Общие ошибки приложения. Сервисы оборачивают их через fmt.Errorf("%w: ..."),
// обработчики сопоставляют через errors.Is.
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда токен отсутствует, поврежден или не прошел проверку подписи.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials используется при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния: повторный email при регистрации,
	// повторный результат за тот же день.
	ErrConflict = errors.New("resource state conflict")
)
