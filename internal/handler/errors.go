package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
	"github.com/yourusername/nback-api/internal/service"
)

// errorResponse - единый формат ответа с ошибкой
func errorResponse(c *gin.Context, status int, msg, kind string) {
	c.JSON(status, gin.H{"error": msg, "error_type": kind})
}

// handleServiceError сопоставляет ошибку сервиса с HTTP-ответом.
// Сначала проверяются ошибки с понятным клиенту текстом, затем общие ошибки приложения.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		// Повторный email при регистрации отдается как 400, а не 409
		errorResponse(c, http.StatusBadRequest, "User with same email already exists!", "email_taken")
	case errors.Is(err, service.ErrUnknownEmail):
		errorResponse(c, http.StatusBadRequest, "User with this email does not exist!", "invalid_credentials")
	case errors.Is(err, service.ErrWrongPassword):
		errorResponse(c, http.StatusBadRequest, "Incorrect password!", "invalid_credentials")
	case errors.Is(err, service.ErrUserNotFound):
		errorResponse(c, http.StatusNotFound, "User not found!", "not_found")
	case errors.Is(err, service.ErrDayResultTaken):
		errorResponse(c, http.StatusConflict, "Result for this day already exists.", "conflict")
	case errors.Is(err, service.ErrNoDayResult):
		errorResponse(c, http.StatusNotFound, "No result for this day to update.", "not_found")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		errorResponse(c, http.StatusBadRequest, "Invalid credentials", "invalid_credentials")
	case errors.Is(err, apperrors.ErrUnauthorized):
		errorResponse(c, http.StatusUnauthorized, "Invalid or expired token", "unauthorized")
	case errors.Is(err, apperrors.ErrForbidden):
		errorResponse(c, http.StatusForbidden, "Access denied", "forbidden")
	case errors.Is(err, apperrors.ErrNotFound):
		errorResponse(c, http.StatusNotFound, "Requested resource not found", "not_found")
	case errors.Is(err, apperrors.ErrConflict):
		errorResponse(c, http.StatusConflict, "Data conflict", "conflict")
	case errors.Is(err, apperrors.ErrValidation):
		errorResponse(c, http.StatusBadRequest, err.Error(), "validation_error")
	default:
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, "Internal server error", "internal_server_error")
	}
}
