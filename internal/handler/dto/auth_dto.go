package dto

import "github.com/yourusername/nback-api/internal/domain/entity"

// SignupRequest представляет запрос на регистрацию
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse возвращается после успешного входа
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}
