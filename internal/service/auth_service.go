package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/nback-api/internal/domain/entity"
	"github.com/yourusername/nback-api/internal/domain/repository"
	"github.com/yourusername/nback-api/internal/metrics"
	apperrors "github.com/yourusername/nback-api/internal/pkg/errors"
	"github.com/yourusername/nback-api/pkg/auth"
)

const welcomeEmailTimeout = 10 * time.Second

// AuthService предоставляет методы для регистрации, входа и работы с пользователями
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	mailer     Mailer
	logger     *zap.Logger

	// sendAsync запускает фоновую задачу; в тестах подменяется синхронным вызовом
	sendAsync func(func())
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	mailer Mailer,
	logger *zap.Logger,
) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = NewNoopMailer(logger)
	}

	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger.Named("AuthService"),
		sendAsync:  func(f func()) { go f() },
	}, nil
}

// Signup регистрирует нового пользователя. Email сравнивается с учетом регистра.
func (s *AuthService) Signup(ctx context.Context, email, password, name string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &entity.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Параллельная регистрация с тем же email упирается в уникальный индекс
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.Signups.Inc()
	s.logger.Info("user signed up", zap.String("user_id", user.ID))

	s.sendAsync(func() { s.sendWelcome(user.Email, user.Name) })

	return user, nil
}

// sendWelcome отправляет приветственное письмо. Ошибки только логируются.
func (s *AuthService) sendWelcome(email, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), welcomeEmailTimeout)
	defer cancel()

	if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
		s.logger.Warn("failed to send welcome email", zap.String("to", email), zap.Error(err))
	}
}

// Login проверяет учетные данные и выпускает токен с идентификатором пользователя
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			return "", nil, ErrUnknownEmail
		}
		return "", nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.CheckPassword(password) {
		metrics.Logins.WithLabelValues("failure").Inc()
		return "", nil, ErrWrongPassword
	}

	token, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return token, user, nil
}

// ResolveIdentity проверяет подпись токена и возвращает ID пользователя.
// Существование пользователя здесь не проверяется.
func (s *AuthService) ResolveIdentity(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: token is missing", apperrors.ErrUnauthorized)
	}
	claims, err := s.jwtService.ParseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// GetCurrentUser возвращает пользователя по ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей
func (s *AuthService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
