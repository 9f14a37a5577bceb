package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey - ключ контекста gin с ID аутентифицированного пользователя
const UserIDKey = "user_id"

// AuthTokenHeader - альтернативный заголовок с токеном
const AuthTokenHeader = "x-auth-token"

// IdentityResolver проверяет токен и возвращает ID пользователя
type IdentityResolver interface {
	ResolveIdentity(token string) (string, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	resolver IdentityResolver
	adminIDs map[string]struct{}
	logger   *zap.Logger
}

// NewAuthMiddleware создает middleware. adminIDs используются AdminOnly.
func NewAuthMiddleware(resolver IdentityResolver, adminIDs []string, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = struct{}{}
		}
	}
	return &AuthMiddleware{
		resolver: resolver,
		adminIDs: admins,
		logger:   logger.Named("AuthMiddleware"),
	}
}

// RequireAuth проверяет токен из "Authorization: Bearer <jwt>" или "x-auth-token"
// и кладет ID пользователя в контекст под UserIDKey.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication token is missing", "error_type": "token_missing"})
			return
		}

		userID, err := m.resolver.ResolveIdentity(token)
		if err != nil {
			m.logger.Debug("token rejected", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// AdminOnly пропускает только пользователей из списка администраторов.
// Должен применяться ПОСЛЕ RequireAuth.
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
			return
		}

		if _, ok := m.adminIDs[userID]; !ok {
			m.logger.Info("admin route denied", zap.String("user_id", userID), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin rights required", "error_type": "forbidden"})
			return
		}

		c.Next()
	}
}

// extractToken достает токен из заголовков. ok=false означает, что Authorization
// передан в неверном формате.
func extractToken(c *gin.Context) (token string, ok bool) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return strings.TrimSpace(c.GetHeader(AuthTokenHeader)), true
}
