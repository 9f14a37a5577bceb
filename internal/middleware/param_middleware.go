package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractIntQuery создает middleware для извлечения и валидации числового query-параметра.
// Если параметр не передан, в контекст кладется def. Значение вне [lo, hi] дает 400.
func ExtractIntQuery(paramName, contextKey string, def, lo, hi int) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, present := c.GetQuery(paramName)
		if !present || raw == "" {
			c.Set(contextKey, def)
			c.Next()
			return
		}

		value, err := strconv.Atoi(raw)
		if err != nil || value < lo || value > hi {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":      fmt.Sprintf("Invalid %s: must be an integer between %d and %d", paramName, lo, hi),
				"error_type": "validation_error",
			})
			return
		}

		c.Set(contextKey, value)
		c.Next()
	}
}
