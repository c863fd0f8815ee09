package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kinopitch/trailers-backend/internal/logger"
	"github.com/kinopitch/trailers-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно: логирует накопленные
// через c.Error ошибки и, если ответ ещё не отправлен, маскирует внутренние
// детали от клиента.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		// Ответ уже отправлен хэндлером, ошибки только логируем.
		if c.Writer.Written() {
			return
		}

		statusCode := apperror.Status(err.Err)
		message := "внутренняя ошибка сервера"

		var appErr *apperror.AppError
		if errors.As(err.Err, &appErr) {
			message = appErr.Message
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
