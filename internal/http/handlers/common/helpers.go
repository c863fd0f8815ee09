package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinopitch/trailers-backend/internal/http/middleware"
	"github.com/kinopitch/trailers-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound возвращается, когда пользователя нет в контексте запроса.
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID возвращается при невалидном UUID в параметре.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID извлекает ID пользователя из контекста Gin.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// CurrentUserRole извлекает роль пользователя из контекста Gin.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrUserNotFound
	}

	role, ok := raw.(string)
	if !ok {
		return "", ErrUserNotFound
	}

	return role, nil
}

// ParseUUIDParam парсит UUID из параметра URL.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// RespondError отправляет стандартизированный ответ с ошибкой.
func RespondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// RespondAppError переводит ошибку движка в HTTP ответ: известные AppError
// отдают свой статус и сообщение, всё остальное маскируется как 500.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		RespondError(c, appErr.HTTPStatus, appErr.Message)
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// RespondUnauthorized отправляет 401.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	RespondError(c, http.StatusUnauthorized, message)
}

// RespondBadRequest отправляет 400.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	RespondError(c, http.StatusBadRequest, message)
}

// ParseIntQuery безопасно читает целочисленный query параметр с дефолтом.
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetPageParams извлекает page и limit из query параметров.
// Нормализацию границ выполняют сервисы, здесь только парсинг.
func GetPageParams(c *gin.Context) (page, limit int) {
	page = ParseIntQuery(c, "page", 1)
	limit = ParseIntQuery(c, "limit", 0)
	return
}
