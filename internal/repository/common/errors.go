package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// uniqueViolation - код ошибки PostgreSQL unique_violation.
const uniqueViolation = "23505"

// IsUniqueViolation проверяет, нарушила ли вставка уникальный индекс.
// Именно на этой проверке держится защита от повторных голосов и жалоб:
// вставка выполняется первой, без предварительного SELECT, и конфликт
// индекса - единственный арбитр "уже сделано".
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// IsUniqueViolationOn дополнительно сверяет имя нарушенного ограничения,
// когда у таблицы их несколько.
func IsUniqueViolationOn(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}
