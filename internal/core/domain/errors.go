package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError - нормализованная ошибка удалённого вызова.
// Code - HTTP-статус, для транспортных ошибок 500, как и у веб-клиента.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code int, message string) *APIError {
	if message == "" {
		message = http.StatusText(code)
	}
	if message == "" {
		message = "An error occurred"
	}
	return &APIError{Code: code, Message: message}
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// ValidationErrors - ошибки клиентской валидации по полям (ключ - json-имя поля)
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add не перезаписывает уже найденную ошибку поля
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func IsValidationError(err error) bool {
	var vErr ValidationErrors
	return errors.As(err, &vErr)
}

func AsValidationErrors(err error) (ValidationErrors, bool) {
	var vErr ValidationErrors
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
