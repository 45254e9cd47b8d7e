package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation - входные данные не прошли проверку. Конкретная причина в *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound - запись отсутствует или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrServer - внутренняя ошибка (хранилище, шифрование). Детали только в логах.
	ErrServer = errors.New("internal server error")

	ErrEmailTaken         = errors.New("email already taken")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError указывает на поле и человекочитаемую причину.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is позволяет сравнивать с ErrValidation через errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
