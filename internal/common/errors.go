// Package common содержит ошибки, общие для клиента и сервера.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation — локально обнаруженная некорректная мутация. Не ретраится.
	ErrValidation = errors.New("validation error")
	// ErrNotFound — идентификатор не найден для текущего пользователя. Не ретраится.
	ErrNotFound = errors.New("not found")
)

// ValidationError описывает причину отказа в мутации.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Reason)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

// Is позволяет сравнивать через errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError конструктор ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError — запись kind с идентификатором ID отсутствует.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Is позволяет сравнивать через errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError конструктор NotFoundError.
func NewNotFoundError(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
