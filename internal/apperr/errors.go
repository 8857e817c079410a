package apperr

import (
	"errors"
	"fmt"
)

// Базовые классы ошибок домена. Конкретные ошибки оборачивают их
// через %w, обработчики сводят errors.Is к HTTP-кодам.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrExternal   = errors.New("external service failed")
)

func Validationf(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func NotFoundf(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func Forbiddenf(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

func Externalf(format string, args ...any) error {
	return wrap(ErrExternal, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
