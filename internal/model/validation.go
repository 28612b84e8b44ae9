package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for every calendar date the backend stores.
const DateLayout = "2006-01-02"

// ValidationError reports the first invalid field of a submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// ParseDate parses a yyyy-MM-dd date. Timestamps such as the backend's
// created_at values are accepted and truncated to their date part.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func checkDate(field, value string) (time.Time, error) {
	if err := required(field, value); err != nil {
		return time.Time{}, err
	}
	t, err := ParseDate(value)
	if err != nil {
		return time.Time{}, invalid(field, "must be a yyyy-MM-dd date")
	}
	return t, nil
}

func checkEnum[T ~string](field string, value T, valid func(T) bool) error {
	if !valid(value) {
		return invalid(field, "unknown value %q", string(value))
	}
	return nil
}
