package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrAINotConfigured  = errors.New("AI tools are not configured: set OPENAI_API_KEY to enable them")
	ErrUpstream         = errors.New("AI provider request failed")
	ErrUnsupportedMedia = errors.New("unsupported file type")
)

// ValidationError lists input problems by field.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for f := range e.Details {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f, e.Details[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	if _, exists := e.Details[field]; !exists {
		e.Details[field] = msg
	}
}

// orNil returns e only when it holds details.
func (e *ValidationError) orNil() error {
	if len(e.Details) == 0 {
		return nil
	}
	return e
}
