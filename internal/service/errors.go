// Package service implements the domain operations behind both the REST API
// and the admin panel: project, skill and profile management, and contact
// mail dispatch. Errors never leak raw storage or host failures; they map
// onto a small taxonomy the handlers translate for clients.
package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSlug indicates another project already owns the derived slug.
	ErrDuplicateSlug = errors.New("a project with this title already exists")
	// ErrDuplicateName indicates another skill already owns the name.
	ErrDuplicateName = errors.New("a skill with this name already exists")
	// ErrMailNotConfigured indicates contact mail delivery is not set up.
	ErrMailNotConfigured = errors.New("mail delivery is not configured")
)

// ValidationError carries field-level messages for malformed input. No writes
// happen once one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// fieldErrors accumulates validation messages and converts to a
// *ValidationError only when non-empty.
type fieldErrors map[string]string

func (f fieldErrors) requireNonEmpty(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		f[field] = message
	}
}

func (f fieldErrors) toError() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// SplitList turns comma-separated input into trimmed, non-empty labels,
// mirroring the comma-joined serialization the admin UI submits.
func SplitList(s string) []string {
	items := []string{}
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// isUniqueViolation reports whether err is a storage-level unique constraint
// failure. The pre-insert duplicate checks are not atomic with the write; the
// constraint is what actually holds the invariant under concurrency.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
