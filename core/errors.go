package core

import (
	"errors"
	"strings"
)

// ErrNotFound is the sentinel for lookups whose subject does not exist.
var ErrNotFound = errors.New("not found")

// IsNotFoundError reports whether err represents a missing entity, either
// via the ErrNotFound sentinel or a "not found" message from an external API.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
