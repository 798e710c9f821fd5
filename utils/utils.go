package utils

import (
	"strings"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// SplitFullName splits a GitHub "owner/name" repository identifier into its
// two halves. Everything after the first slash belongs to the repo name.
func SplitFullName(fullName string) (owner, name string, ok bool) {
	owner, name, ok = strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", false
	}
	return owner, name, true
}

// SanitizePath flattens a repository file path into a single identifier
// segment by replacing slashes with underscores.
func SanitizePath(path string) string {
	return strings.ReplaceAll(path, "/", "_")
}
