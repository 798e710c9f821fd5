package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	testCases := []struct {
		name          string
		fullName      string
		expectedOwner string
		expectedName  string
		expectedOK    bool
	}{
		{
			name:          "simple owner and repo",
			fullName:      "acme/widgets",
			expectedOwner: "acme",
			expectedName:  "widgets",
			expectedOK:    true,
		},
		{
			name:          "repo name containing a slash keeps the remainder",
			fullName:      "acme/widgets/extra",
			expectedOwner: "acme",
			expectedName:  "widgets/extra",
			expectedOK:    true,
		},
		{
			name:       "missing slash",
			fullName:   "widgets",
			expectedOK: false,
		},
		{
			name:       "empty owner",
			fullName:   "/widgets",
			expectedOK: false,
		},
		{
			name:       "empty name",
			fullName:   "acme/",
			expectedOK: false,
		},
		{
			name:       "empty string",
			fullName:   "",
			expectedOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			owner, name, ok := SplitFullName(tc.fullName)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedOwner, owner)
			assert.Equal(t, tc.expectedName, name)
		})
	}
}

func TestSanitizePath(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "top level file",
			path:     "main.go",
			expected: "main.go",
		},
		{
			name:     "nested path",
			path:     "internal/widget/widget.go",
			expected: "internal_widget_widget.go",
		},
		{
			name:     "empty path",
			path:     "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizePath(tc.path))
		})
	}
}

func TestAssertInvariant(t *testing.T) {
	t.Run("true condition does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			AssertInvariant(true, "should not fire")
		})
	})

	t.Run("false condition panics with message", func(t *testing.T) {
		assert.PanicsWithValue(t, "invariant violated - boom", func() {
			AssertInvariant(false, "boom")
		})
	})
}
