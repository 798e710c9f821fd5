package core

import (
	"regexp"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_ValidPrefix(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		expected string
	}{
		{
			name:     "review prefix",
			prefix:   "rv",
			expected: "rv",
		},
		{
			name:     "repository prefix",
			prefix:   "repo",
			expected: "repo",
		},
		{
			name:     "uppercase prefix gets lowercased",
			prefix:   "QM",
			expected: "qm",
		},
		{
			name:     "prefix with leading/trailing spaces gets trimmed",
			prefix:   "  acc  ",
			expected: "acc",
		},
		{
			name:     "single character prefix",
			prefix:   "u",
			expected: "u",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := NewID(tc.prefix)

			parts := strings.Split(id, "_")
			require.Len(t, parts, 2, "ID should have exactly one underscore separating prefix and ULID")
			assert.Equal(t, tc.expected, parts[0], "Prefix should be cleaned correctly")

			ulidPart := parts[1]
			assert.Len(t, ulidPart, 26, "ULID should be 26 characters long")

			ulidRegex := regexp.MustCompile("^[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$")
			assert.True(t, ulidRegex.MatchString(ulidPart), "ULID part should match base32 format")

			_, err := ulid.Parse(ulidPart)
			assert.NoError(t, err, "ULID part should be parseable as valid ULID")
		})
	}
}

func TestNewID_EmptyPrefix_Panics(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
	}{
		{name: "empty string", prefix: ""},
		{name: "whitespace only", prefix: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Panics(t, func() {
				NewID(tc.prefix)
			}, "NewID should panic on empty prefix")
		})
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID("qm")
		assert.False(t, seen[id], "Generated IDs should be unique")
		seen[id] = true
	}
}

func TestIsValidULID(t *testing.T) {
	testCases := []struct {
		name     string
		id       string
		expected bool
	}{
		{
			name:     "valid generated ID",
			id:       NewID("rv"),
			expected: true,
		},
		{
			name:     "valid literal ID",
			id:       "repo_01G0EZ1XTM37C5X11SQTDNCTM1",
			expected: true,
		},
		{
			name:     "empty string",
			id:       "",
			expected: false,
		},
		{
			name:     "missing prefix",
			id:       "_01G0EZ1XTM37C5X11SQTDNCTM1",
			expected: false,
		},
		{
			name:     "missing separator",
			id:       "rv01G0EZ1XTM37C5X11SQTDNCTM1",
			expected: false,
		},
		{
			name:     "uppercase prefix",
			id:       "RV_01G0EZ1XTM37C5X11SQTDNCTM1",
			expected: false,
		},
		{
			name:     "ULID too short",
			id:       "rv_01G0EZ1XTM37C5X11SQTDNCTM",
			expected: false,
		},
		{
			name:     "ULID with excluded base32 characters",
			id:       "rv_01G0EZ1XTM37C5X11SQTDNCTIL",
			expected: false,
		},
		{
			name:     "multiple separators",
			id:       "rv_extra_01G0EZ1XTM37C5X11SQTDNCTM1",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidULID(tc.id))
		})
	}
}
