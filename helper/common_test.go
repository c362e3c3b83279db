package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"users", true},
		{"_tmp1", true},
		{"LogInName", true},
		{"1abc", false},
		{"a-b", false},
		{"a b", false},
		{"users; DROP TABLE users", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidIdentifier(tt.in), tt.in)
	}
}

func TestHumanizeIdentifier(t *testing.T) {
	tests := []struct {
		in  string
		out string
	}{
		{"LogInName", "Log In Name"},
		{"users", "Users"},
		{"USERS", "Users"},
		{"UserID", "User ID"},
		{"age", "Age"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, HumanizeIdentifier(tt.in))
		})
	}
}
