package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"milo-1", true},
		{"milo", true},
		{"m", true},
		{"2024-milo-the-cat", true},
		{"", false},
		{"Milo", false},
		{"milo_1", false},
		{"milo 1", false},
		{"-milo", false},
		{"milo-", false},
		{"milo--1", false},
		{"mílo", false},
		{strings.Repeat("a", MaxSlugLength), true},
		{strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidSlug(tt.slug))
		})
	}
}
