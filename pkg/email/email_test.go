package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"a.nair@gov.example", "A Nair"},
		{"priya_sharma@startup.example", "Priya Sharma"},
		{"investor+deals@fund.example", "Investor Deals"},
		{"plain@example.com", "Plain"},
		{"...@example.com", "User"},
		{"no-at-sign", "No At Sign"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveDisplayName(tt.email), tt.email)
	}
}
