package validate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "The Trade Desk", "the-trade-desk"},
		{"already slug", "simpli-fi", "simpli-fi"},
		{"punctuation stripped", "Simpli.fi!", "simplifi"},
		{"dash runs collapse", "a  --  b", "a-b"},
		{"leading trailing dashes", "  -acme-  ", "acme"},
		{"empty", "", "unknown"},
		{"only symbols", "@#$%", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSlug(tt.input))
		})
	}
}

func TestEnsureString(t *testing.T) {
	assert.Equal(t, "x", EnsureString("  x  ", "fb"))
	assert.Equal(t, "fb", EnsureString("   ", "fb"))
	assert.Equal(t, "fb", EnsureString("", "fb"))
}

func TestEnsureStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, EnsureStringSlice([]string{" a ", "", "b"}, nil))
	assert.Equal(t, []string{"fb"}, EnsureStringSlice([]string{"", "  "}, []string{"fb"}))
	assert.Equal(t, []string{"fb"}, EnsureStringSlice(nil, []string{"fb"}))
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want int
	}{
		{"in range", 72, 72},
		{"rounds half up", 71.5, 72},
		{"rounds down", 71.4, 71},
		{"negative", -20, 0},
		{"above max", 150, 100},
		{"rounds then clamps", 100.4, 100},
		{"just below zero rounds to zero", -0.4, 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"negative inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampScore(tt.in))
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.6, Clamp01(math.NaN(), 0.6))
	assert.Equal(t, 0.0, Clamp01(-0.5, 0.6))
	assert.Equal(t, 1.0, Clamp01(3, 0.6))
	assert.Equal(t, 0.42, Clamp01(0.42, 0.6))
}

func TestValidLogoURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid png", "https://example.com/real-brand.png", "https://example.com/real-brand.png"},
		{"valid svg", "https://cdn.example.com/brand.svg", "https://cdn.example.com/brand.svg"},
		{"valid jpeg uppercase ext", "https://example.com/brand.JPEG", "https://example.com/brand.JPEG"},
		{"valid webp", "https://example.com/mark.webp", "https://example.com/mark.webp"},
		{"rejects http", "http://example.com/logo.svg", ""},
		{"rejects missing ext", "https://example.com/logo", ""},
		{"rejects placeholder", "https://example.com/placeholder.png", ""},
		{"rejects default-logo", "https://example.com/default-logo.svg", ""},
		{"rejects literal logo.png", "https://example.com/logo.png", ""},
		{"rejects nested logo.png", "https://example.com/assets/logo.png", ""},
		{"rejects empty", "", ""},
		{"rejects whitespace", "   ", ""},
		{"rejects malformed url", "https://exa mple.com/brand.png", ""},
		{"trims whitespace", "  https://example.com/brand.png  ", "https://example.com/brand.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidLogoURL(tt.in))
		})
	}
}
