package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"", ColorByClass},
		{"kind", ColorByClass},
		{"random", ColorRandom},
		{"count", ColorByCount},
		{"annotation_count", ColorByCount},
		{"rainbow", ColorByClass},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			mode := ParseColorMode(tt.in)
			assert.Equal(t, tt.want, mode)
			assert.NotNil(t, mode.Func())
			assert.Equal(t, mode, ParseColorMode(mode.String()))
		})
	}
	assert.False(t, ColorRandom.Deterministic())
	assert.True(t, ColorByCount.Deterministic())
}
