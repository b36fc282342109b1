package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"punctuation stripped", "Hello, World!", "hello-world"},
		{"whitespace collapsed", "Getting   Started\twith Go", "getting-started-with-go"},
		{"surrounding space trimmed", "  News  ", "news"},
		{"underscores kept", "snake_case title", "snake_case-title"},
		{"accents folded", "Café Crème", "cafe-creme"},
		{"digits kept", "Top 10 Tips", "top-10-tips"},
		{"only symbols", "!!!", ""},
		{"hyphens are not word characters", "state-of-the-art", "stateoftheart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input))
		})
	}
}

func TestMakeIsStableForEquivalentTitles(t *testing.T) {
	assert.Equal(t, Make("Hello, World!"), Make("hello world"))
}
