package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsHTTPSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.com/image.png", true},
		{"https://123", true},
		{"http://example.com", false},
		{"ftp://example.com", false},
		{"example.com/image.png", false},
		{"/relative/path", false},
		{"https://", false},
		{"", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isHTTPSURL(tt.input))
		})
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	assert.True(t, isURL("http://example.com"))
	assert.True(t, isURL("https://example.com"))
	assert.False(t, isURL("mailto:someone@example.com"))
	assert.False(t, isURL("not a url"))
}

func TestIsColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"#112233", true},
		{"#AABBCC", true},
		{"#aabbcc", true},
		{"#aAbB0c", true},
		{"not-a-color", false},
		{"#12345", false},
		{"#1234567", false},
		{"112233", false},
		{"#GGHHII", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isColor(tt.input))
		})
	}
}

func TestInRange(t *testing.T) {
	t.Parallel()

	assert.True(t, inRange(0, 0, 100))
	assert.True(t, inRange(100, 0, 100))
	assert.False(t, inRange(-1, 0, 100))
	assert.False(t, inRange(101, 0, 100))
	assert.True(t, inRange(0.5, 0, 1))
	assert.False(t, inRange(1.0001, 0, 1))

	assert.Panics(t, func() { inRange(1, 10, 0) }, "min > max는 panic 해야 합니다")
}

func TestAllInRange(t *testing.T) {
	t.Parallel()

	assert.True(t, allInRange([]time.Duration{0, 60 * time.Second}, 0, 60*time.Second))
	assert.False(t, allInRange([]time.Duration{time.Second, 61 * time.Second}, 0, 60*time.Second))
	assert.True(t, allInRange[int](nil, 0, 1), "빈 목록은 항상 범위 안입니다")
}
