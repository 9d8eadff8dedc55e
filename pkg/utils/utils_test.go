package utils

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1234567 * time.Nanosecond, "1ms"},
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "1.5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "hé...", Truncate("héllo", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestGetStringOrDefault(t *testing.T) {
	assert.Equal(t, "x", GetStringOrDefault("", "x"))
	assert.Equal(t, "y", GetStringOrDefault("y", "x"))
}

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestCustomErrorCodes(t *testing.T) {
	assert.Equal(t, http.StatusRequestEntityTooLarge, NewPayloadTooLargeError("x").Code)
	assert.Equal(t, http.StatusTooManyRequests, NewRateLimitedError("x").Code)
	assert.Equal(t, http.StatusBadGateway, NewLLMError("x").Code)
	assert.Equal(t, http.StatusGatewayTimeout, NewLLMTimeoutError("x").Code)

	var err error = NewUnsupportedFormatError("resume.txt")
	var custom *CustomError
	assert.True(t, errors.As(err, &custom))
	assert.Equal(t, http.StatusUnsupportedMediaType, custom.Code)
	assert.NotEmpty(t, err.Error())
}
