package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	require.NoError(t, err)
	assert.NotEqual(t, "correcthorse", hash)

	assert.True(t, CheckPassword("correcthorse", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_LongPasswordsTruncatedAt72Bytes(t *testing.T) {
	long := strings.Repeat("a", 100)

	hash, err := HashPassword(long)
	require.NoError(t, err)

	// Everything past byte 72 is ignored, so the 72-byte prefix and any
	// longer password sharing it verify against the same hash.
	assert.True(t, CheckPassword(long, hash))
	assert.True(t, CheckPassword(strings.Repeat("a", 72), hash))
	assert.True(t, CheckPassword(strings.Repeat("a", 200), hash))
	assert.False(t, CheckPassword(strings.Repeat("a", 71), hash))
}

func TestTruncatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{
			name:     "short password unchanged",
			password: "hello",
			want:     "hello",
		},
		{
			name:     "exactly 72 bytes unchanged",
			password: strings.Repeat("a", 72),
			want:     strings.Repeat("a", 72),
		},
		{
			name:     "73 bytes cut to 72",
			password: strings.Repeat("a", 73),
			want:     strings.Repeat("a", 72),
		},
		{
			name: "partial multi-byte rune at the cut dropped",
			// 71 single-byte runes plus a 2-byte rune straddling byte 72
			password: strings.Repeat("a", 71) + "é" + "tail",
			want:     strings.Repeat("a", 71),
		},
		{
			name: "multi-byte rune ending exactly at 72 kept",
			// 70 single-byte runes plus a 2-byte rune ending at byte 72
			password: strings.Repeat("a", 70) + "é" + "tail",
			want:     strings.Repeat("a", 70) + "é",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(truncatePassword(tt.password)))
		})
	}
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	// The hasher itself accepts empty input; rejecting it is the
	// registration validator's job.
	hash, err := HashPassword("")
	require.NoError(t, err)
	assert.True(t, CheckPassword("", hash))
}
