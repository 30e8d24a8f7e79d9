package ratelimiter

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Allow_Drains_The_Burst_Then_Denies(t *testing.T) {
	// Arrange
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 3})

	// Act / Assert
	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("client-a"), "request %d should pass", i)
	}
	require.False(t, rl.Allow("client-a"))
}

func Test_Allow_Refills_Over_Time(t *testing.T) {
	// Arrange
	rl := New(Options{MaxRatePerSecond: 100, MaxBurst: 2})

	require.True(t, rl.Allow("client-a"))
	require.True(t, rl.Allow("client-a"))
	require.False(t, rl.Allow("client-a"))

	// Act: at 100 tokens/s a refill lands within a few tens of milliseconds.
	require.Eventually(t, func() bool {
		return rl.Allow("client-a")
	}, time.Second, 5*time.Millisecond)
}

func Test_Sources_Are_Isolated(t *testing.T) {
	// Arrange
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 1})

	// Act / Assert
	require.True(t, rl.Allow("client-a"))
	require.False(t, rl.Allow("client-a"))
	require.True(t, rl.Allow("client-b"))
}

func Test_Remaining_Tracks_The_Bucket(t *testing.T) {
	// Arrange
	rl := New(Options{MaxRatePerSecond: 1, MaxBurst: 5})

	// Act
	require.True(t, rl.Allow("client-a"))
	require.True(t, rl.Allow("client-a"))

	// Assert
	require.Equal(t, 3, rl.Remaining("client-a"))
	require.Equal(t, 5, rl.MaxBurst())
}

func Test_GetSourceKey_Prefers_The_Header(t *testing.T) {
	// Arrange
	rl := New(Options{MaxRatePerSecond: 1, SourceHeaderKey: "X-Forwarded-For"})

	withHeader := httptest.NewRequest("GET", "/", nil)
	withHeader.Header.Set("X-Forwarded-For", "203.0.113.9")

	withoutHeader := httptest.NewRequest("GET", "/", nil)

	// Act / Assert
	require.Equal(t, "203.0.113.9", rl.GetSourceKey(withHeader))
	require.Equal(t, withoutHeader.RemoteAddr, rl.GetSourceKey(withoutHeader))
}
