package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_ArmRound_Fires_After_The_Duration(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var fired atomic.Int32

	// Act
	s.ArmRound("quiz", 1, 10*time.Millisecond, func() { fired.Add(1) })

	// Assert
	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 2*time.Millisecond)
}

func Test_ArmRound_Replaces_The_Previous_Trigger(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var first, second atomic.Int32

	// Act
	s.ArmRound("quiz", 1, 20*time.Millisecond, func() { first.Add(1) })
	s.ArmRound("quiz", 2, 20*time.Millisecond, func() { second.Add(1) })

	// Assert
	require.Eventually(t, func() bool {
		return second.Load() == 1
	}, time.Second, 2*time.Millisecond)
	require.Equal(t, int32(0), first.Load())
}

func Test_DisarmRound_Stops_A_Matching_Generation(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var fired atomic.Int32
	s.ArmRound("quiz", 1, 20*time.Millisecond, func() { fired.Add(1) })

	// Act
	s.DisarmRound("quiz", 1)

	// Assert
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}

func Test_DisarmRound_Ignores_A_Stale_Generation(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var fired atomic.Int32
	s.ArmRound("quiz", 2, 20*time.Millisecond, func() { fired.Add(1) })

	// Act: disarm with an old generation; the armed trigger must survive.
	s.DisarmRound("quiz", 1)

	// Assert
	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 2*time.Millisecond)
}

func Test_Idle_And_Round_Triggers_Are_Independent(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var idleFired, roundFired atomic.Int32
	s.ArmIdle("quiz", 10*time.Millisecond, func() { idleFired.Add(1) })
	s.ArmRound("quiz", 1, 20*time.Millisecond, func() { roundFired.Add(1) })

	// Act: disarming the round leaves the idle trigger armed.
	s.DisarmRound("quiz", 1)

	// Assert
	require.Eventually(t, func() bool {
		return idleFired.Load() == 1
	}, time.Second, 2*time.Millisecond)
	require.Equal(t, int32(0), roundFired.Load())
}

func Test_Forget_Cancels_Every_Trigger_For_The_Session(t *testing.T) {
	// Arrange
	s := NewScheduler()
	t.Cleanup(s.Stop)

	var fired atomic.Int32
	s.ArmRound("quiz", 1, 20*time.Millisecond, func() { fired.Add(1) })
	s.ArmIdle("quiz", 20*time.Millisecond, func() { fired.Add(1) })

	// Act
	s.Forget("quiz")

	// Assert
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), fired.Load())
}
