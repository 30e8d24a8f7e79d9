package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, usernames ...string) *Session {
	t.Helper()

	first, err := NewPlayer(usernames[0])
	require.NoError(t, err)

	session, err := NewSession("test-session", first)
	require.NoError(t, err)

	for _, name := range usernames[1:] {
		p, err := NewPlayer(name)
		require.NoError(t, err)
		require.NoError(t, session.AddPlayer(p))
	}

	return session
}

func openRound(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.OpenRound("what color is the sky", "blue", time.Now().UTC().Add(time.Minute)))
}

func Test_NewSession_First_Player_Is_Master(t *testing.T) {
	// Act
	session := newTestSession(t, "alice")

	// Assert
	require.Equal(t, StatusWaiting, session.Status)
	require.Len(t, session.Roster, 1)
	require.True(t, session.Roster[0].IsMaster)
	require.Equal(t, "alice", session.Master().Username)
	require.Equal(t, uint64(0), session.RoundGeneration)
}

func Test_NewSession_Rejects_Blank_Id(t *testing.T) {
	// Arrange
	player, err := NewPlayer("alice")
	require.NoError(t, err)

	// Act
	_, err = NewSession("   ", player)

	// Assert
	require.ErrorIs(t, err, ErrInvalidInput)
}

func Test_AddPlayer_Rejects_Duplicate(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	dup := session.Roster[1]

	// Act
	err := session.AddPlayer(&dup)

	// Assert
	require.ErrorIs(t, err, ErrAlreadyJoined)
	require.Len(t, session.Roster, 2)
}

func Test_AddPlayer_Rejects_Full_Roster(t *testing.T) {
	// Arrange
	names := []string{
		"alice", "bob", "cara", "dave", "erin",
		"frank", "grace", "heidi", "ivan", "judy",
	}
	session := newTestSession(t, names...)

	// Act
	extra, err := NewPlayer("mallory")
	require.NoError(t, err)
	err = session.AddPlayer(extra)

	// Assert
	require.ErrorIs(t, err, ErrSessionFull)
}

func Test_OpenRound_Transitions_To_Live_And_Bumps_Generation(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	endsAt := time.Now().UTC().Add(time.Minute)

	// Act
	err := session.OpenRound("capital of france", "paris", endsAt)

	// Assert
	require.NoError(t, err)
	require.Equal(t, StatusLive, session.Status)
	require.Equal(t, "paris", session.Answer)
	require.Equal(t, uint64(1), session.RoundGeneration)
	require.NotNil(t, session.TimerEndsAt)
}

func Test_OpenRound_Rejected_While_Live(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)

	// Act
	err := session.OpenRound("another", "one", time.Now().UTC().Add(time.Minute))

	// Assert
	require.ErrorIs(t, err, ErrRoundInProgress)
}

func Test_OpenRound_Rejects_Blank_Question_Or_Answer(t *testing.T) {
	session := newTestSession(t, "alice")

	require.ErrorIs(t, session.OpenRound("  ", "blue", time.Now()), ErrInvalidInput)
	require.ErrorIs(t, session.OpenRound("what color", "  ", time.Now()), ErrInvalidInput)
}

func Test_CloseRound_Commits_Exactly_Once_Per_Generation(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	generation := session.RoundGeneration

	// Act
	first := session.CloseRound(generation)
	second := session.CloseRound(generation)

	// Assert
	require.True(t, first)
	require.False(t, second)
	require.Equal(t, StatusWaiting, session.Status)
	require.Empty(t, session.Answer)
	require.Nil(t, session.TimerEndsAt)
}

func Test_CloseRound_Ignores_Stale_Generation(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	stale := session.RoundGeneration
	require.True(t, session.CloseRound(stale))
	openRound(t, session)

	// Act
	committed := session.CloseRound(stale)

	// Assert
	require.False(t, committed)
	require.Equal(t, StatusLive, session.Status)
}

func Test_CloseRound_Rotates_Master_In_Join_Order(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob", "cara")

	expected := []string{"bob", "cara", "alice"}
	for _, want := range expected {
		openRound(t, session)

		// Act
		require.True(t, session.CloseRound(session.RoundGeneration))

		// Assert
		require.Equal(t, want, session.Master().Username)
	}
}

func Test_RemovePlayer_While_Waiting_Promotes_Next_Seat(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob", "cara")
	masterID := session.Master().ID

	// Act
	removed, found := session.RemovePlayer(masterID)

	// Assert
	require.True(t, found)
	require.Equal(t, "alice", removed.Username)
	require.Len(t, session.Roster, 2)
	require.Equal(t, "bob", session.Master().Username)
}

func Test_RemovePlayer_While_Waiting_Wraps_To_First_Seat(t *testing.T) {
	// Arrange: make the last seat the master, then remove it.
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	require.True(t, session.CloseRound(session.RoundGeneration))
	require.Equal(t, "bob", session.Master().Username)

	// Act
	_, found := session.RemovePlayer(session.Master().ID)

	// Assert
	require.True(t, found)
	require.Equal(t, "alice", session.Master().Username)
}

func Test_RemovePlayer_Mid_Round_Defers_Promotion(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob", "cara")
	openRound(t, session)

	// Act: the master leaves while the round is live.
	_, found := session.RemovePlayer(session.Master().ID)

	// Assert: the round stays live with no master until the round-end commit.
	require.True(t, found)
	require.Equal(t, StatusLive, session.Status)
	require.Nil(t, session.Master())

	require.True(t, session.CloseRound(session.RoundGeneration))
	require.Equal(t, "bob", session.Master().Username)
}

func Test_RemovePlayer_Mid_Round_Vacated_Last_Seat_Wraps(t *testing.T) {
	// Arrange: rotate the master flag onto the last seat.
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	require.True(t, session.CloseRound(session.RoundGeneration))
	require.Equal(t, "bob", session.Master().Username)

	openRound(t, session)

	// Act
	_, found := session.RemovePlayer(session.Master().ID)

	// Assert
	require.True(t, found)
	require.True(t, session.CloseRound(session.RoundGeneration))
	require.Equal(t, "alice", session.Master().Username)
}

func Test_RemovePlayer_Unknown_Player_Is_Not_Found(t *testing.T) {
	session := newTestSession(t, "alice")

	_, found := session.RemovePlayer("missing-id")

	require.False(t, found)
	require.Len(t, session.Roster, 1)
}

func Test_RecordGuess_Caps_Attempts_Per_Round(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	bob := session.Roster[1]

	// Act / Assert
	remaining, err := session.RecordGuess(bob.ID, "red", 3)
	require.NoError(t, err)
	require.Equal(t, 2, remaining)

	remaining, err = session.RecordGuess(bob.ID, "green", 3)
	require.NoError(t, err)
	require.Equal(t, 1, remaining)

	remaining, err = session.RecordGuess(bob.ID, "yellow", 3)
	require.NoError(t, err)
	require.Equal(t, 0, remaining)

	_, err = session.RecordGuess(bob.ID, "purple", 3)
	require.ErrorIs(t, err, ErrGuessLimitReached)
}

func Test_RecordGuess_Attempts_Reset_Every_Round(t *testing.T) {
	// Arrange
	session := newTestSession(t, "alice", "bob")
	openRound(t, session)
	bob := session.Roster[1]

	for i := 0; i < 3; i++ {
		_, err := session.RecordGuess(bob.ID, "wrong", 3)
		require.NoError(t, err)
	}
	require.True(t, session.CloseRound(session.RoundGeneration))

	// Act: bob is master now, so rotate once more to let him guess again.
	openRound(t, session)
	require.True(t, session.CloseRound(session.RoundGeneration))
	openRound(t, session)

	remaining, err := session.RecordGuess(bob.ID, "wrong", 3)

	// Assert
	require.NoError(t, err)
	require.Equal(t, 2, remaining)
}

func Test_AnswerMatches_Ignores_Case_And_Whitespace(t *testing.T) {
	session := newTestSession(t, "alice")
	require.NoError(t, session.OpenRound("animal that meows", "Cat", time.Now().UTC().Add(time.Minute)))

	require.True(t, session.AnswerMatches("cat"))
	require.True(t, session.AnswerMatches(" CAT "))
	require.True(t, session.AnswerMatches("Cat"))
	require.False(t, session.AnswerMatches("dog"))
	require.False(t, session.AnswerMatches("c at"))
}
