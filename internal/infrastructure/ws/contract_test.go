package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emberlit/guessparty/internal/domain"
)

func Test_RoundStarted_Carries_Question_And_Deadline_Only(t *testing.T) {
	// Arrange
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Act
	msg := NewRoundStarted("quiz", "animal that meows", deadline)
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	// Assert
	require.Equal(t, RoundStarted, msg.Type)
	require.Contains(t, string(raw), "animal that meows")
	require.Contains(t, string(raw), deadline.Format(time.RFC3339))
}

func Test_RoundWon_Reveals_The_Answer(t *testing.T) {
	msg := NewRoundWon("quiz", "bob", "cat")

	payload, ok := msg.Data.(RoundWonPayload)
	require.True(t, ok)
	require.Equal(t, "bob", payload.Winner)
	require.Equal(t, "cat", payload.Answer)
}

func Test_Session_JSON_Never_Contains_The_Answer(t *testing.T) {
	// Arrange
	player, err := domain.NewPlayer("alice")
	require.NoError(t, err)
	session, err := domain.NewSession("quiz", player)
	require.NoError(t, err)
	require.NoError(t, session.OpenRound("animal that meows", "supersecretanswer", time.Now().UTC().Add(time.Minute)))

	// Act
	raw, err := json.Marshal(session)
	require.NoError(t, err)

	// Assert
	require.NotContains(t, string(raw), "supersecretanswer")
	require.Contains(t, string(raw), "animal that meows")
}

func Test_Roster_Payload_Preserves_Join_Order(t *testing.T) {
	// Arrange
	roster := []domain.Player{
		{ID: "1", Username: "alice", IsMaster: true},
		{ID: "2", Username: "bob"},
		{ID: "3", Username: "cara"},
	}

	// Act
	msg := NewRosterUpdated("quiz", roster)

	// Assert
	payload, ok := msg.Data.(RosterPayload)
	require.True(t, ok)
	require.Len(t, payload.Players, 3)
	require.Equal(t, "alice", payload.Players[0].Username)
	require.True(t, payload.Players[0].IsMaster)
	require.Equal(t, "cara", payload.Players[2].Username)
}
