package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emberlit/guessparty/internal/domain"
)

func seedSession(t *testing.T) *domain.Session {
	t.Helper()

	player, err := domain.NewPlayer("alice")
	require.NoError(t, err)
	session, err := domain.NewSession("quiz", player)
	require.NoError(t, err)

	return session
}

func Test_Memory_Create_Rejects_Duplicate_Id(t *testing.T) {
	// Arrange
	repo := NewSessionMemoryRepository()
	ctx := context.Background()
	session := seedSession(t)

	require.NoError(t, repo.Create(ctx, session))

	// Act
	err := repo.Create(ctx, session)

	// Assert
	require.ErrorIs(t, err, domain.ErrSessionExists)
}

func Test_Memory_GetByID_Unknown_Is_Not_Found(t *testing.T) {
	repo := NewSessionMemoryRepository()

	_, err := repo.GetByID(context.Background(), "missing")

	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func Test_Memory_GetByID_Returns_An_Isolated_Copy(t *testing.T) {
	// Arrange
	repo := NewSessionMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, seedSession(t)))

	// Act: mutate the loaded copy without saving.
	loaded, err := repo.GetByID(ctx, "quiz")
	require.NoError(t, err)
	require.NoError(t, loaded.OpenRound("animal that meows", "cat", time.Now().UTC().Add(time.Minute)))
	loaded.Roster[0].Score = 99

	// Assert: the stored session is untouched.
	stored, err := repo.GetByID(ctx, "quiz")
	require.NoError(t, err)
	require.Equal(t, domain.StatusWaiting, stored.Status)
	require.Equal(t, 0, stored.Roster[0].Score)
	require.Empty(t, stored.Answer)
}

func Test_Memory_Save_Persists_The_Whole_Aggregate(t *testing.T) {
	// Arrange
	repo := NewSessionMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, seedSession(t)))

	loaded, err := repo.GetByID(ctx, "quiz")
	require.NoError(t, err)
	require.NoError(t, loaded.OpenRound("animal that meows", "cat", time.Now().UTC().Add(time.Minute)))

	// Act
	require.NoError(t, repo.Save(ctx, loaded))

	// Assert
	stored, err := repo.GetByID(ctx, "quiz")
	require.NoError(t, err)
	require.Equal(t, domain.StatusLive, stored.Status)
	require.Equal(t, "cat", stored.Answer)
	require.NotNil(t, stored.TimerEndsAt)
}

func Test_Memory_Delete_Removes_The_Session(t *testing.T) {
	// Arrange
	repo := NewSessionMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, seedSession(t)))

	// Act
	require.NoError(t, repo.Delete(ctx, "quiz"))

	// Assert
	_, err := repo.GetByID(ctx, "quiz")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}
