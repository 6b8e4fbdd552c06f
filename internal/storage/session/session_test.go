package storage_session_test

import (
	"context"
	"testing"

	"github.com/jellypick/core/internal/model"
	storage_session "github.com/jellypick/core/internal/storage/session"
	usecase_voting "github.com/jellypick/core/internal/usecase/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOverwrites(t *testing.T) {
	storage := storage_session.New()
	ctx := context.Background()

	first := model.NewSession("lobby-1", []model.Movie{{ID: "m1"}})
	require.NoError(t, storage.Save(ctx, first))

	second := model.NewSession("lobby-1", []model.Movie{{ID: "m2"}})
	require.NoError(t, storage.Save(ctx, second))

	got, err := storage.ByLobby(ctx, "lobby-1")
	require.NoError(t, err)
	require.Len(t, got.Movies, 1)
	assert.Equal(t, "m2", got.Movies[0].ID)
}

func TestByLobbyUnknown(t *testing.T) {
	storage := storage_session.New()

	_, err := storage.ByLobby(context.Background(), "ghost")
	assert.ErrorIs(t, err, usecase_voting.ErrSessionNotFound)
}

func TestByLobbyReturnsCopy(t *testing.T) {
	storage := storage_session.New()
	ctx := context.Background()

	session := model.NewSession("lobby-1", []model.Movie{{ID: "m1"}})
	require.NoError(t, storage.Save(ctx, session))

	got, err := storage.ByLobby(ctx, "lobby-1")
	require.NoError(t, err)
	got.Votes["m1"]["user-a"] = model.VoteYes

	again, err := storage.ByLobby(ctx, "lobby-1")
	require.NoError(t, err)
	assert.Empty(t, again.Votes["m1"])
}

func TestDeleteIsIdempotent(t *testing.T) {
	storage := storage_session.New()
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, model.NewSession("lobby-1", nil)))
	require.NoError(t, storage.Delete(ctx, "lobby-1"))
	require.NoError(t, storage.Delete(ctx, "lobby-1"))

	_, err := storage.ByLobby(ctx, "lobby-1")
	assert.ErrorIs(t, err, usecase_voting.ErrSessionNotFound)
}
