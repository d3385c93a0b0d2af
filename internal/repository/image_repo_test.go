package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageRepo(t *testing.T) *ImageRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "designchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewImageRepository(db)
}

func TestImageRepository_SaveAssignsIDs(t *testing.T) {
	repo := newTestImageRepo(t)
	ctx := context.Background()

	first, err := repo.Save(ctx, "session-a", "aaaa")
	require.NoError(t, err)
	second, err := repo.Save(ctx, "session-a", "bbbb")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Greater(t, second, first)
}

func TestImageRepository_DeleteBySessionIsScoped(t *testing.T) {
	repo := newTestImageRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, "session-a", "x")
	require.NoError(t, err)
	_, err = repo.Save(ctx, "session-a", "y")
	require.NoError(t, err)
	_, err = repo.Save(ctx, "session-b", "z")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBySession(ctx, "session-a"))

	gone, err := repo.BySession(ctx, "session-a")
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := repo.BySession(ctx, "session-b")
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "z", kept[0].Base64Image)
	assert.True(t, kept[0].Durable)
}

func TestImageRepository_Delete(t *testing.T) {
	repo := newTestImageRepo(t)
	ctx := context.Background()

	id, err := repo.Save(ctx, "session-a", "x")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, id))

	images, err := repo.BySession(ctx, "session-a")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestImageRepository_ClearAll(t *testing.T) {
	repo := newTestImageRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, "session-a", "x")
	require.NoError(t, err)
	_, err = repo.Save(ctx, "session-b", "y")
	require.NoError(t, err)

	require.NoError(t, repo.ClearAll(ctx))

	for _, sid := range []string{"session-a", "session-b"} {
		images, err := repo.BySession(ctx, sid)
		require.NoError(t, err)
		assert.Empty(t, images)
	}
}
