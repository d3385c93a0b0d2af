package repository

import (
	"testing"

	"github.com/muralink/designchat/internal/domain"
	"github.com/muralink/designchat/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionStore_Load(t *testing.T) {
	t.Run("absent key loads as empty collection", func(t *testing.T) {
		store := NewSessionStore(kv.NewMemoryStore(), zap.NewNop())
		assert.Empty(t, store.Load())
	})

	t.Run("unparseable value loads as empty collection", func(t *testing.T) {
		mem := kv.NewMemoryStore()
		require.NoError(t, mem.Set(SessionsKey, "{not json"))
		store := NewSessionStore(mem, zap.NewNop())

		assert.Empty(t, store.Load())
	})
}

func TestSessionStore_SaveAll(t *testing.T) {
	t.Run("round trips the collection", func(t *testing.T) {
		store := NewSessionStore(kv.NewMemoryStore(), zap.NewNop())
		sessions := []domain.ChatSession{
			domain.NewChatSession("first"),
			domain.NewChatSession("second"),
		}

		store.SaveAll(sessions)

		assert.Equal(t, sessions, store.Load())
	})

	t.Run("write failure is swallowed", func(t *testing.T) {
		mem := kv.NewMemoryStore()
		store := NewSessionStore(mem, zap.NewNop())
		store.SaveAll([]domain.ChatSession{domain.NewChatSession("kept")})

		mem.FailWrites = true
		store.SaveAll([]domain.ChatSession{})
		mem.FailWrites = false

		// old value survives the failed overwrite
		got := store.Load()
		require.Len(t, got, 1)
		assert.Equal(t, "kept", got[0].Title)
	})
}
