package repository

import (
	"testing"
	"time"

	"athlete-connect-backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestConversationRepository_AppendMessage(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("should append in insertion order", func(t *testing.T) {
		req := require.New(t)
		repo := NewConversationRepository()
		_, err := repo.Insert(models.Conversation{ID: "1", ParticipantIDs: []string{"1", "2"}})
		req.NoError(err)

		req.NoError(repo.AppendMessage("1", models.Message{ID: "m1", Timestamp: now}))
		req.NoError(repo.AppendMessage("1", models.Message{ID: "m2", Timestamp: now.Add(-time.Hour)}))

		c, err := repo.FindByID("1")
		req.NoError(err)
		req.Len(c.Messages, 2)
		req.Equal("m1", c.Messages[0].ID)
		req.Equal("m2", c.Messages[1].ID)
	})

	t.Run("should fail for an unknown conversation", func(t *testing.T) {
		repo := NewConversationRepository()

		err := repo.AppendMessage("missing", models.Message{ID: "m1"})

		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestConversationRepository_Insert(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository()

	created, err := repo.Insert(models.Conversation{ParticipantIDs: []string{"1", "2"}})
	req.NoError(err)
	req.NotEmpty(created.ID)

	_, err = repo.Insert(models.Conversation{ID: created.ID})
	req.ErrorIs(err, models.ErrConflict)

	_, err = repo.FindByID("missing")
	req.ErrorIs(err, models.ErrNotFound)
	req.Len(repo.List(), 1)
}
