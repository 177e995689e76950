package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNotifications(t *testing.T) {
	db := setupTestDB(t)

	t.Run("list is newest first and scoped to the recipient", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		notes := NewNotifications(tx)
		first, err := notes.Append(bob.ID, alice.ID, NotificationFollowRequest, "alice requested to follow you")
		require.NoError(err)
		time.Sleep(2 * time.Millisecond) // ids only order across milliseconds
		second, err := notes.Append(bob.ID, alice.ID, NotificationNewFollower, "alice started following you")
		require.NoError(err)
		_, err = notes.Append(alice.ID, bob.ID, NotificationFollowAccepted, "bob accepted your follow request")
		require.NoError(err)

		entries, err := notes.ListForUser(bob.ID, 10, 0)
		require.NoError(err)
		require.Len(entries, 2)
		require.Equal(second.ID, entries[0].ID)
		require.Equal(first.ID, entries[1].ID)
		require.NotNil(entries[0].FromAccount)
		require.Equal("alice", entries[0].FromAccount.Username)
	})

	t.Run("mark read is restricted to the recipient", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		notes := NewNotifications(tx)
		entry, err := notes.Append(bob.ID, alice.ID, NotificationFollowRequest, "alice requested to follow you")
		require.NoError(err)

		require.ErrorIs(notes.MarkRead(entry.ID, alice.ID), ErrUnauthorized)
		require.NoError(notes.MarkRead(entry.ID, bob.ID))

		entries, err := notes.ListForUser(bob.ID, 10, 0)
		require.NoError(err)
		require.True(entries[0].Read)

		require.ErrorIs(notes.MarkRead(entry.ID+1, bob.ID), ErrNotFound)
	})

	t.Run("mark all read reports how many changed", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		notes := NewNotifications(tx)
		for i := 0; i < 3; i++ {
			_, err := notes.Append(bob.ID, alice.ID, NotificationNewFollower, "alice started following you")
			require.NoError(err)
		}

		updated, err := notes.MarkAllRead(bob.ID)
		require.NoError(err)
		require.EqualValues(3, updated)

		updated, err = notes.MarkAllRead(bob.ID)
		require.NoError(err)
		require.EqualValues(0, updated)
	})

	t.Run("purge removes only old read entries", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		notes := NewNotifications(tx)
		read, err := notes.Append(bob.ID, alice.ID, NotificationNewFollower, "alice started following you")
		require.NoError(err)
		require.NoError(notes.MarkRead(read.ID, bob.ID))
		unread, err := notes.Append(bob.ID, alice.ID, NotificationFollowRequest, "alice requested to follow you")
		require.NoError(err)

		purged, err := notes.PurgeRead(time.Now().Add(time.Minute))
		require.NoError(err)
		require.EqualValues(1, purged)

		entries, err := notes.ListForUser(bob.ID, 10, 0)
		require.NoError(err)
		require.Len(entries, 1)
		require.Equal(unread.ID, entries[0].ID)
	})
}
