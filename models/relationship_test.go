package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelationshipsCreate(t *testing.T) {
	db := setupTestDB(t)

	t.Run("accepted edge updates both counts", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		rel, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusAccepted)
		require.NoError(err)
		require.Equal(StatusAccepted, rel.Status)

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(1, bob.FollowersCount)
		require.EqualValues(0, bob.FollowingCount)

		require.NoError(tx.Find(alice).Error)
		require.EqualValues(1, alice.FollowingCount)
		require.EqualValues(0, alice.FollowersCount)
	})

	t.Run("pending edge does not count", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusPending)
		require.NoError(err)

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(0, bob.FollowersCount)
		require.NoError(tx.Find(alice).Error)
		require.EqualValues(0, alice.FollowingCount)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")

		_, err := NewRelationships(tx).Create(alice.ID, alice.ID, StatusAccepted)
		require.ErrorIs(err, ErrSelfFollow)
	})

	t.Run("second edge for the same pair is a duplicate", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusPending)
		require.NoError(err)
		_, err = NewRelationships(tx).Create(alice.ID, bob.ID, StatusAccepted)
		require.ErrorIs(err, ErrDuplicateEdge)

		var count int64
		require.NoError(tx.Model(&Relationship{}).Count(&count).Error)
		require.EqualValues(1, count)
	})

	t.Run("reverse edge is independent", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusAccepted)
		require.NoError(err)
		_, err = NewRelationships(tx).Create(bob.ID, alice.ID, StatusAccepted)
		require.NoError(err)

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(1, bob.FollowersCount)
		require.EqualValues(1, bob.FollowingCount)
	})
}

func TestRelationshipsUpdateStatus(t *testing.T) {
	db := setupTestDB(t)

	t.Run("pending to accepted updates counts", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusPending)
		require.NoError(err)

		rel, err := NewRelationships(tx).UpdateStatus(alice.ID, bob.ID, StatusAccepted, StatusPending)
		require.NoError(err)
		require.Equal(StatusAccepted, rel.Status)

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(1, bob.FollowersCount)
	})

	t.Run("expected status is enforced", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusRejected)
		require.NoError(err)

		_, err = NewRelationships(tx).UpdateStatus(alice.ID, bob.ID, StatusAccepted, StatusPending)
		require.ErrorIs(err, ErrStatusMismatch)

		rel, err := NewRelationships(tx).Find(alice.ID, bob.ID)
		require.NoError(err)
		require.Equal(StatusRejected, rel.Status)
	})

	t.Run("missing edge is not found", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).UpdateStatus(alice.ID, bob.ID, StatusAccepted, StatusPending)
		require.ErrorIs(err, ErrNotFound)
	})
}

func TestRelationshipsDelete(t *testing.T) {
	db := setupTestDB(t)

	t.Run("deleting an accepted edge decrements counts", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusAccepted)
		require.NoError(err)
		require.NoError(NewRelationships(tx).Delete(alice.ID, bob.ID, StatusAccepted))

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(0, bob.FollowersCount)
		require.NoError(tx.Find(alice).Error)
		require.EqualValues(0, alice.FollowingCount)

		_, err = NewRelationships(tx).Find(alice.ID, bob.ID)
		require.ErrorIs(err, ErrNotFound)
	})

	t.Run("status filter distinguishes cancel from unfollow", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		_, err := NewRelationships(tx).Create(alice.ID, bob.ID, StatusAccepted)
		require.NoError(err)

		err = NewRelationships(tx).Delete(alice.ID, bob.ID, StatusPending)
		require.ErrorIs(err, ErrInvalidTransition)

		rel, err := NewRelationships(tx).Find(alice.ID, bob.ID)
		require.NoError(err)
		require.Equal(StatusAccepted, rel.Status)
	})

	t.Run("missing edge is not found", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		alice := MockAccount(t, tx, "alice")
		bob := MockAccount(t, tx, "bob")

		err := NewRelationships(tx).Delete(alice.ID, bob.ID, StatusPending)
		require.ErrorIs(err, ErrNotFound)
	})
}

func TestRelationshipsRejectPending(t *testing.T) {
	db := setupTestDB(t)

	t.Run("only pending edges targeting the account transition", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		bob := MockAccount(t, tx, "bob")
		accepted := MockAccount(t, tx, "carol")
		pending1 := MockAccount(t, tx, "dave")
		pending2 := MockAccount(t, tx, "erin")

		rels := NewRelationships(tx)
		_, err := rels.Create(accepted.ID, bob.ID, StatusAccepted)
		require.NoError(err)
		_, err = rels.Create(pending1.ID, bob.ID, StatusPending)
		require.NoError(err)
		_, err = rels.Create(pending2.ID, bob.ID, StatusPending)
		require.NoError(err)
		// a pending edge in the other direction is untouched
		_, err = rels.Create(bob.ID, pending1.ID, StatusPending)
		require.NoError(err)

		rejected, err := rels.RejectPending(bob.ID)
		require.NoError(err)
		require.EqualValues(2, rejected)

		rel, err := rels.Find(accepted.ID, bob.ID)
		require.NoError(err)
		require.Equal(StatusAccepted, rel.Status)

		rel, err = rels.Find(pending1.ID, bob.ID)
		require.NoError(err)
		require.Equal(StatusRejected, rel.Status)

		rel, err = rels.Find(bob.ID, pending1.ID)
		require.NoError(err)
		require.Equal(StatusPending, rel.Status)

		require.NoError(tx.Find(bob).Error)
		require.EqualValues(1, bob.FollowersCount)
	})
}

func TestRelationshipsListAndCount(t *testing.T) {
	db := setupTestDB(t)

	t.Run("counts by direction and status", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		bob := MockAccount(t, tx, "bob")
		alice := MockAccount(t, tx, "alice")
		carol := MockAccount(t, tx, "carol")

		rels := NewRelationships(tx)
		_, err := rels.Create(alice.ID, bob.ID, StatusAccepted)
		require.NoError(err)
		_, err = rels.Create(carol.ID, bob.ID, StatusPending)
		require.NoError(err)
		_, err = rels.Create(bob.ID, carol.ID, StatusAccepted)
		require.NoError(err)

		count, err := rels.CountByStatus(bob.ID, Followers, StatusAccepted)
		require.NoError(err)
		require.EqualValues(1, count)

		count, err = rels.CountByStatus(bob.ID, Followers, StatusPending)
		require.NoError(err)
		require.EqualValues(1, count)

		count, err = rels.CountByStatus(bob.ID, Following, StatusAccepted)
		require.NoError(err)
		require.EqualValues(1, count)
	})

	t.Run("listing preloads the far end and paginates newest first", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		bob := MockAccount(t, tx, "bob")
		rels := NewRelationships(tx)
		var followers []*Account
		for _, name := range []string{"alice", "carol", "dave"} {
			follower := MockAccount(t, tx, name)
			followers = append(followers, follower)
			_, err := rels.Create(follower.ID, bob.ID, StatusAccepted)
			require.NoError(err)
		}

		page, err := rels.ListByStatus(bob.ID, Followers, StatusAccepted, 1, 2)
		require.NoError(err)
		require.Len(page, 2)
		require.NotNil(page[0].Follower)
		require.Equal(followers[2].ID, page[0].FollowerID)
		require.Equal(followers[1].ID, page[1].FollowerID)

		page, err = rels.ListByStatus(bob.ID, Followers, StatusAccepted, 2, 2)
		require.NoError(err)
		require.Len(page, 1)
		require.Equal(followers[0].ID, page[0].FollowerID)
	})
}
