package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seisaku-manager/internal/models"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(openTestDB(t))

	alice := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleMember}
	require.NoError(t, users.Create(ctx, &alice))
	bob := models.User{Username: "bob", PasswordHash: "x", Role: models.RoleMember, Approved: true}
	require.NoError(t, users.Create(ctx, &bob))

	dup := models.User{Username: "alice", PasswordHash: "y", Role: models.RoleMember}
	assert.ErrorIs(t, users.Create(ctx, &dup), ErrUserExists)

	got, err := users.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.False(t, got.Approved)

	_, err = users.ByUsername(ctx, "carol")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.ByID(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	pending, err := users.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "alice", pending[0].Username)

	approved, err := users.Approve(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved)

	pending, err = users.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := users.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = users.Approve(ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db)
	u := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleMember, Approved: true}
	require.NoError(t, users.Create(ctx, &u))

	trail := NewAuditTrail(db)
	require.NoError(t, trail.Record(ctx, u.ID, "project", "P1", "create", "看板製作"))
	require.NoError(t, trail.Record(ctx, u.ID, "project", "P1", "update", "納期変更"))
	require.NoError(t, trail.Record(ctx, u.ID, "project", "P2", "create", "other"))

	logs, err := trail.History(ctx, "project", "P1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "update", logs[0].Action)
	assert.Equal(t, "create", logs[1].Action)
	assert.Equal(t, "alice", logs[0].User.Username)
}

func TestUserStore_InsertDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(openTestDB(t))

	first := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleMember}
	require.NoError(t, users.insert(ctx, &first))

	// a second registration that slipped past the count check
	second := models.User{Username: "alice", PasswordHash: "y", Role: models.RoleMember}
	assert.ErrorIs(t, users.insert(ctx, &second), ErrUserExists)

	all, err := users.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
