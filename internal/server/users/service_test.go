package users

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := kv.NewInMemoryStore()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(NewKVRepository(store), log)
}

func analystProfile(username, email string) Profile {
	return Profile{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Secret:    "pass123",
	}
}

func TestBootstrapIdentity_MaterializedOnce(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bootstrapUsername, users[0].Username)
	assert.Equal(t, RoleAdmin, users[0].Role)

	// a second read does not duplicate it
	users, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLogin_SetsActiveSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.Login(ctx, bootstrapUsername, bootstrapSecret)
	require.NoError(t, err)

	active, err := s.ActiveUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, u.ID, active.ID)

	require.NoError(t, s.Logout(ctx))
	active, err = s.ActiveUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestLogin_WrongSecret(t *testing.T) {
	s := newTestService(t)

	_, err := s.Login(context.Background(), bootstrapUsername, "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	before, err := s.List(ctx)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, analystProfile("bob", "ALICE@example.com"), RoleAnalyst, false)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, analystProfile("alice", "other@example.com"), RoleAnalyst, false)
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestCreateUser_AutoActivate(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, true)
	require.NoError(t, err)

	active, err := s.ActiveUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, u.ID, active.ID)
}

func TestCreateUser_NoAutoActivateKeepsSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	admin, err := s.Login(ctx, bootstrapUsername, bootstrapSecret)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	active, err := s.ActiveUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, admin.ID, active.ID)
}

func TestUpdateProfile_SelfCollisionAllowed(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	// writing back its own username/email is a no-op, not a collision
	err = s.UpdateProfile(ctx, u.ID, ProfileUpdate{Username: &u.Username, Email: &u.Email})
	assert.NoError(t, err)
}

func TestUpdateProfile_DuplicateAgainstOtherUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)
	bob, err := s.CreateUser(ctx, analystProfile("bob", "bob@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	taken := "alice"
	err = s.UpdateProfile(ctx, bob.ID, ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	takenEmail := "alice@example.com"
	err = s.UpdateProfile(ctx, bob.ID, ProfileUpdate{Email: &takenEmail})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestChangePassword(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	err = s.ChangePassword(ctx, u.ID, "nope", "newpass")
	assert.ErrorIs(t, err, common.ErrInvalidCredential)

	require.NoError(t, s.ChangePassword(ctx, u.ID, "pass123", "newpass"))

	_, err = s.Login(ctx, "alice", "newpass")
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, u.ID))

	_, err = s.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = s.DeleteUser(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSearch(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, analystProfile("alice", "alice@example.com"), RoleAnalyst, false)
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, analystProfile("alina", "alina@example.com"), RoleAnalyst, false)
	require.NoError(t, err)

	found, err := s.Search(ctx, "ALI")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.Search(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
