package library

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

var (
	userA = users.User{ID: "user-a", Username: "anna", FirstName: "Anna", LastName: "Meyer", Role: users.RoleAnalyst}
	userB = users.User{ID: "user-b", Username: "boris", FirstName: "Boris", Role: users.RoleAnalyst}
	admin = users.User{ID: "user-admin", Username: "axel", Role: users.RoleAdmin}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store := kv.NewInMemoryStore()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(NewKVRepository(store), log)
}

func createRecord(t *testing.T, s *Service, owner users.User, vendor string, score int) *Record {
	t.Helper()
	r, err := s.Create(context.Background(), owner, vendor+".pdf", vendor, score, json.RawMessage(`{"summary":"ok"}`))
	require.NoError(t, err)
	return r
}

func TestCreate_LandsInPersonalOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)

	personal, err := s.ListPersonal(ctx, userA.ID)
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, r.ID, personal[0].ID)
	assert.Equal(t, userA.ID, personal[0].OwnerID)
	assert.Nil(t, personal[0].Uploader)

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Empty(t, collective)

	// other users do not see it
	other, err := s.ListPersonal(ctx, userB.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPublish_MovesRecordWithProvenance(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)

	require.NoError(t, s.Publish(ctx, r.ID, userA))

	personal, err := s.ListPersonal(ctx, userA.ID)
	require.NoError(t, err)
	assert.Empty(t, personal)

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	require.Len(t, collective, 1)
	assert.Equal(t, r.ID, collective[0].ID)
	assert.True(t, collective[0].Published)
	require.NotNil(t, collective[0].Uploader)
	assert.Equal(t, userA.ID, collective[0].Uploader.ID)
	assert.Equal(t, "Anna", collective[0].Uploader.FirstName)
}

func TestPublish_RepublishOverwritesInsteadOfDuplicating(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	// save back, then publish again as another user
	_, err := s.SaveToPersonal(ctx, r.ID, userB)
	require.NoError(t, err)
	require.NoError(t, s.Publish(ctx, r.ID, userB))

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	require.Len(t, collective, 1)
	assert.Equal(t, userB.ID, collective[0].Uploader.ID)
}

func TestPublish_IdempotentAfterMove(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	// already collective, absent from personal: a re-run is a no-op
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Len(t, collective, 1)
}

func TestPublish_UnknownRecord(t *testing.T) {
	s := newTestService(t)

	err := s.Publish(context.Background(), "missing", userA)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPublishGroup_AppliesPerRecord(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r1 := createRecord(t, s, userA, "Acme", 80)
	r2 := createRecord(t, s, userA, "Acme", 60)

	require.NoError(t, s.PublishGroup(ctx, []string{r1.ID, r2.ID}, userA))

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Len(t, collective, 2)

	personal, err := s.ListPersonal(ctx, userA.ID)
	require.NoError(t, err)
	assert.Empty(t, personal)
}

func TestSaveToPersonal_ForksWithoutTouchingCollective(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	collectiveBefore, err := s.ListCollective(ctx)
	require.NoError(t, err)

	saved, err := s.SaveToPersonal(ctx, r.ID, userB)
	require.NoError(t, err)
	assert.Equal(t, r.ID, saved.ID)
	assert.Equal(t, userB.ID, saved.OwnerID)

	personalB, err := s.ListPersonal(ctx, userB.ID)
	require.NoError(t, err)
	require.Len(t, personalB, 1)
	assert.Equal(t, userB.ID, personalB[0].OwnerID)

	collectiveAfter, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(collectiveBefore), len(collectiveAfter))
	assert.Equal(t, userA.ID, collectiveAfter[0].Uploader.ID)
}

func TestSaveToPersonal_UnknownRecord(t *testing.T) {
	s := newTestService(t)

	_, err := s.SaveToPersonal(context.Background(), "missing", userB)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeletePersonal_OwnerOnly(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)

	err := s.DeletePersonal(ctx, r.ID, userB)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	require.NoError(t, s.DeletePersonal(ctx, r.ID, userA))

	personal, err := s.ListPersonal(ctx, userA.ID)
	require.NoError(t, err)
	assert.Empty(t, personal)
}

func TestDeleteCollective_Permissions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	// an unrelated non-admin cannot delete
	err := s.DeleteCollective(ctx, r.ID, userB)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Len(t, collective, 1)

	// the uploader can
	require.NoError(t, s.DeleteCollective(ctx, r.ID, userA))
	collective, err = s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Empty(t, collective)
}

func TestDeleteCollective_AdminOverride(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, r.ID, userA))

	require.NoError(t, s.DeleteCollective(ctx, r.ID, admin))

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Empty(t, collective)
}

func TestScenario_PublishThenSaveBack(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	// user A creates X and publishes it
	x := createRecord(t, s, userA, "Acme", 80)
	require.NoError(t, s.Publish(ctx, x.ID, userA))

	collective, err := s.ListCollective(ctx)
	require.NoError(t, err)
	require.Len(t, collective, 1)
	assert.Equal(t, userA.ID, collective[0].Uploader.ID)

	personalA, err := s.ListPersonal(ctx, userA.ID)
	require.NoError(t, err)
	assert.Empty(t, personalA)

	// user B saves X back
	_, err = s.SaveToPersonal(ctx, x.ID, userB)
	require.NoError(t, err)

	personalB, err := s.ListPersonal(ctx, userB.ID)
	require.NoError(t, err)
	require.Len(t, personalB, 1)
	assert.Equal(t, userB.ID, personalB[0].OwnerID)

	collective, err = s.ListCollective(ctx)
	require.NoError(t, err)
	assert.Len(t, collective, 1)
}

func TestExists_ChecksBothPartitions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	r := createRecord(t, s, userA, "Acme", 80)

	ok, err := s.Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Publish(ctx, r.ID, userA))

	ok, err = s.Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DeleteCollective(ctx, r.ID, userA))

	ok, err = s.Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
