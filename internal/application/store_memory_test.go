package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"btoportal/pkg/domain"
	"btoportal/pkg/platform/sentinel"
)

func newApplication(nric string, status Status) Application {
	return Application{
		ID:            uuid.New(),
		ApplicantNRIC: nric,
		ProjectID:     1,
		FlatType:      domain.FlatTypeTwoRoom,
		Status:        status,
	}
}

func TestInMemoryStore_CreateIfNoActive(t *testing.T) {
	ctx := context.Background()

	t.Run("blocks while an active application exists", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusPending)))

		err := store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusPending))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("Successful still counts as active", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusSuccessful)))

		err := store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusPending))
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("allows a fresh application after an unsuccessful one", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusUnsuccessful)))
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusPending)))

		apps, err := store.ListByApplicant(ctx, "S1234567A")
		require.NoError(t, err)
		assert.Len(t, apps, 2)
	})

	t.Run("different applicants never collide", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S1234567A", StatusPending)))
		require.NoError(t, store.CreateIfNoActive(ctx, newApplication("S7654321B", StatusPending)))
	})
}

func TestInMemoryStore_FindByApplicantAndProject(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	app := newApplication("S1234567A", StatusUnsuccessful)
	require.NoError(t, store.CreateIfNoActive(ctx, app))

	t.Run("finds regardless of status", func(t *testing.T) {
		got, err := store.FindByApplicantAndProject(ctx, "S1234567A", 1)
		require.NoError(t, err)
		assert.Equal(t, app.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.FindByApplicantAndProject(ctx, "S1234567A", 2)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestInMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	app := newApplication("S1234567A", StatusPending)
	require.NoError(t, store.CreateIfNoActive(ctx, app))

	app.Status = StatusSuccessful
	require.NoError(t, store.Update(ctx, app))

	got, err := store.FindByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessful, got.Status)

	missing := newApplication("S9999999Z", StatusPending)
	assert.ErrorIs(t, store.Update(ctx, missing), sentinel.ErrNotFound)
}
