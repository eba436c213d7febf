package ledger

import (
	"context"
	"testing"

	"campus-connect-backend/internal/kvstore"
	"campus-connect-backend/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addPhotos(t *testing.T, photos *Photos, eventID string, uris ...string) []models.Photo {
	t.Helper()
	added := make([]models.Photo, 0, len(uris))
	for _, uri := range uris {
		photo, err := photos.Add(context.Background(), eventID, uri, "")
		require.NoError(t, err)
		added = append(added, photo)
	}
	return added
}

func TestPhotosAddAppendsInOrder(t *testing.T) {
	photos := NewPhotos(kvstore.NewMemoryBackend().Scope("d"),
		WithClock(newTestClock().Now), WithIDFunc(sequentialIDs()))

	added := addPhotos(t, photos, "evt-1", "file:///a.jpg", "file:///b.jpg", "file:///c.jpg")

	if diff := cmp.Diff(added, photos.List(context.Background(), "evt-1")); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "You", added[0].UploadedBy)
	assert.Equal(t, "rec-3", added[2].ID)
}

func TestPhotosAddKeepsUploader(t *testing.T) {
	photos := NewPhotos(kvstore.NewMemoryBackend().Scope("d"))

	photo, err := photos.Add(context.Background(), "evt-1", "s3://bucket/x.jpg", "Mike")
	require.NoError(t, err)
	assert.Equal(t, "Mike", photo.UploadedBy)
	assert.Equal(t, "s3://bucket/x.jpg", photo.URI)
}

func TestPhotosRemoveExisting(t *testing.T) {
	ctx := context.Background()
	photos := NewPhotos(kvstore.NewMemoryBackend().Scope("d"), WithIDFunc(sequentialIDs()))
	added := addPhotos(t, photos, "evt-1", "a", "b", "c")

	removed, err := photos.Remove(ctx, "evt-1", added[1].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	want := []models.Photo{added[0], added[2]}
	if diff := cmp.Diff(want, photos.List(ctx, "evt-1")); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestPhotosRemoveMissing(t *testing.T) {
	ctx := context.Background()
	store := newFaultyStore()
	photos := NewPhotos(store, WithIDFunc(sequentialIDs()))
	added := addPhotos(t, photos, "evt-1", "a", "b")
	writes := store.setCount()

	removed, err := photos.Remove(ctx, "evt-1", "no-such-photo")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = photos.Remove(ctx, "evt-without-photos", added[0].ID)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, writes, store.setCount())
	assert.Equal(t, added, photos.List(ctx, "evt-1"))
}

func TestPhotosRemoveLastLeavesEmptyList(t *testing.T) {
	ctx := context.Background()
	store := newFaultyStore()
	photos := NewPhotos(store, WithIDFunc(sequentialIDs()))
	added := addPhotos(t, photos, "evt-1", "a")

	removed, err := photos.Remove(ctx, "evt-1", added[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.JSONEq(t, `{"evt-1":[]}`, store.raw(t, PhotosKey))
}

func TestPhotosRemoveWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := newFaultyStore()
	photos := NewPhotos(store, WithIDFunc(sequentialIDs()))
	added := addPhotos(t, photos, "evt-1", "a")

	store.failSets(errDiskFull)
	removed, err := photos.Remove(ctx, "evt-1", added[0].ID)
	requireStorageError(t, err, "set")
	assert.False(t, removed)
	assert.Len(t, photos.List(ctx, "evt-1"), 1)
}

func TestEmptyStoreListsAreEmpty(t *testing.T) {
	ctx := context.Background()
	book := NewBook(kvstore.NewMemoryBackend().Scope("d"))

	assert.Empty(t, book.Registrations.List(ctx))
	assert.Empty(t, book.Favorites.List(ctx))
	_, ok := book.Ratings.Get(ctx, "evt-1")
	assert.False(t, ok)
	assert.Empty(t, book.Reviews.List(ctx, "evt-1"))
	assert.Empty(t, book.Photos.List(ctx, "evt-1"))
}
