package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"campus-connect-backend/internal/kvstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooksIsolateOwners(t *testing.T) {
	ctx := context.Background()
	books := NewBooks(kvstore.NewMemoryBackend())

	_, err := books.For("alice").Registrations.Register(ctx, "evt-1")
	require.NoError(t, err)

	assert.True(t, books.For("alice").Registrations.IsRegistered(ctx, "evt-1"))
	assert.False(t, books.For("bob").Registrations.IsRegistered(ctx, "evt-1"))
}

func TestBooksSerializeAcrossInstances(t *testing.T) {
	ctx := context.Background()
	books := NewBooks(kvstore.NewMemoryBackend())

	// every request builds a fresh Book; the shared locker must still serialize them
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := books.For("alice").Reviews.Add(ctx, "evt-1", "hello", 4, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, books.For("alice").Reviews.List(ctx, "evt-1"), 40)
}

func TestBooksPassOptions(t *testing.T) {
	books := NewBooks(kvstore.NewMemoryBackend(), WithDefaultUploader("Campus"), WithIDFunc(sequentialIDs()))

	photo, err := books.For("alice").Photos.Add(context.Background(), "evt-1", "uri", "")
	require.NoError(t, err)
	assert.Equal(t, "Campus", photo.UploadedBy)
	assert.Equal(t, "rec-1", photo.ID)
}

func TestMetricsCountOutcomes(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	book := NewBook(kvstore.NewMemoryBackend().Scope("d"), WithMetrics(metrics))

	require.NoError(t, book.Ratings.Set(ctx, "evt-1", 3))
	require.Error(t, book.Ratings.Set(ctx, "evt-1", 9))
	_, err := book.Favorites.Toggle(ctx, "evt-1")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("ratings", "set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("ratings", "set", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.operations.WithLabelValues("favorites", "toggle", "ok")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.observeOp("ratings", "set", nil)
	m.observeStorage("ratings", "get", time.Now())
}
