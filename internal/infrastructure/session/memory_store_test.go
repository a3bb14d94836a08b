package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func testCart(t *testing.T, sessionID string) *cart.Cart {
	t.Helper()
	c := cart.New(sessionID)
	_, err := c.AddItem(cart.AddItemInput{
		Product: cart.Product{
			ID:        "prod-1",
			Name:      "Linen Shirt",
			UnitPrice: valueobject.NewMoneyNGNFromInt(2500),
		},
		Size:     "M",
		Color:    "White",
		Quantity: 2,
	})
	require.NoError(t, err)
	return c
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	c := testCart(t, "sess-1")
	require.NoError(t, store.Save(ctx, "sess-1", c))

	loaded, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, c.ID, loaded.ID)
	assert.Len(t, loaded.Items, 1)
	assert.Equal(t, int64(2), loaded.Items[0].Quantity)
}

func TestMemoryStore_GetUnknownSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	_, err := store.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStore_SaveRequiresSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	err := store.Save(context.Background(), "", testCart(t, ""))
	assert.ErrorIs(t, err, shared.ErrSessionRequired)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", testCart(t, "sess-1")))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete(ctx, "sess-1"))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(20 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", testCart(t, "sess-1")))

	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", testCart(t, "sess-1")))

	first, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	first.Items[0].Quantity = 99

	second, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Items[0].Quantity)
}

func TestMemoryStore_RemoveExpired(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", testCart(t, "sess-1")))
	time.Sleep(30 * time.Millisecond)
	store.removeExpired()

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Empty(t, store.entries)
}
