package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/BookingGo/internal/domain"
	apperrors "github.com/utafrali/BookingGo/pkg/errors"
)

func setupTestStore(t *testing.T) *CartStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "carts.db")
	store, err := NewCartStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testCart(guestID string) *domain.Cart {
	cart := domain.NewEmptyCart(guestID)
	cart.Items = append(cart.Items, domain.LineItem{
		ID:           domain.ItemID(1, 4),
		HotelID:      1,
		HotelName:    "Seaside Resort",
		Room:         domain.Room{ID: 4, Type: "King Suite", Price: 25000, Capacity: 2},
		CheckInDate:  "2026-10-01",
		CheckOutDate: "2026-10-04",
	})
	cart.Recalculate()
	return cart
}

func TestCartStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cart := testCart("guest-1")
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, "guest-1", got.GuestID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "1-4", got.Items[0].ID)
	assert.Equal(t, int64(25000), got.TotalPrice)
	assert.Equal(t, 1, got.TotalItems)
}

func TestCartStore_Get_NotFound(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.Get(context.Background(), "missing")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartStore_Save_Overwrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cart := testCart("guest-2")
	require.NoError(t, store.Save(ctx, cart))

	cart.Items = append(cart.Items, domain.LineItem{
		ID:      domain.ItemID(2, 9),
		HotelID: 2,
		Room:    domain.Room{ID: 9, Type: "Twin", Price: 9000, Capacity: 2},
	})
	cart.Recalculate()
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "guest-2")
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, int64(34000), got.TotalPrice)
}

func TestCartStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cart := testCart("guest-3")
	require.NoError(t, store.Save(ctx, cart))
	require.NoError(t, store.Delete(ctx, "guest-3"))

	_, err := store.Get(ctx, "guest-3")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartStore_Delete_NonExistent(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "never-existed"))
}

func TestCartStore_IsolatesGuests(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testCart("guest-a")))
	require.NoError(t, store.Save(ctx, testCart("guest-b")))
	require.NoError(t, store.Delete(ctx, "guest-a"))

	_, err := store.Get(ctx, "guest-a")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := store.Get(ctx, "guest-b")
	require.NoError(t, err)
	assert.Equal(t, "guest-b", got.GuestID)
}

func TestCartStore_Ping(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
