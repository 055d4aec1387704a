package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(externalID int64, price int64) ProductSnapshot {
	return ProductSnapshot{
		ProductID:  uuid.New(),
		ShopID:     uuid.New(),
		CategoryID: uuid.New(),
		ExternalID: externalID,
		Name:       "Product",
		Price:      decimal.NewFromInt(price),
	}
}

func newTestCart(t *testing.T) *Order {
	t.Helper()
	cart, err := NewCart(uuid.New())
	require.NoError(t, err)
	return cart
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusCart, OrderStatusNew, true},
		{OrderStatusCart, OrderStatusConfirmed, false},
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCanceled, true},
		{OrderStatusNew, OrderStatusSent, false},
		{OrderStatusConfirmed, OrderStatusAssembled, true},
		{OrderStatusAssembled, OrderStatusSent, true},
		{OrderStatusAssembled, OrderStatusCanceled, true},
		{OrderStatusSent, OrderStatusDelivered, true},
		{OrderStatusSent, OrderStatusCanceled, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusNew, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, OrderStatusDelivered.IsTerminal())
	assert.False(t, OrderStatus("basket").IsValid())
}

func TestNewCart(t *testing.T) {
	cart := newTestCart(t)
	assert.True(t, cart.IsCart())
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalSum().IsZero())

	_, err := NewCart(uuid.Nil)
	assert.Error(t, err)
}

func TestOrder_AddItem(t *testing.T) {
	t.Run("adds a line with computed total", func(t *testing.T) {
		cart := newTestCart(t)
		item, err := cart.AddItem(newSnapshot(1, 250), 2)
		require.NoError(t, err)

		assert.Equal(t, cart.ID, item.OrderID)
		assert.True(t, decimal.NewFromInt(500).Equal(item.TotalAmount))
		assert.Equal(t, 2, cart.TotalQuantity())
		assert.True(t, decimal.NewFromInt(500).Equal(cart.TotalSum()))
	})

	t.Run("aggregates the same product", func(t *testing.T) {
		cart := newTestCart(t)
		snap := newSnapshot(7, 100)
		_, err := cart.AddItem(snap, 1)
		require.NoError(t, err)
		item, err := cart.AddItem(snap, 3)
		require.NoError(t, err)

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 4, item.Quantity)
		assert.True(t, decimal.NewFromInt(400).Equal(cart.TotalSum()))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		cart := newTestCart(t)
		_, err := cart.AddItem(newSnapshot(1, 10), 0)
		assert.Error(t, err)
	})

	t.Run("rejects changes after placement", func(t *testing.T) {
		cart := newTestCart(t)
		_, err := cart.AddItem(newSnapshot(1, 10), 1)
		require.NoError(t, err)
		require.NoError(t, cart.Place(uuid.New()))

		_, err = cart.AddItem(newSnapshot(2, 10), 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cart")
	})
}

func TestOrder_UpdateAndRemoveItems(t *testing.T) {
	cart := newTestCart(t)
	a, err := cart.AddItem(newSnapshot(1, 10), 1)
	require.NoError(t, err)
	aID := a.ID
	b, err := cart.AddItem(newSnapshot(2, 20), 1)
	require.NoError(t, err)
	bID := b.ID

	ok, err := cart.UpdateItemQuantity(aID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, decimal.NewFromInt(50).Equal(cart.GetItem(aID).TotalAmount))

	ok, err = cart.UpdateItemQuantity(uuid.New(), 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cart.UpdateItemQuantity(aID, 0)
	assert.Error(t, err)

	removed, err := cart.RemoveItems([]uuid.UUID{bID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, cart.Items, 1)
	assert.Nil(t, cart.GetItem(bID))
}

func TestOrder_Place(t *testing.T) {
	t.Run("moves cart to new and raises event", func(t *testing.T) {
		cart := newTestCart(t)
		_, err := cart.AddItem(newSnapshot(1, 10), 3)
		require.NoError(t, err)
		contactID := uuid.New()

		require.NoError(t, cart.Place(contactID))
		assert.Equal(t, OrderStatusNew, cart.Status)
		assert.Equal(t, contactID, *cart.ContactID)

		events := cart.GetDomainEvents()
		require.Len(t, events, 1)
		placed, ok := events[0].(*OrderPlacedEvent)
		require.True(t, ok)
		assert.Equal(t, 3, placed.TotalQuantity)
		assert.Len(t, placed.ShopIDs, 1)
		assert.Equal(t, OrderStatusNew, placed.CurrentStatus())
	})

	t.Run("empty cart", func(t *testing.T) {
		cart := newTestCart(t)
		err := cart.Place(uuid.New())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("missing contact", func(t *testing.T) {
		cart := newTestCart(t)
		_, err := cart.AddItem(newSnapshot(1, 10), 1)
		require.NoError(t, err)
		assert.Error(t, cart.Place(uuid.Nil))
	})
}

func TestOrder_ChangeStatus(t *testing.T) {
	order := newTestCart(t)
	_, err := order.AddItem(newSnapshot(1, 10), 1)
	require.NoError(t, err)

	assert.Error(t, order.ChangeStatus(OrderStatusConfirmed), "cart cannot skip placement")

	require.NoError(t, order.Place(uuid.New()))
	order.ClearDomainEvents()

	require.NoError(t, order.ChangeStatus(OrderStatusConfirmed))
	assert.True(t, order.CanBeCanceledByBuyer())
	require.NoError(t, order.ChangeStatus(OrderStatusAssembled))
	assert.False(t, order.CanBeCanceledByBuyer())

	err = order.ChangeStatus(OrderStatusDelivered)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "from assembled to delivered")

	assert.Error(t, order.ChangeStatus(OrderStatus("lost")))

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCanceled, order.Status)

	events := order.GetDomainEvents()
	require.Len(t, events, 3)
	last, ok := events[2].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, OrderStatusAssembled, last.OldStatus)
	assert.Equal(t, OrderStatusCanceled, last.CurrentStatus())
}

func TestOrder_ShopView(t *testing.T) {
	cart := newTestCart(t)
	snapA := newSnapshot(1, 10)
	snapB := newSnapshot(2, 30)
	_, err := cart.AddItem(snapA, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(snapB, 1)
	require.NoError(t, err)

	assert.True(t, cart.HasItemsFromShop(snapA.ShopID))
	assert.False(t, cart.HasItemsFromShop(uuid.New()))

	items := cart.ItemsForShop(snapB.ShopID)
	require.Len(t, items, 1)
	sum, qty := SumItems(items)
	assert.True(t, decimal.NewFromInt(30).Equal(sum))
	assert.Equal(t, 1, qty)
}

func TestOrder_StockChanges(t *testing.T) {
	cart := newTestCart(t)
	a := newSnapshot(1, 10)
	b := newSnapshot(2, 20)
	_, err := cart.AddItem(a, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(b, 1)
	require.NoError(t, err)

	reserve := cart.StockToReserve()
	require.Len(t, reserve, 2)
	assert.Equal(t, StockChange{ProductID: a.ProductID, Delta: -2}, reserve[0])
	assert.Equal(t, StockChange{ProductID: b.ProductID, Delta: -1}, reserve[1])

	// a deleted product leaves a line without a product id
	cart.Items[1].ProductID = nil
	release := cart.StockToRelease()
	assert.Equal(t, []StockChange{{ProductID: a.ProductID, Delta: 2}}, release)
}
