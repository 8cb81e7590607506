package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/config"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated sqlite :memory: database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func newTestOrder(t *testing.T, displayID, customer string, prices ...string) *fulfillment.Order {
	t.Helper()
	if len(prices) == 0 {
		prices = []string{"1999.00"}
	}
	items := make([]fulfillment.NewOrderItem, len(prices))
	for i, p := range prices {
		items[i] = fulfillment.NewOrderItem{
			Name:      "Phone " + string(rune('A'+i)),
			Variant:   "128GB",
			UnitPrice: decimal.RequireFromString(p),
			Quantity:  1,
		}
	}
	order, err := fulfillment.NewOrder(displayID,
		fulfillment.Customer{ID: "cust-" + customer, Name: customer, Email: customer + "@example.com"},
		valueobject.Address{Name: customer, Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", PostalCode: "560001", Country: "India"},
		fulfillment.Payment{},
		items)
	require.NoError(t, err)
	return order
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, "ORD-ABC234", "Asha", "1999.00", "499.50")
	require.NoError(t, repo.Save(ctx, order))
	assert.Equal(t, 2, order.Version)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-ABC234", found.DisplayID)
	assert.Equal(t, fulfillment.OrderStatusPending, found.Status)
	require.Len(t, found.Items, 2)
	assert.Equal(t, order.Items[0].ID, found.Items[0].ID)
	assert.Equal(t, order.Items[1].ID, found.Items[1].ID)
	assert.True(t, decimal.RequireFromString("499.50").Equal(found.Items[1].UnitPrice))
	assert.Equal(t, fulfillment.SerialTypeSerialNumber, found.Items[0].SerialType)
	require.Len(t, found.Timeline, 1)
	assert.Equal(t, "Order placed", found.Timeline[0].Note)
	assert.Equal(t, "Bengaluru", found.ShippingAddress.City)
	assert.Equal(t, fulfillment.DefaultPaymentMethod, found.Payment.Method)
	assert.Empty(t, found.GetDomainEvents())

	byDisplay, err := repo.FindByDisplayID(ctx, " ord-abc234 ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byDisplay.ID)

	exists, err := repo.ExistsByDisplayID(ctx, "ORD-ABC234")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByDisplayID(ctx, "ORD-ZZZ999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormOrderRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByDisplayID(context.Background(), "ORD-NOPE22")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_SaveTransitionPersistsSerialsAndTimeline(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, "ORD-PKD234", "Ravi")
	require.NoError(t, repo.Save(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Transition(fulfillment.OrderStatusPacked, "packed at hub", []fulfillment.SerialUpdate{
		{ItemID: loaded.Items[0].ID, Serial: "356938035643809", Type: fulfillment.SerialTypeIMEI},
	}))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.OrderStatusPacked, reloaded.Status)
	assert.Equal(t, "356938035643809", reloaded.Items[0].SerialNumber)
	assert.Equal(t, fulfillment.SerialTypeIMEI, reloaded.Items[0].SerialType)
	require.Len(t, reloaded.Timeline, 2)
	assert.Equal(t, fulfillment.OrderStatusPacked, reloaded.Timeline[1].Status)
	assert.Equal(t, "packed at hub", reloaded.Timeline[1].Note)
	assert.Equal(t, 3, reloaded.Version)

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItemModel{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Equal(t, int64(1), itemCount)
}

func TestGormOrderRepository_SaveRemovesDroppedItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, "ORD-DRP234", "Meera", "100", "200", "300")
	require.NoError(t, repo.Save(ctx, order))

	order.Items = order.Items[:1]
	require.NoError(t, repo.Save(ctx, order))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, order.Items[0].ID, found.Items[0].ID)
}

func TestGormOrderRepository_FindAllFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	asha := newTestOrder(t, "ORD-AAA234", "Asha")
	ravi := newTestOrder(t, "ORD-BBB234", "Ravi")
	meera := newTestOrder(t, "ORD-CCC234", "Meera")
	asha.Date = time.Now().Add(-3 * time.Hour)
	ravi.Date = time.Now().Add(-2 * time.Hour)
	meera.Date = time.Now().Add(-1 * time.Hour)
	require.NoError(t, ravi.Transition(fulfillment.OrderStatusConfirmed, "", nil))
	for _, o := range []*fulfillment.Order{asha, ravi, meera} {
		require.NoError(t, repo.Save(ctx, o))
	}

	t.Run("by status", func(t *testing.T) {
		filter := fulfillment.OrderFilter{Filter: shared.DefaultFilter(), Status: fulfillment.OrderStatusConfirmed}
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-BBB234", orders[0].DisplayID)
		require.Len(t, orders[0].Items, 1)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("by customer email ignores case", func(t *testing.T) {
		filter := fulfillment.OrderFilter{Filter: shared.DefaultFilter(), CustomerEmail: "MEERA@example.com"}
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-CCC234", orders[0].DisplayID)
	})

	t.Run("search matches display id and name", func(t *testing.T) {
		filter := fulfillment.OrderFilter{Filter: shared.DefaultFilter()}
		filter.Search = "aaa"
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-AAA234", orders[0].DisplayID)

		filter.Search = "ravi"
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("sorted by date with pagination", func(t *testing.T) {
		filter := fulfillment.OrderFilter{Filter: shared.DefaultFilter()}
		filter.OrderBy = "date"
		filter.OrderDir = "asc"
		filter.PageSize = 2

		first, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "ORD-AAA234", first[0].DisplayID)
		assert.Equal(t, "ORD-BBB234", first[1].DisplayID)

		filter.Page = 2
		second, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "ORD-CCC234", second[0].DisplayID)

		total, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		filter := fulfillment.OrderFilter{Filter: shared.DefaultFilter()}
		filter.OrderBy = "1; DROP TABLE orders"
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})
}
