package integration

import (
	"context"
	"testing"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence"
	"github.com/appzetogit/indiankart-sub000/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReturnRequestRepository_Integration tests the ReturnRequestRepository against a real PostgreSQL database
func TestReturnRequestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	orders := persistence.NewGormOrderRepository(testDB.DB)
	repo := persistence.NewGormReturnRequestRepository(testDB.DB)
	factory := testutil.NewOrderFactory(11)
	ctx := context.Background()

	delivered := factory.Order(t)
	factory.AdvanceOrder(t, delivered, fulfillment.OrderStatusDelivered)
	require.NoError(t, orders.Save(ctx, delivered))

	pending := factory.Order(t)
	require.NoError(t, orders.Save(ctx, pending))

	t.Run("Save and find a return", func(t *testing.T) {
		images := []string{"https://cdn.example.com/damage-1.jpg", "https://cdn.example.com/damage-2.jpg"}
		request, err := postsale.NewReturnRequest(delivered, delivered.Items[0].ID, postsale.RequestTypeReturn,
			"Damaged in transit", "box was crushed", images)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, request))

		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, request.RequestNumber, found.RequestNumber)
		assert.Equal(t, delivered.ID, found.OrderID)
		assert.Equal(t, delivered.DisplayID, found.OrderDisplayID)
		require.NotNil(t, found.ItemID)
		assert.Equal(t, delivered.Items[0].ID, *found.ItemID)
		assert.Equal(t, images, found.Images)
		assert.True(t, delivered.Items[0].UnitPrice.Equal(found.Product.Price))

		byNumber, err := repo.FindByRequestNumber(ctx, request.RequestNumber)
		require.NoError(t, err)
		assert.Equal(t, request.ID, byNumber.ID)
	})

	t.Run("Lifecycle updates persist", func(t *testing.T) {
		request, err := postsale.NewReturnRequest(delivered, delivered.Items[0].ID, postsale.RequestTypeReplacement,
			"Wrong colour", "", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, request))

		for _, next := range []postsale.ReturnStatus{
			postsale.ReturnStatusApproved,
			postsale.ReturnStatusPickupScheduled,
			postsale.ReturnStatusReceivedAtWarehouse,
			postsale.ReturnStatusReplacementDispatched,
		} {
			require.NoError(t, request.Advance(next, ""))
			require.NoError(t, repo.Save(ctx, request))
		}

		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, postsale.ReturnStatusReplacementDispatched, found.Status)
		assert.Equal(t, []postsale.ReturnStatus{postsale.ReturnStatusCompleted}, found.AllowedNextStatuses())
		assert.Len(t, found.Timeline, 5)
	})

	t.Run("Cancellation request has no item", func(t *testing.T) {
		request, err := postsale.NewCancellationRequest(pending, "", "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, request))

		found, err := repo.FindByID(ctx, request.ID)
		require.NoError(t, err)
		assert.Nil(t, found.ItemID)
		assert.Equal(t, postsale.RequestTypeCancellation, found.Type)
		assert.Equal(t, postsale.DefaultCancellationReason, found.Reason)
		assert.True(t, pending.ItemsTotal().Equal(found.Product.Price))
	})

	t.Run("Unknown order violates the foreign key", func(t *testing.T) {
		orphan := factory.Order(t)
		factory.AdvanceOrder(t, orphan, fulfillment.OrderStatusDelivered)

		request, err := postsale.NewReturnRequest(orphan, orphan.Items[0].ID, postsale.RequestTypeReturn, "Defective", "", nil)
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, request))
	})

	t.Run("Filter by order and type", func(t *testing.T) {
		orderID := delivered.ID
		filter := postsale.ReturnFilter{Filter: shared.DefaultFilter(), OrderID: &orderID, Type: postsale.RequestTypeReturn}

		requests, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, postsale.RequestTypeReturn, requests[0].Type)

		count, err := repo.Count(ctx, postsale.ReturnFilter{Filter: shared.DefaultFilter(), OrderID: &orderID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
