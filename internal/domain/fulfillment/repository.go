package fulfillment

import (
	"context"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderFilter narrows order listings
type OrderFilter struct {
	shared.Filter
	Status        OrderStatus
	CustomerEmail string
}

// OrderRepository defines persistence for orders.
// Save is last-write-wins: concurrent editors overwrite each other.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByDisplayID(ctx context.Context, displayID string) (*Order, error)
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	Save(ctx context.Context, order *Order) error
	ExistsByDisplayID(ctx context.Context, displayID string) (bool, error)
}
