package postsale

import (
	"context"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// ReturnFilter narrows request listings. Results are newest first.
type ReturnFilter struct {
	shared.Filter
	Type    RequestType
	Status  ReturnStatus
	OrderID *uuid.UUID
}

// ReturnRequestRepository defines persistence for post-sale requests
type ReturnRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnRequest, error)
	FindByRequestNumber(ctx context.Context, number string) (*ReturnRequest, error)
	FindAll(ctx context.Context, filter ReturnFilter) ([]ReturnRequest, error)
	Count(ctx context.Context, filter ReturnFilter) (int64, error)
	Save(ctx context.Context, request *ReturnRequest) error
}
