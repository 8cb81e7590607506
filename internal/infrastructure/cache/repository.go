package cache

import (
	"context"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
)

// CachedOrderRepository reads orders by id through an EntityCache.
// Lists, counts and display id lookups go straight to the wrapped repository.
type CachedOrderRepository struct {
	fulfillment.OrderRepository
	cache *EntityCache[models.OrderModel]
}

// NewCachedOrderRepository wraps repo
func NewCachedOrderRepository(repo fulfillment.OrderRepository, cache *EntityCache[models.OrderModel]) *CachedOrderRepository {
	return &CachedOrderRepository{OrderRepository: repo, cache: cache}
}

// FindByID serves from cache, loading and filling it on a miss
func (r *CachedOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	if model, ok := r.cache.Get(ctx, id); ok {
		return model.ToDomain(), nil
	}

	order, err := r.OrderRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, id, models.OrderModelFromDomain(order))
	return order, nil
}

// Save writes through and invalidates the cached entry
func (r *CachedOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	err := r.OrderRepository.Save(ctx, order)
	r.cache.Invalidate(ctx, order.ID)
	return err
}

var _ fulfillment.OrderRepository = (*CachedOrderRepository)(nil)

// CachedReturnRepository reads return requests by id through an EntityCache
type CachedReturnRepository struct {
	postsale.ReturnRequestRepository
	cache *EntityCache[models.ReturnRequestModel]
}

// NewCachedReturnRepository wraps repo
func NewCachedReturnRepository(repo postsale.ReturnRequestRepository, cache *EntityCache[models.ReturnRequestModel]) *CachedReturnRepository {
	return &CachedReturnRepository{ReturnRequestRepository: repo, cache: cache}
}

// FindByID serves from cache, loading and filling it on a miss
func (r *CachedReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*postsale.ReturnRequest, error) {
	if model, ok := r.cache.Get(ctx, id); ok {
		return model.ToDomain(), nil
	}

	request, err := r.ReturnRequestRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, id, models.ReturnRequestModelFromDomain(request))
	return request, nil
}

// Save writes through and invalidates the cached entry
func (r *CachedReturnRepository) Save(ctx context.Context, request *postsale.ReturnRequest) error {
	err := r.ReturnRequestRepository.Save(ctx, request)
	r.cache.Invalidate(ctx, request.ID)
	return err
}

var _ postsale.ReturnRequestRepository = (*CachedReturnRepository)(nil)
