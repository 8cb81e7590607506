package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReturnRequestRepository implements postsale.ReturnRequestRepository using GORM
type GormReturnRequestRepository struct {
	db *gorm.DB
}

// NewGormReturnRequestRepository creates a new GormReturnRequestRepository
func NewGormReturnRequestRepository(db *gorm.DB) *GormReturnRequestRepository {
	return &GormReturnRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormReturnRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*postsale.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRequestNumber finds a request by its RET-/CAN- number
func (r *GormReturnRequestRepository) FindByRequestNumber(ctx context.Context, number string) (*postsale.ReturnRequest, error) {
	var model models.ReturnRequestModel
	if err := r.db.WithContext(ctx).
		Where("request_number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of requests, newest first
func (r *GormReturnRequestRepository) FindAll(ctx context.Context, filter postsale.ReturnFilter) ([]postsale.ReturnRequest, error) {
	var rows []models.ReturnRequestModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}), filter)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	query = query.Order(orderClause(filter.OrderBy, filter.OrderDir, ReturnRequestSortFields, "date"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	requests := make([]postsale.ReturnRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests, nil
}

// Count counts the requests matching the filter
func (r *GormReturnRequestRepository) Count(ctx context.Context, filter postsale.ReturnFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReturnRequestModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a request
func (r *GormReturnRequestRepository) Save(ctx context.Context, request *postsale.ReturnRequest) error {
	model := models.ReturnRequestModelFromDomain(request)
	model.Version = request.Version + 1
	model.UpdatedAt = time.Now()

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save return request %s: %w", request.RequestNumber, err)
	}

	request.Version = model.Version
	request.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *GormReturnRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter postsale.ReturnFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(request_number) LIKE ? OR LOWER(order_display_id) LIKE ? OR LOWER(product_name) LIKE ? OR LOWER(customer_name) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	return query
}
