package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements fulfillment.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDisplayID finds an order by its human-readable id (ORD-XXXXXX)
func (r *GormOrderRepository) FindByDisplayID(ctx context.Context, displayID string) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("display_id = ?", strings.ToUpper(strings.TrimSpace(displayID))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter fulfillment.OrderFilter) ([]fulfillment.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).
		Preload("Items", preloadItems)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]fulfillment.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts the orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter fulfillment.OrderFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByDisplayID checks whether a display id is already taken
func (r *GormOrderRepository) ExistsByDisplayID(ctx context.Context, displayID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("display_id = ?", strings.ToUpper(strings.TrimSpace(displayID))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an order and its items.
// The version is bumped on every save but never compared.
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	model := models.OrderModelFromDomain(order)
	model.Version = order.Version + 1
	model.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		// Delete items no longer on the order
		itemIDs := make([]uuid.UUID, len(model.Items))
		for i, item := range model.Items {
			itemIDs[i] = item.ID
		}
		deleteQuery := tx.Where("order_id = ?", model.ID)
		if len(itemIDs) > 0 {
			deleteQuery = deleteQuery.Where("id NOT IN ?", itemIDs)
		}
		if err := deleteQuery.Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.DisplayID, err)
	}

	order.Version = model.Version
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// applyFilter applies filter options with pagination and ordering
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter fulfillment.OrderFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	return query.Order(orderClause(filter.OrderBy, filter.OrderDir, OrderSortFields, "created_at"))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter fulfillment.OrderFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.CustomerEmail != "" {
		query = query.Where("LOWER(customer_email) = ?", strings.ToLower(filter.CustomerEmail))
	}
	if filter.Search != "" {
		// LOWER + LIKE works on both postgres and sqlite
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(display_id) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date <= ?", t)
			}
		}
	}

	return query
}
