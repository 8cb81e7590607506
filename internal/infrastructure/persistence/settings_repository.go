package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements invoice.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or an empty record when none were saved yet
func (r *GormSettingsRepository) Get(ctx context.Context) (*invoice.SellerSettings, error) {
	var model models.SellerSettingsModel
	if err := r.db.WithContext(ctx).
		First(&model, "key = ?", models.SellerSettingsKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &invoice.SellerSettings{}, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save replaces the stored settings
func (r *GormSettingsRepository) Save(ctx context.Context, settings *invoice.SellerSettings) error {
	model := models.SellerSettingsModelFromDomain(settings)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(model).Error; err != nil {
		return fmt.Errorf("failed to save seller settings: %w", err)
	}
	return nil
}
