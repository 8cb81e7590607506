package document

import (
	"context"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"go.uber.org/zap"
)

// SettingsService handles the seller settings printed on documents
type SettingsService struct {
	repo   invoice.SettingsRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo invoice.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:   repo,
		now:    time.Now,
		logger: logger,
	}
}

// GetSettings returns the settings as they are printed, defaults filled in
func (s *SettingsService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(settings.WithDefaults())
	return &resp, nil
}

// UpdateSettings merges the non-blank fields of req into the stored settings
func (s *SettingsService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := current.Merge(req.toPatch())
	updated.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}

	s.logger.Info("seller settings updated",
		zap.String("seller_name", updated.SellerName),
		zap.String("gst_number", updated.GSTNumber))

	resp := ToSettingsResponse(updated.WithDefaults())
	return &resp, nil
}

// sellerSettings returns the stored settings for invoice computation
func (s *SettingsService) sellerSettings(ctx context.Context) (invoice.SellerSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return invoice.SellerSettings{}, err
	}
	return *settings, nil
}
