package invoice

import (
	"context"
	"strings"
	"time"
)

// Seller defaults printed when a settings field is blank
const (
	DefaultSellerName    = "IndianKart"
	DefaultSellerAddress = "123 E-com St, Digital City"
	DefaultGSTNumber     = "123456789"
	DefaultPANNumber     = "LBCPS9976F"
	DefaultFSSAI         = "N/A"
)

// SellerSettings holds the seller identity printed on labels and invoices.
// There is a single settings record per deployment.
type SellerSettings struct {
	SellerName    string
	SellerAddress string
	GSTNumber     string
	PANNumber     string
	LogoURL       string
	SignatureURL  string
	FSSAI         string
	ContactEmail  string
	ContactPhone  string
	UpdatedAt     time.Time
}

// DefaultSellerSettings returns the settings used before anything is saved
func DefaultSellerSettings() SellerSettings {
	return SellerSettings{}.WithDefaults()
}

// WithDefaults substitutes the default value for every blank field.
// Logo and signature have no default and stay empty.
func (s SellerSettings) WithDefaults() SellerSettings {
	s.SellerName = orDefault(s.SellerName, DefaultSellerName)
	s.SellerAddress = orDefault(s.SellerAddress, DefaultSellerAddress)
	s.GSTNumber = orDefault(s.GSTNumber, DefaultGSTNumber)
	s.PANNumber = orDefault(s.PANNumber, DefaultPANNumber)
	s.FSSAI = orDefault(s.FSSAI, DefaultFSSAI)
	s.LogoURL = strings.TrimSpace(s.LogoURL)
	s.SignatureURL = strings.TrimSpace(s.SignatureURL)
	return s
}

// Merge overwrites the fields that are non-blank in patch, keeping the rest.
// Blank values never clear a stored field.
func (s SellerSettings) Merge(patch SellerSettings) SellerSettings {
	s.SellerName = keep(s.SellerName, patch.SellerName)
	s.SellerAddress = keep(s.SellerAddress, patch.SellerAddress)
	s.GSTNumber = keep(s.GSTNumber, patch.GSTNumber)
	s.PANNumber = keep(s.PANNumber, patch.PANNumber)
	s.LogoURL = keep(s.LogoURL, patch.LogoURL)
	s.SignatureURL = keep(s.SignatureURL, patch.SignatureURL)
	s.FSSAI = keep(s.FSSAI, patch.FSSAI)
	s.ContactEmail = keep(s.ContactEmail, patch.ContactEmail)
	s.ContactPhone = keep(s.ContactPhone, patch.ContactPhone)
	return s
}

func keep(current, next string) string {
	if next = strings.TrimSpace(next); next != "" {
		return next
	}
	return current
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// SettingsRepository persists the seller settings singleton
type SettingsRepository interface {
	// Get returns the stored settings, or an empty record when none were saved yet
	Get(ctx context.Context) (*SellerSettings, error)
	Save(ctx context.Context, settings *SellerSettings) error
}
