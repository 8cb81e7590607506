package models

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
)

// SellerSettingsKey is the primary key of the single settings row
const SellerSettingsKey = "default"

// SellerSettingsModel is the persistence model for the seller settings singleton.
type SellerSettingsModel struct {
	Key           string `gorm:"type:varchar(20);primary_key"`
	SellerName    string `gorm:"type:varchar(200)"`
	SellerAddress string `gorm:"type:varchar(500)"`
	GSTNumber     string `gorm:"type:varchar(20)"`
	PANNumber     string `gorm:"type:varchar(20)"`
	LogoURL       string `gorm:"type:varchar(1000)"`
	SignatureURL  string `gorm:"type:varchar(1000)"`
	FSSAI         string `gorm:"type:varchar(30)"`
	ContactEmail  string `gorm:"type:varchar(200)"`
	ContactPhone  string `gorm:"type:varchar(20)"`
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (SellerSettingsModel) TableName() string {
	return "seller_settings"
}

// ToDomain converts the persistence model to domain settings
func (m *SellerSettingsModel) ToDomain() *invoice.SellerSettings {
	return &invoice.SellerSettings{
		SellerName:    m.SellerName,
		SellerAddress: m.SellerAddress,
		GSTNumber:     m.GSTNumber,
		PANNumber:     m.PANNumber,
		LogoURL:       m.LogoURL,
		SignatureURL:  m.SignatureURL,
		FSSAI:         m.FSSAI,
		ContactEmail:  m.ContactEmail,
		ContactPhone:  m.ContactPhone,
		UpdatedAt:     m.UpdatedAt,
	}
}

// SellerSettingsModelFromDomain creates the singleton row from domain settings
func SellerSettingsModelFromDomain(s *invoice.SellerSettings) *SellerSettingsModel {
	return &SellerSettingsModel{
		Key:           SellerSettingsKey,
		SellerName:    s.SellerName,
		SellerAddress: s.SellerAddress,
		GSTNumber:     s.GSTNumber,
		PANNumber:     s.PANNumber,
		LogoURL:       s.LogoURL,
		SignatureURL:  s.SignatureURL,
		FSSAI:         s.FSSAI,
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
		UpdatedAt:     s.UpdatedAt,
	}
}
