package models

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestTimelineEntry is the stored form of one request status change
type RequestTimelineEntry struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note,omitempty"`
}

// ReturnRequestModel is the persistence model for the ReturnRequest aggregate root.
type ReturnRequestModel struct {
	AggregateModel
	RequestNumber  string                 `gorm:"type:varchar(40);not null;uniqueIndex"`
	OrderID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderDisplayID string                 `gorm:"type:varchar(32);not null;index"`
	ItemID         *uuid.UUID             `gorm:"type:uuid"`
	Type           string                 `gorm:"type:varchar(20);not null;index"`
	ProductName    string                 `gorm:"type:varchar(300);not null"`
	ProductImage   string                 `gorm:"type:varchar(1000)"`
	ProductPrice   decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Reason         string                 `gorm:"type:varchar(500);not null"`
	Comment        string                 `gorm:"type:text"`
	Images         []string               `gorm:"type:jsonb;serializer:json"`
	CustomerName   string                 `gorm:"type:varchar(200)"`
	Status         string                 `gorm:"type:varchar(30);not null;default:'Pending';index"`
	Timeline       []RequestTimelineEntry `gorm:"type:jsonb;serializer:json"`
	Date           time.Time              `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReturnRequestModel) TableName() string {
	return "return_requests"
}

// ToDomain converts the persistence model to a domain ReturnRequest.
func (m *ReturnRequestModel) ToDomain() *postsale.ReturnRequest {
	r := &postsale.ReturnRequest{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RequestNumber:     m.RequestNumber,
		OrderID:           m.OrderID,
		OrderDisplayID:    m.OrderDisplayID,
		ItemID:            m.ItemID,
		Type:              postsale.RequestType(m.Type),
		Product: postsale.ProductSnapshot{
			Name:  m.ProductName,
			Image: m.ProductImage,
			Price: m.ProductPrice,
		},
		Reason:       m.Reason,
		Comment:      m.Comment,
		Images:       append([]string(nil), m.Images...),
		CustomerName: m.CustomerName,
		Status:       postsale.ReturnStatus(m.Status),
		Timeline:     make([]postsale.TimelineEntry, len(m.Timeline)),
		Date:         m.Date,
	}
	for i, e := range m.Timeline {
		r.Timeline[i] = postsale.TimelineEntry{
			Status: postsale.ReturnStatus(e.Status),
			Time:   e.Time,
			Note:   e.Note,
		}
	}
	return r
}

// FromDomain populates the persistence model from a domain ReturnRequest.
func (m *ReturnRequestModel) FromDomain(r *postsale.ReturnRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.RequestNumber = r.RequestNumber
	m.OrderID = r.OrderID
	m.OrderDisplayID = r.OrderDisplayID
	m.ItemID = r.ItemID
	m.Type = string(r.Type)
	m.ProductName = r.Product.Name
	m.ProductImage = r.Product.Image
	m.ProductPrice = r.Product.Price
	m.Reason = r.Reason
	m.Comment = r.Comment
	m.Images = append([]string(nil), r.Images...)
	m.CustomerName = r.CustomerName
	m.Status = string(r.Status)
	m.Date = r.Date
	m.Timeline = make([]RequestTimelineEntry, len(r.Timeline))
	for i, e := range r.Timeline {
		m.Timeline[i] = RequestTimelineEntry{Status: string(e.Status), Time: e.Time, Note: e.Note}
	}
}

// ReturnRequestModelFromDomain creates a new persistence model from a domain ReturnRequest.
func ReturnRequestModelFromDomain(r *postsale.ReturnRequest) *ReturnRequestModel {
	m := &ReturnRequestModel{}
	m.FromDomain(r)
	return m
}
