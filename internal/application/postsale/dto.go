package postsale

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RaiseReturnRequest opens a Return or Replacement request for one order item
type RaiseReturnRequest struct {
	OrderID          string    `json:"orderId" binding:"required"`
	ItemID           uuid.UUID `json:"itemId" binding:"required"`
	Type             string    `json:"type" binding:"required,oneof=Return Replacement"`
	Reason           string    `json:"reason" binding:"required,min=1,max=500"`
	Comment          string    `json:"comment" binding:"omitempty,max=1000"`
	Images           []string  `json:"images" binding:"omitempty,max=5,dive,url"`
	ReplacementSize  string    `json:"selectedReplacementSize" binding:"omitempty,max=20"`
	ReplacementColor string    `json:"selectedReplacementColor" binding:"omitempty,max=50"`
}

// comment returns the customer comment with the chosen replacement variant appended
func (r RaiseReturnRequest) comment() string {
	if r.ReplacementSize == "" && r.ReplacementColor == "" {
		return r.Comment
	}
	return strings.TrimSpace(fmt.Sprintf("%s [Replacement: Size %s, Color %s]", r.Comment, r.ReplacementSize, r.ReplacementColor))
}

// RaiseCancellationRequest opens a whole-order cancellation request
type RaiseCancellationRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Reason  string `json:"reason" binding:"omitempty,max=500"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

// UpdateReturnStatusRequest moves a request along its lifecycle
type UpdateReturnStatusRequest struct {
	Status string `json:"status" binding:"required,return_status"`
	Note   string `json:"note" binding:"omitempty,max=500"`
}

// ReturnListFilter represents filter options for the request list
type ReturnListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=Return Replacement Cancellation"`
	Status   string `form:"status" binding:"omitempty,return_status"`
	OrderID  string `form:"order_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductResponse is the product snapshot of a request
type ProductResponse struct {
	Name  string          `json:"name"`
	Image string          `json:"image,omitempty"`
	Price decimal.Decimal `json:"price"`
}

// TimelineEntryResponse represents one status change
type TimelineEntryResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note,omitempty"`
}

// ReturnResponse represents a post-sale request in API responses
type ReturnResponse struct {
	ID             uuid.UUID               `json:"id"`
	RequestNumber  string                  `json:"requestNumber"`
	OrderID        uuid.UUID               `json:"orderId"`
	OrderDisplayID string                  `json:"orderDisplayId"`
	ItemID         *uuid.UUID              `json:"itemId,omitempty"`
	Type           string                  `json:"type"`
	Customer       string                  `json:"customer"`
	Product        ProductResponse         `json:"product"`
	Reason         string                  `json:"reason"`
	Comment        string                  `json:"comment,omitempty"`
	Images         []string                `json:"images"`
	Status         string                  `json:"status"`
	NextStatuses   []string                `json:"nextStatuses"`
	Timeline       []TimelineEntryResponse `json:"timeline"`
	Date           time.Time               `json:"date"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// ToReturnResponse converts a domain ReturnRequest to its response DTO
func ToReturnResponse(r *postsale.ReturnRequest) ReturnResponse {
	timeline := make([]TimelineEntryResponse, len(r.Timeline))
	for i, entry := range r.Timeline {
		timeline[i] = TimelineEntryResponse{Status: string(entry.Status), Time: entry.Time, Note: entry.Note}
	}

	next := r.AllowedNextStatuses()
	nextStatuses := make([]string, len(next))
	for i, s := range next {
		nextStatuses[i] = string(s)
	}

	images := r.Images
	if images == nil {
		images = []string{}
	}

	return ReturnResponse{
		ID:             r.ID,
		RequestNumber:  r.RequestNumber,
		OrderID:        r.OrderID,
		OrderDisplayID: r.OrderDisplayID,
		ItemID:         r.ItemID,
		Type:           string(r.Type),
		Customer:       r.CustomerName,
		Product:        ProductResponse{Name: r.Product.Name, Image: r.Product.Image, Price: r.Product.Price},
		Reason:         r.Reason,
		Comment:        r.Comment,
		Images:         images,
		Status:         string(r.Status),
		NextStatuses:   nextStatuses,
		Timeline:       timeline,
		Date:           r.Date,
		UpdatedAt:      r.UpdatedAt,
	}
}

// ToReturnResponses converts a slice of requests
func ToReturnResponses(requests []postsale.ReturnRequest) []ReturnResponse {
	responses := make([]ReturnResponse, len(requests))
	for i := range requests {
		responses[i] = ToReturnResponse(&requests[i])
	}
	return responses
}
