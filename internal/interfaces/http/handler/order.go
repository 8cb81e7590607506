package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/application/document"
	orderapp "github.com/appzetogit/indiankart-sub000/internal/application/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order fulfillment endpoints together with the
// documents (invoice, label, export) derived from orders
type OrderHandler struct {
	BaseHandler
	orders    *orderapp.OrderService
	documents *document.DocumentService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.OrderService, documents *document.DocumentService) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		documents: documents,
	}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search         query string false "Display id, customer name or email"
// @Param        status         query string false "Order status"
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size"
// @Success      200 {object} ListResponse[fulfillment.OrderListItemResponse]
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = dto.DefaultPageSize
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Create godoc
// @ID           createOrder
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body fulfillment.CreateOrderRequest true "Order"
// @Success      201 {object} APIResponse[fulfillment.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order by id or display id
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order id or display id"
// @Success      200 {object} APIResponse[fulfillment.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Move an order to a new status
// @Description  Moving to Packed requires every item to carry a serial, supplied here or earlier
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                             true "Order id or display id"
// @Param        request body fulfillment.UpdateStatusRequest    true "Status change"
// @Success      200 {object} APIResponse[fulfillment.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateSerials godoc
// @ID           updateOrderSerials
// @Summary      Record serial numbers without changing status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                           true "Order id or display id"
// @Param        request body fulfillment.UpdateSerialsRequest true "Serials"
// @Success      200 {object} APIResponse[fulfillment.OrderResponse]
// @Router       /orders/{id}/serials [put]
func (h *OrderHandler) UpdateSerials(c *gin.Context) {
	var req orderapp.UpdateSerialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orders.UpdateSerials(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Order id or display id"
// @Param        request body fulfillment.CancelOrderRequest true "Reason"
// @Success      200 {object} APIResponse[fulfillment.OrderResponse]
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Invoice godoc
// @ID           getOrderInvoice
// @Summary      Compute the tax invoice of an order
// @Tags         orders
// @Produce      json
// @Param        id    path  string true  "Order id or display id"
// @Param        items query string false "Comma separated item ids to invoice"
// @Success      200 {object} APIResponse[document.InvoiceResponse]
// @Router       /orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	inv, err := h.documents.ComputeInvoice(c.Request.Context(), c.Param("id"), splitList(c.Query("items")))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// Document godoc
// @ID           renderOrderDocument
// @Summary      Render the shipping label and tax invoice of an order
// @Tags         orders
// @Produce      text/html,application/pdf
// @Param        id     path  string true  "Order id or display id"
// @Param        format query string false "html (default) or pdf"
// @Success      200
// @Failure      501 {object} ErrorResponse
// @Router       /orders/{id}/document [get]
func (h *OrderHandler) Document(c *gin.Context) {
	doc, err := h.documents.RenderOrder(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writeDocument(c, doc)
}

// BulkDocuments godoc
// @ID           renderBulkDocuments
// @Summary      Render several orders into one document, one page per order
// @Tags         orders
// @Accept       json
// @Produce      text/html,application/pdf
// @Param        request body document.RenderBulkRequest true "Orders"
// @Success      200
// @Router       /orders/documents [post]
func (h *OrderHandler) BulkDocuments(c *gin.Context) {
	var req document.RenderBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documents.RenderBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writeDocument(c, doc)
}

// Export godoc
// @ID           exportOrders
// @Summary      Export orders to XLSX
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	file, err := h.documents.ExportOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	writeExport(c, file)
}

// writeDocument streams a rendered document. HTML is shown inline, PDF is downloaded.
func writeDocument(c *gin.Context, doc *printing.RenderedDocument) {
	disposition := "inline"
	if doc.Format == printing.OutputFormatPDF {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.FileName))
	c.Header("X-Page-Count", strconv.Itoa(doc.PageCount))
	if doc.URL != "" {
		c.Header("X-Document-URL", doc.URL)
	}
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func writeExport(c *gin.Context, file *document.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Header("X-Row-Count", strconv.Itoa(file.Rows))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// splitList splits a comma separated query value, dropping blanks
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
