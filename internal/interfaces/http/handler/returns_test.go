package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	returnapp "github.com/appzetogit/indiankart-sub000/internal/application/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTestReturn(t *testing.T, order *fulfillment.Order, typ postsale.RequestType) *postsale.ReturnRequest {
	t.Helper()
	r, err := postsale.NewReturnRequest(order, order.Items[0].ID, typ, "Screen flickers", "", nil)
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

// advanceTo walks a request through the given statuses
func advanceTo(t *testing.T, r *postsale.ReturnRequest, statuses ...postsale.ReturnStatus) {
	t.Helper()
	for _, s := range statuses {
		require.NoError(t, r.Advance(s, ""))
	}
	r.ClearDomainEvents()
}

func TestReturnHandler_List(t *testing.T) {
	env := setupTestRouter(t)
	order := createTestOrder(t)
	request := createTestReturn(t, order, postsale.RequestTypeReturn)
	env.returnRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f postsale.ReturnFilter) bool {
		return f.Type == postsale.RequestTypeReturn
	})).Return([]postsale.ReturnRequest{*request}, nil)
	env.returnRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	w := env.do(t, http.MethodGet, "/api/v1/returns?type=Return", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ListResponse[returnapp.ReturnResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, request.RequestNumber, resp.Data[0].RequestNumber)
	assert.Equal(t, []string{"Approved", "Rejected"}, resp.Data[0].NextStatuses)
}

func TestReturnHandler_Get(t *testing.T) {
	env := setupTestRouter(t)
	order := createTestOrder(t)
	request := createTestReturn(t, order, postsale.RequestTypeReplacement)
	env.returnRepo.On("FindByRequestNumber", mock.Anything, request.RequestNumber).Return(request, nil)

	w := env.do(t, http.MethodGet, "/api/v1/returns/"+request.RequestNumber, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeData[returnapp.ReturnResponse](t, w)
	assert.Equal(t, "Replacement", resp.Type)
	assert.Equal(t, "Phone X", resp.Product.Name)
	require.Len(t, resp.Timeline, 1)
	assert.Equal(t, "Replacement request initiated", resp.Timeline[0].Note)
}

func TestReturnHandler_Raise(t *testing.T) {
	t.Run("return for an order item", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		env.returnRepo.On("Save", mock.Anything, mock.AnythingOfType("*postsale.ReturnRequest")).Return(nil)

		w := env.do(t, http.MethodPost, "/api/v1/returns", map[string]any{
			"orderId": order.ID.String(),
			"itemId":  order.Items[0].ID,
			"type":    "Return",
			"reason":  "Damaged on arrival",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeData[returnapp.ReturnResponse](t, w)
		assert.Equal(t, "Pending", resp.Status)
		assert.Regexp(t, `^RET-\d+$`, resp.RequestNumber)
		assert.Equal(t, testOrderDisplayID, resp.OrderDisplayID)
	})

	t.Run("cancellation type is not accepted here", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(t, http.MethodPost, "/api/v1/returns", map[string]any{
			"orderId": uuid.NewString(),
			"itemId":  uuid.New(),
			"type":    "Cancellation",
			"reason":  "Changed my mind",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})
}

func TestReturnHandler_RaiseCancellation(t *testing.T) {
	t.Run("confirmed order", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		env.orderRepo.On("FindByDisplayID", mock.Anything, testOrderDisplayID).Return(order, nil)
		env.returnRepo.On("Save", mock.Anything, mock.AnythingOfType("*postsale.ReturnRequest")).Return(nil)

		w := env.do(t, http.MethodPost, "/api/v1/returns/cancellations", map[string]any{
			"orderId": testOrderDisplayID,
			"reason":  "Ordered twice",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeData[returnapp.ReturnResponse](t, w)
		assert.Equal(t, "Cancellation", resp.Type)
		assert.Regexp(t, `^CAN-\d+$`, resp.RequestNumber)
		assert.Equal(t, fulfillment.OrderStatusConfirmed, order.Status)
	})

	t.Run("packed order refuses", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		require.NoError(t, order.Transition(fulfillment.OrderStatusPacked, "", []fulfillment.SerialUpdate{
			{ItemID: order.Items[1].ID, Serial: "SN2"},
		}))
		env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := env.do(t, http.MethodPost, "/api/v1/returns/cancellations", map[string]any{
			"orderId": order.ID.String(),
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, errorCode(t, w))
		env.returnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReturnHandler_UpdateStatus(t *testing.T) {
	t.Run("return reaches refund", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		request := createTestReturn(t, order, postsale.RequestTypeReturn)
		advanceTo(t, request, postsale.ReturnStatusApproved, postsale.ReturnStatusPickupScheduled, postsale.ReturnStatusReceivedAtWarehouse)
		env.returnRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		env.returnRepo.On("Save", mock.Anything, request).Return(nil)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+request.ID.String(), map[string]any{
			"status": "Refund Initiated",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeData[returnapp.ReturnResponse](t, w)
		assert.Equal(t, "Refund Initiated", resp.Status)
		assert.Equal(t, "Status updated to Refund Initiated", resp.Timeline[len(resp.Timeline)-1].Note)
		assert.Equal(t, []string{"Completed"}, resp.NextStatuses)
	})

	t.Run("return cannot dispatch a replacement", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		request := createTestReturn(t, order, postsale.RequestTypeReturn)
		advanceTo(t, request, postsale.ReturnStatusApproved, postsale.ReturnStatusPickupScheduled, postsale.ReturnStatusReceivedAtWarehouse)
		env.returnRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+request.ID.String(), map[string]any{
			"status": "Replacement Dispatched",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidTransition, errorCode(t, w))
		assert.Equal(t, postsale.ReturnStatusReceivedAtWarehouse, request.Status)
		env.returnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("completed request is final", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		request := createTestReturn(t, order, postsale.RequestTypeReplacement)
		advanceTo(t, request,
			postsale.ReturnStatusApproved,
			postsale.ReturnStatusPickupScheduled,
			postsale.ReturnStatusReceivedAtWarehouse,
			postsale.ReturnStatusReplacementDispatched,
			postsale.ReturnStatusCompleted)
		env.returnRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+request.ID.String(), map[string]any{
			"status": "Rejected",
			"note":   "late",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidTransition, errorCode(t, w))
	})

	t.Run("rejection needs a note", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		request := createTestReturn(t, order, postsale.RequestTypeReturn)
		env.returnRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+request.ID.String(), map[string]any{
			"status": "Rejected",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeEmptyRejectionReason, errorCode(t, w))
	})

	t.Run("approved cancellation cancels the order", func(t *testing.T) {
		env := setupTestRouter(t)
		order := createTestOrder(t)
		request, err := postsale.NewCancellationRequest(order, "Ordered twice", "")
		require.NoError(t, err)
		request.ClearDomainEvents()
		env.returnRepo.On("FindByID", mock.Anything, request.ID).Return(request, nil)
		env.returnRepo.On("Save", mock.Anything, request).Return(nil)
		env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		env.orderRepo.On("Save", mock.Anything, order).Return(nil)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+request.ID.String(), map[string]any{
			"status": "Approved",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Approved", decodeData[returnapp.ReturnResponse](t, w).Status)
		assert.Equal(t, fulfillment.OrderStatusCancelled, order.Status)
		assert.Contains(t, order.CancellationReason, "Ordered twice")
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(t, http.MethodPut, "/api/v1/returns/"+uuid.NewString(), map[string]any{
			"status": "Refunded",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, errorCode(t, w))
	})
}

func TestReturnHandler_Export(t *testing.T) {
	env := setupTestRouter(t)
	order := createTestOrder(t)
	request := createTestReturn(t, order, postsale.RequestTypeReturn)
	env.returnRepo.On("FindAll", mock.Anything, mock.Anything).Return([]postsale.ReturnRequest{*request}, nil)

	w := env.do(t, http.MethodGet, "/api/v1/returns/export", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Row-Count"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "returns-")
}
