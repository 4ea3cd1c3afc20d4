package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/salespulse/internal/api/v1"
	httperr "github.com/aevon-lab/salespulse/internal/core/errors"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgRecordFailed   = "Failed to record order"
	msgDuplicateOrder = "Order already recorded"
	msgTenantMismatch = "tenantId in body does not match path"
	msgOrderTooLarge  = "Order touches more documents than one batch allows"
)

// ingestionError carries the structured HTTP error shape from a helper back to the orchestrator.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// RecordOrderHandler handles POST /v1/tenants/:tenant_id/orders.
func (s *Service) RecordOrderHandler(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	order, payloadSize, err := s.parseOrder(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := validateOrder(tenantID, order); err != nil {
		writeError(c, err)
		return
	}

	slog.Info("[Ingestion] Received order",
		"tenant_id", tenantID,
		"order_id", order.OrderID,
		"items", len(order.Items),
		"bundles", len(order.BundleIDs),
		"payload_size", payloadSize)

	result, recordErr := s.recorder.RecordSale(c.Request.Context(), tenantID, *order)
	if recordErr != nil {
		writeError(c, classifyRecordError(tenantID, order.OrderID, recordErr))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "accepted",
		"result": result,
	})
}

// parseOrder reads the raw request body and binds it into an Order.
// Returns the parsed order and the raw payload size (used for structured logging upstream).
func (s *Service) parseOrder(c *gin.Context) (*v1.Order, int, *ingestionError) {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Ingestion] Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Ingestion] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var order v1.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		slog.Warn("[Ingestion] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &order, len(bodyBytes), nil
}

// validateOrder fills the tenant from the path when the body omits it.
func validateOrder(tenantID string, order *v1.Order) *ingestionError {
	if order.TenantID == "" {
		order.TenantID = tenantID
	}
	if order.TenantID != tenantID {
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    msgTenantMismatch,
			details:    map[string]interface{}{"path": tenantID, "body": order.TenantID},
		}
	}

	if err := order.Validate(); err != nil {
		slog.Warn("[Ingestion] Order validation failed", "error", err, "order_id", order.OrderID)
		return &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpValidationError,
			message:    err.Error(),
		}
	}
	return nil
}

func classifyRecordError(tenantID, orderID string, err error) *ingestionError {
	switch {
	case errors.Is(err, storage.ErrDuplicate):
		return &ingestionError{
			statusCode: http.StatusConflict,
			errorType:  httperr.HttpDuplicateOrderError,
			message:    msgDuplicateOrder,
		}
	case errors.Is(err, storage.ErrBatchTooLarge):
		return &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpBatchTooLargeError,
			message:    msgOrderTooLarge,
		}
	}

	slog.Error("[Ingestion] Failed to record order", "error", err, "tenant_id", tenantID, "order_id", orderID)
	return &ingestionError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgRecordFailed,
	}
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
