package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bitgate/internal/ipn"
	"bitgate/internal/models"
	"bitgate/internal/notify"
)

// NotificationProcessor is the single entry point exposed by the IPN core.
type NotificationProcessor interface {
	Process(ctx context.Context, raw []byte) (*ipn.Result, error)
}

// IPNLogStore records inbound notification attempts.
type IPNLogStore interface {
	Create(ctx context.Context, entry *models.IPNLog) error
}

// IPNHandler is the boundary layer for gateway notifications. It converts
// classified processing errors into response codes and never leaks
// internal detail to the remote caller.
type IPNHandler struct {
	processor NotificationProcessor
	logs      IPNLogStore
	reporter  *notify.TelegramReporter
	logger    *zap.Logger
}

func NewIPNHandler(processor NotificationProcessor, logs IPNLogStore, reporter *notify.TelegramReporter, logger *zap.Logger) *IPNHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPNHandler{
		processor: processor,
		logs:      logs,
		reporter:  reporter,
		logger:    logger,
	}
}

// Handle processes one inbound IPN POST. Non-POST requests are ignored
// with a 2xx, matching the gateway's expectations.
func (h *IPNHandler) Handle(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.NoContent(http.StatusOK)
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	result, err := h.processor.Process(c.Request().Context(), raw)
	h.record(raw, outcomeLabel(result, err), c.RealIP())

	if err != nil {
		switch {
		case errors.Is(err, ipn.ErrOrderNotFound):
			// Terminal for this request; tell the gateway to retry later.
			h.logger.Warn("ipn order not found", zap.String("ip", c.RealIP()))
			return c.NoContent(http.StatusServiceUnavailable)
		default:
			h.logger.Error("ipn processing failed", zap.Error(err), zap.String("ip", c.RealIP()))
			return c.NoContent(http.StatusInternalServerError)
		}
	}

	switch result.Outcome {
	case ipn.OutcomeCompleted:
		h.reporter.PaymentCompleted(result.Order, result.Notification)
	case ipn.OutcomeCancelled, ipn.OutcomeExpired:
		h.reporter.OrderCancelled(result.Order, result.Notification)
	}

	return c.NoContent(http.StatusOK)
}

// record appends to the ipn_log table without blocking the response.
func (h *IPNHandler) record(raw []byte, outcome, ip string) {
	if h.logs == nil {
		return
	}
	entry := &models.IPNLog{
		ID:        uuid.NewString(),
		RawBody:   string(raw),
		Outcome:   outcome,
		RemoteIP:  ip,
		CreatedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.logs.Create(ctx, entry); err != nil {
			h.logger.Warn("failed to record ipn log", zap.Error(err))
		}
	}()
}

func outcomeLabel(result *ipn.Result, err error) string {
	if err == nil {
		return string(result.Outcome)
	}

	var missing *ipn.MissingFieldError
	switch {
	case errors.As(err, &missing):
		return "missing_field:" + missing.Field
	case errors.Is(err, ipn.ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ipn.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, ipn.ErrMerchantMismatch):
		return "merchant_mismatch"
	case errors.Is(err, ipn.ErrHashMismatch):
		return "hash_mismatch"
	case errors.Is(err, ipn.ErrHashAlgorithmUnavailable):
		return "hash_algorithm_unavailable"
	}
	return "error"
}
