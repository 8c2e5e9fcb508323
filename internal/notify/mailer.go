package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bitgate/internal/models"
	"bitgate/internal/pkg/httpclient"
)

// HTTPMailer queues transactional emails through an HTTP mail API. It
// satisfies ipn.Mailer; delivery and retries belong to the mail provider.
type HTTPMailer struct {
	endpoint string
	from     string
	client   *httpclient.Client
	logger   *zap.Logger
}

func NewHTTPMailer(endpoint, apiKey, from string, logger *zap.Logger) *HTTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPMailer{
		endpoint: endpoint,
		from:     from,
		client:   httpclient.New().WithHeader("x-api-key", apiKey),
		logger:   logger,
	}
}

// QueueNewOrderEmail asks the mail API to send the new-order confirmation
// for an invoiced order.
func (m *HTTPMailer) QueueNewOrderEmail(ctx context.Context, order *models.Order, invoiceIncrementID string) error {
	payload := map[string]interface{}{
		"template":   "new_order",
		"from":       m.from,
		"to":         order.CustomerEmail,
		"subject":    fmt.Sprintf("Your order #%s has been paid", order.IncrementID),
		"order_id":   order.IncrementID,
		"invoice_id": invoiceIncrementID,
		"amount":     order.GrandTotal,
		"currency":   order.BaseCurrencyCode,
	}

	if _, err := m.client.PostJSON(m.endpoint, payload); err != nil {
		return fmt.Errorf("queue new order email: %w", err)
	}

	m.logger.Info("queued new order email",
		zap.String("increment_id", order.IncrementID),
		zap.String("invoice_id", invoiceIncrementID))
	return nil
}

// NopMailer is used when no mail endpoint is configured.
type NopMailer struct{}

func (NopMailer) QueueNewOrderEmail(context.Context, *models.Order, string) error {
	return nil
}
