package notify

import (
	"fmt"

	"go.uber.org/zap"

	"bitgate/internal/ipn"
	"bitgate/internal/models"
	"bitgate/internal/pkg/httpclient"
)

// TelegramReporter posts payment reports to an ops channel through the
// raw Telegram Bot API. Reporting is fire-and-forget; a failed report is
// logged and never fails the request that triggered it.
type TelegramReporter struct {
	client  *httpclient.Client
	channel string
	logger  *zap.Logger
}

// NewTelegramReporter returns nil when the bot token or channel is not
// configured; a nil reporter is safe to call.
func NewTelegramReporter(token, channel string, logger *zap.Logger) *TelegramReporter {
	if token == "" || channel == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramReporter{
		client:  httpclient.New().WithBaseURL("https://api.telegram.org/bot" + token),
		channel: channel,
		logger:  logger,
	}
}

// PaymentCompleted reports a completed Bitcoin payment.
func (r *TelegramReporter) PaymentCompleted(order *models.Order, n *ipn.Notification) {
	if r == nil {
		return
	}
	text := fmt.Sprintf(
		"💵 Payment completed\n\nOrder: #%s\nSale ID: %s\nAmount: %s %s\nBitcoin: %s BTC",
		order.IncrementID, n.SaleID, n.Amount, n.Currency, n.BitcoinAmount,
	)
	r.send(text)
}

// OrderCancelled reports a gateway-sourced cancellation or expiry.
func (r *TelegramReporter) OrderCancelled(order *models.Order, n *ipn.Notification) {
	if r == nil {
		return
	}
	text := fmt.Sprintf(
		"❌ Transaction %s\n\nOrder: #%s\nSale ID: %s",
		n.PaymentStatus(), order.IncrementID, n.SaleID,
	)
	r.send(text)
}

func (r *TelegramReporter) send(text string) {
	params := map[string]interface{}{
		"chat_id":    r.channel,
		"text":       text,
		"parse_mode": "HTML",
	}
	if _, err := r.client.PostJSON("/sendMessage", params); err != nil {
		r.logger.Warn("telegram report failed", zap.Error(err))
	}
}
