package ipn

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Notification types sent by the BitDrive gateway.
const (
	TypeOrderCreated         = "ORDER_CREATED"
	TypePaymentCompleted     = "PAYMENT_COMPLETED"
	TypeTransactionCancelled = "TRANSACTION_CANCELLED"
	TypeTransactionExpired   = "TRANSACTION_EXPIRED"
)

// Notification is the parsed IPN payload. It lives only for the duration
// of one inbound call and is never persisted.
type Notification struct {
	Type            string `json:"notification_type"`
	SaleID          string `json:"sale_id"`
	MerchantInvoice string `json:"merchant_invoice"`
	Amount          string `json:"amount"`
	BitcoinAmount   string `json:"bitcoin_amount"`
	Currency        string `json:"currency"`
	MerchantID      string `json:"merchant_id"`
	Hash            string `json:"hash"`
}

// Parse decodes and validates a raw IPN body. Unknown notification types
// are preserved so the transition engine can acknowledge them as no-ops;
// additional payload fields are ignored.
func Parse(raw []byte) (*Notification, error) {
	// A top-level null unmarshals into a zero struct without error; it is
	// not a notification document.
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ErrInvalidFormat
	}

	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, ErrInvalidFormat
	}

	for _, p := range []struct {
		name  string
		value string
	}{
		{"notification_type", n.Type},
		{"sale_id", n.SaleID},
		{"merchant_invoice", n.MerchantInvoice},
		{"amount", n.Amount},
		{"bitcoin_amount", n.BitcoinAmount},
	} {
		if strings.TrimSpace(p.value) == "" {
			return nil, &MissingFieldError{Field: p.name}
		}
	}

	return &n, nil
}

// PaymentStatus returns the human-readable payment status label derived
// from the notification type. Unknown types yield an empty string.
func (n *Notification) PaymentStatus() string {
	switch n.Type {
	case TypeOrderCreated:
		return "Created"
	case TypePaymentCompleted:
		return "Completed"
	case TypeTransactionCancelled:
		return "Cancelled"
	case TypeTransactionExpired:
		return "Expired"
	}
	return ""
}

// Comment builds the order-history comment for this notification,
// optionally followed by a human-readable explanation.
func (n *Notification) Comment(extra string) string {
	message := "IPN \"" + n.PaymentStatus() + "\"."
	if extra != "" {
		message += " " + extra
	}
	return message
}
