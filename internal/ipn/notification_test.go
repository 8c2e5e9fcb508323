package ipn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() string {
	return `{
		"notification_type": "PAYMENT_COMPLETED",
		"sale_id": "S1",
		"merchant_invoice": "100000123",
		"amount": "10.00",
		"bitcoin_amount": "0.001",
		"currency": "USD",
		"merchant_id": "M1",
		"hash": "ABC"
	}`
}

func TestParseValidPayload(t *testing.T) {
	n, err := Parse([]byte(validPayload()))
	require.NoError(t, err)

	assert.Equal(t, TypePaymentCompleted, n.Type)
	assert.Equal(t, "S1", n.SaleID)
	assert.Equal(t, "100000123", n.MerchantInvoice)
	assert.Equal(t, "10.00", n.Amount)
	assert.Equal(t, "0.001", n.BitcoinAmount)
	assert.Equal(t, "USD", n.Currency)
	assert.Equal(t, "M1", n.MerchantID)
	assert.Equal(t, "ABC", n.Hash)
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json at all"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Parse(nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseNullDocumentIsInvalidFormat(t *testing.T) {
	_, err := Parse([]byte("null"))
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Parse([]byte("  null\n"))
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseMissingRequiredFields(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"notification_type", `{"sale_id":"S1","merchant_invoice":"1","amount":"1","bitcoin_amount":"1"}`},
		{"sale_id", `{"notification_type":"ORDER_CREATED","merchant_invoice":"1","amount":"1","bitcoin_amount":"1"}`},
		{"merchant_invoice", `{"notification_type":"ORDER_CREATED","sale_id":"S1","amount":"1","bitcoin_amount":"1"}`},
		{"amount", `{"notification_type":"ORDER_CREATED","sale_id":"S1","merchant_invoice":"1","bitcoin_amount":"1"}`},
		{"bitcoin_amount", `{"notification_type":"ORDER_CREATED","sale_id":"S1","merchant_invoice":"1","amount":"1"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.payload))
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.name, missing.Field)
		})
	}
}

func TestParseBlankFieldAfterTrimIsMissing(t *testing.T) {
	payload := `{
		"notification_type": "ORDER_CREATED",
		"sale_id": "   ",
		"merchant_invoice": "1",
		"amount": "1",
		"bitcoin_amount": "1"
	}`
	_, err := Parse([]byte(payload))
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "sale_id", missing.Field)
}

func TestParsePreservesUnknownType(t *testing.T) {
	payload := `{
		"notification_type": "SOMETHING_NEW",
		"sale_id": "S1",
		"merchant_invoice": "1",
		"amount": "1",
		"bitcoin_amount": "1"
	}`
	n, err := Parse([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "SOMETHING_NEW", n.Type)
}

func TestParseIgnoresExtraFields(t *testing.T) {
	payload := `{
		"notification_type": "ORDER_CREATED",
		"sale_id": "S1",
		"merchant_invoice": "1",
		"amount": "1",
		"bitcoin_amount": "1",
		"something_extra": "ignored",
		"another": 42
	}`
	_, err := Parse([]byte(payload))
	assert.NoError(t, err)
}

func TestPaymentStatusLabels(t *testing.T) {
	cases := map[string]string{
		TypeOrderCreated:         "Created",
		TypePaymentCompleted:     "Completed",
		TypeTransactionCancelled: "Cancelled",
		TypeTransactionExpired:   "Expired",
		"UNKNOWN_TYPE":           "",
	}
	for typ, want := range cases {
		n := &Notification{Type: typ}
		assert.Equal(t, want, n.PaymentStatus(), "type %s", typ)
	}
}

func TestComment(t *testing.T) {
	n := &Notification{Type: TypePaymentCompleted}
	assert.Equal(t, `IPN "Completed".`, n.Comment(""))
	assert.Equal(t, `IPN "Completed". Extra detail.`, n.Comment("Extra detail."))

	unknown := &Notification{Type: "X"}
	assert.Equal(t, `IPN "".`, unknown.Comment(""))
}
