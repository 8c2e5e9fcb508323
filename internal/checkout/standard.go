package checkout

import (
	"fmt"
	"strings"

	"bitgate/internal/models"
)

// MethodCode identifies the BitDrive Standard Checkout payment method.
const MethodCode = "bitdrive_standardcheckout"

// memoLimit is the gateway's maximum transaction memo length.
const memoLimit = 200

// CanUseForCurrency reports whether the hosted checkout accepts the
// given base currency.
func CanUseForCurrency(currencyCode string) bool {
	switch strings.ToLower(currencyCode) {
	case "usd", "btc":
		return true
	}
	return false
}

// Standard builds the redirect form for the hosted BitDrive pay page.
type Standard struct {
	merchantID  string
	checkoutURL string
	baseURL     string
}

func NewStandard(merchantID, checkoutURL, baseURL string) *Standard {
	return &Standard{
		merchantID:  merchantID,
		checkoutURL: checkoutURL,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// CheckoutURL returns the hosted pay page the form posts to.
func (s *Standard) CheckoutURL() string {
	return s.checkoutURL
}

// FormFields returns the hidden form fields for the hosted checkout.
func (s *Standard) FormFields(order *models.Order) map[string]string {
	return map[string]string{
		"bd-cmd":         "pay",
		"bd-merchant":    s.merchantID,
		"bd-currency":    order.BaseCurrencyCode,
		"bd-amount":      order.GrandTotal,
		"bd-memo":        TransactionMemo(order),
		"bd-invoice":     order.IncrementID,
		"bd-success-url": s.baseURL + "/checkout/success",
		"bd-error-url":   s.baseURL + "/checkout/cancel/" + order.IncrementID,
	}
}

// TransactionMemo builds the memo shown on the gateway. For single-item
// orders the line item is appended as "<qty> x <name>" unless that would
// push the memo past the gateway limit.
func TransactionMemo(order *models.Order) string {
	memo := fmt.Sprintf("Payment for order #%s", order.IncrementID)
	if len(order.Items) != 1 {
		return memo
	}

	item := order.Items[0]
	itemString := item.Name
	if item.QtyOrdered > 0 {
		itemString = fmt.Sprintf("%d x %s", item.QtyOrdered, item.Name)
	}

	withItem := memo + ": " + itemString
	if len(withItem) <= memoLimit {
		return withItem
	}
	return memo
}
