package handler

import (
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bitgate/internal/checkout"
	"bitgate/internal/ipn"
	"bitgate/internal/models"
)

// CheckoutHandler serves the redirect, success and cancel legs of the
// hosted BitDrive Standard Checkout flow.
type CheckoutHandler struct {
	orders   ipn.OrderStore
	standard *checkout.Standard
	logger   *zap.Logger
}

func NewCheckoutHandler(orders ipn.OrderStore, standard *checkout.Standard, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		orders:   orders,
		standard: standard,
		logger:   logger,
	}
}

var redirectTmpl = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Redirecting to BitDrive</title>
</head>
<body onload="document.forms['bitdrive_checkout'].submit();">
    <p>You are being redirected to BitDrive to complete your payment...</p>
    <form name="bitdrive_checkout" action="{{.Action}}" method="POST">
        {{range $name, $value := .Fields}}<input type="hidden" name="{{$name}}" value="{{$value}}">
        {{end}}<noscript><button type="submit">Continue to BitDrive</button></noscript>
    </form>
</body>
</html>`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: sans-serif; background: #f2f2f2; margin: 0; padding: 20px; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
        .box { background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 40px; text-align: center; max-width: 400px; width: 100%; }
        h1 { color: #333; margin-bottom: 20px; }
        p { color: #666; margin-bottom: 10px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>{{.Title}}</h1>
        {{if .OrderID}}<p>Order: <span>#{{.OrderID}}</span></p>{{end}}
        <p>{{.Message}}</p>
    </div>
</body>
</html>`))

// Redirect renders the auto-submitting form that sends the customer to
// the hosted pay page.
func (h *CheckoutHandler) Redirect(c echo.Context) error {
	incrementID := c.Param("increment_id")
	order, err := h.orders.FindByIncrementID(c.Request().Context(), incrementID)
	if err != nil {
		return h.renderResult(c, http.StatusNotFound, "Order not found", "", "The requested order does not exist.")
	}

	if !checkout.CanUseForCurrency(order.BaseCurrencyCode) {
		return h.renderResult(c, http.StatusBadRequest, "Unsupported currency", order.IncrementID,
			"BitDrive Standard Checkout accepts USD and BTC orders only.")
	}

	data := map[string]interface{}{
		"Action": h.standard.CheckoutURL(),
		"Fields": h.standard.FormFields(order),
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return redirectTmpl.Execute(c.Response().Writer, data)
}

// Success acknowledges the customer's return from the gateway. The order
// stays pending until the IPN validates the payment.
func (h *CheckoutHandler) Success(c echo.Context) error {
	return h.renderResult(c, http.StatusOK, "Thank you", "",
		"Your payment is being confirmed on the Bitcoin network. You will receive an email once the order is processed.")
}

// Cancel cancels the pending order when the customer abandons the
// payment on the gateway. Already-cancelled orders are left untouched.
func (h *CheckoutHandler) Cancel(c echo.Context) error {
	incrementID := c.Param("increment_id")
	order, err := h.orders.FindByIncrementID(c.Request().Context(), incrementID)
	if err != nil {
		return h.renderResult(c, http.StatusNotFound, "Order not found", "", "The requested order does not exist.")
	}

	if !order.IsCanceled() {
		now := time.Now().Format(time.DateTime)
		notified := false
		order.History = append(order.History, models.OrderStatusHistory{
			OrderID:            order.ID,
			Comment:            "Customer cancelled the payment on BitDrive.",
			Status:             models.OrderStateCanceled,
			IsCustomerNotified: &notified,
			CreatedAt:          now,
		})
		order.State = models.OrderStateCanceled
		order.Status = models.OrderStateCanceled
		order.UpdatedAt = now

		if err := h.orders.Save(c.Request().Context(), order); err != nil {
			h.logger.Error("failed to cancel order", zap.String("increment_id", incrementID), zap.Error(err))
			return h.renderResult(c, http.StatusInternalServerError, "Error", order.IncrementID,
				"The order could not be cancelled. Please contact support.")
		}
	}

	return h.renderResult(c, http.StatusOK, "Payment cancelled", order.IncrementID,
		"Your order has been cancelled. No payment was taken.")
}

func (h *CheckoutHandler) renderResult(c echo.Context, status int, title, orderID, message string) error {
	data := map[string]interface{}{
		"Title":   title,
		"OrderID": orderID,
		"Message": message,
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return resultTmpl.Execute(c.Response().Writer, data)
}
