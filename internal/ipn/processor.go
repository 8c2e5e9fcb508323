package ipn

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bitgate/internal/models"
)

// OrderStore is the persistence capability the transition engine needs.
// Implementations return ErrOrderNotFound when no order matches.
type OrderStore interface {
	FindByIncrementID(ctx context.Context, incrementID string) (*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	// SaveWithInvoice commits the order and its new invoice in a single
	// all-or-nothing transaction.
	SaveWithInvoice(ctx context.Context, order *models.Order, invoice *models.OrderInvoice) error
}

// ConfigSource reads store-scoped configuration values. Unset paths
// resolve to an empty string.
type ConfigSource interface {
	GetValue(ctx context.Context, path string) (string, error)
}

// Mailer queues customer notification emails. Dispatch and failure
// handling belong to the mail collaborator, not to this engine.
type Mailer interface {
	QueueNewOrderEmail(ctx context.Context, order *models.Order, invoiceIncrementID string) error
}

// Outcome classifies what one notification did to the order.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeExpired   Outcome = "expired"
	// OutcomeNoop means a precondition short-circuited the transition,
	// e.g. the order was already cancelled or already invoiced.
	OutcomeNoop Outcome = "noop"
	// OutcomeIgnored means the notification type is not recognised and
	// the request was acknowledged without touching the order.
	OutcomeIgnored Outcome = "ignored"
)

// Result is the terminal outcome of processing one notification.
type Result struct {
	Outcome      Outcome
	Notification *Notification
	Order        *models.Order
	Invoice      *models.OrderInvoice
}

// Processor is the IPN verification and order-state-transition engine.
// It applies at most one transition per call and never retries internally.
type Processor struct {
	orders OrderStore
	config ConfigSource
	mailer Mailer
	logger *zap.Logger
}

func NewProcessor(orders OrderStore, config ConfigSource, mailer Mailer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		orders: orders,
		config: config,
		mailer: mailer,
		logger: logger,
	}
}

// Process parses, authenticates and applies one inbound notification.
// Errors are the classified failures from errors.go; diagnostics for the
// attempt are flushed exactly once whatever the outcome.
func (p *Processor) Process(ctx context.Context, raw []byte) (result *Result, err error) {
	debug, _ := p.config.GetValue(ctx, models.ConfigPathDebug)
	diag := NewDiagnosticsFromConfig(p.logger, debug)
	diag.Record("ipn", string(raw))
	defer func() {
		if err != nil {
			diag.Record("exception", err.Error())
		}
		diag.Flush()
	}()

	if err := CheckHashAlgorithm(); err != nil {
		return nil, err
	}

	n, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	diag.Record("notification_type", n.Type)
	diag.Record("sale_id", n.SaleID)
	diag.Record("merchant_invoice", n.MerchantInvoice)

	merchantID, err := p.config.GetValue(ctx, models.ConfigPathMerchantID)
	if err != nil {
		return nil, fmt.Errorf("load merchant id: %w", err)
	}
	ipnSecret, err := p.config.GetValue(ctx, models.ConfigPathIPNSecret)
	if err != nil {
		return nil, fmt.Errorf("load ipn secret: %w", err)
	}

	order, err := p.orders.FindByIncrementID(ctx, n.MerchantInvoice)
	if err != nil {
		return nil, err
	}

	if err := Verify(n, Credentials{MerchantID: merchantID, IPNSecret: ipnSecret}); err != nil {
		return nil, err
	}

	switch n.Type {
	case TypeOrderCreated:
		// Reserved by the gateway protocol for future use.
		result = &Result{Outcome: OutcomeCreated, Notification: n, Order: order}
	case TypePaymentCompleted:
		result, err = p.registerPaymentCompleted(ctx, n, order)
	case TypeTransactionCancelled:
		result, err = p.registerCancellation(ctx, n, order, OutcomeCancelled)
	case TypeTransactionExpired:
		// Expiry and cancellation are treated identically.
		result, err = p.registerCancellation(ctx, n, order, OutcomeExpired)
	default:
		result = &Result{Outcome: OutcomeIgnored, Notification: n, Order: order}
	}
	if err != nil {
		return nil, err
	}

	diag.Record("outcome", string(result.Outcome))
	return result, nil
}

// registerPaymentCompleted marks the payment approved, invoices the order
// in one transaction and queues the customer email if not yet sent.
func (p *Processor) registerPaymentCompleted(ctx context.Context, n *Notification, order *models.Order) (*Result, error) {
	if order.IsInvoiced() {
		// Duplicate delivery; the order already carries its invoice.
		return &Result{Outcome: OutcomeNoop, Notification: n, Order: order}, nil
	}

	now := time.Now().Format(time.DateTime)

	if order.Payment == nil {
		order.Payment = &models.OrderPayment{OrderID: order.ID, Method: "bitdrive_standard"}
	}
	order.Payment.CurrencyCode = n.Currency
	order.Payment.IsTransactionApproved = true
	order.Payment.IsTransactionClosed = true
	order.Payment.PreparedMessage = n.Comment("")

	order.History = append(order.History, models.OrderStatusHistory{
		OrderID:   order.ID,
		Comment:   n.Comment(""),
		Status:    models.OrderStateProcessing,
		CreatedAt: now,
	})
	order.State = models.OrderStateProcessing
	order.Status = models.OrderStateProcessing
	order.UpdatedAt = now

	invoice := &models.OrderInvoice{
		OrderID:       order.ID,
		IncrementID:   fmt.Sprintf("INV-%d-%s", time.Now().Unix(), order.IncrementID),
		TransactionID: n.SaleID,
		Comment:       fmt.Sprintf("Invoice created for order #%s", order.IncrementID),
		Paid:          true,
		CreatedAt:     now,
	}

	if err := p.orders.SaveWithInvoice(ctx, order, invoice); err != nil {
		return nil, fmt.Errorf("register invoice: %w", err)
	}
	order.Invoices = append(order.Invoices, *invoice)

	if !order.EmailSent {
		if err := p.mailer.QueueNewOrderEmail(ctx, order, invoice.IncrementID); err != nil {
			// Fire and forget; the next delivery retries the email.
			p.logger.Warn("failed to queue new order email",
				zap.String("increment_id", order.IncrementID), zap.Error(err))
		} else {
			notified := true
			order.History = append(order.History, models.OrderStatusHistory{
				OrderID:            order.ID,
				Comment:            fmt.Sprintf("Notified customer about invoice #%s.", invoice.IncrementID),
				Status:             order.Status,
				IsCustomerNotified: &notified,
				CreatedAt:          now,
			})
			order.EmailSent = true
			if err := p.orders.Save(ctx, order); err != nil {
				return nil, fmt.Errorf("record email sent: %w", err)
			}
		}
	}

	return &Result{Outcome: OutcomeCompleted, Notification: n, Order: order, Invoice: invoice}, nil
}

// registerCancellation cancels the order unless it already is cancelled.
// The customer is not notified for gateway-sourced cancellations.
func (p *Processor) registerCancellation(ctx context.Context, n *Notification, order *models.Order, outcome Outcome) (*Result, error) {
	if order.IsCanceled() {
		return &Result{Outcome: OutcomeNoop, Notification: n, Order: order}, nil
	}

	now := time.Now().Format(time.DateTime)
	notified := false
	order.History = append(order.History, models.OrderStatusHistory{
		OrderID:            order.ID,
		Comment:            n.Comment(""),
		Status:             models.OrderStateCanceled,
		IsCustomerNotified: &notified,
		CreatedAt:          now,
	})
	order.State = models.OrderStateCanceled
	order.Status = models.OrderStateCanceled
	order.UpdatedAt = now

	if err := p.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	return &Result{Outcome: outcome, Notification: n, Order: order}, nil
}

// NewDiagnosticsFromConfig interprets the store debug flag the way the
// merchant platform stores booleans ("1"/"true").
func NewDiagnosticsFromConfig(logger *zap.Logger, debugValue string) *Diagnostics {
	enabled := debugValue == "1" || debugValue == "true"
	return NewDiagnostics(logger, enabled)
}
