package models

// Order lifecycle states. Mirrors the gateway-facing subset of the
// merchant platform's order state machine.
const (
	OrderStatePendingPayment = "pending_payment"
	OrderStateProcessing     = "processing"
	OrderStateCanceled       = "canceled"
)

// Order maps to the `orders` table.
type Order struct {
	ID               uint                 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IncrementID      string               `gorm:"column:increment_id;size:50;uniqueIndex" json:"increment_id"`
	QuoteID          uint                 `gorm:"column:quote_id" json:"quote_id"`
	State            string               `gorm:"column:state;size:50" json:"state"`
	Status           string               `gorm:"column:status;size:50" json:"status"`
	BaseCurrencyCode string               `gorm:"column:base_currency_code;size:10" json:"base_currency_code"`
	GrandTotal       string               `gorm:"column:grand_total;size:50" json:"grand_total"`
	CustomerEmail    string               `gorm:"column:customer_email;size:300" json:"customer_email"`
	EmailSent        bool                 `gorm:"column:email_sent" json:"email_sent"`
	CreatedAt        string               `gorm:"column:created_at;size:50" json:"created_at"`
	UpdatedAt        string               `gorm:"column:updated_at;size:50" json:"updated_at"`
	Payment          *OrderPayment        `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
	Items            []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Invoices         []OrderInvoice       `gorm:"foreignKey:OrderID" json:"invoices,omitempty"`
	History          []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"history,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// IsCanceled reports whether the order already reached the canceled state.
func (o *Order) IsCanceled() bool {
	return o.State == OrderStateCanceled
}

// IsInvoiced reports whether the order already carries at least one invoice.
func (o *Order) IsInvoiced() bool {
	return len(o.Invoices) > 0
}

// OrderPayment maps to the `order_payments` table.
type OrderPayment struct {
	ID                    uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID               uint   `gorm:"column:order_id;index" json:"order_id"`
	Method                string `gorm:"column:method;size:100" json:"method"`
	CurrencyCode          string `gorm:"column:currency_code;size:10" json:"currency_code"`
	IsTransactionApproved bool   `gorm:"column:is_transaction_approved" json:"is_transaction_approved"`
	IsTransactionClosed   bool   `gorm:"column:is_transaction_closed" json:"is_transaction_closed"`
	PreparedMessage       string `gorm:"column:prepared_message;size:1000" json:"prepared_message"`
}

func (OrderPayment) TableName() string {
	return "order_payments"
}

// OrderItem maps to the `order_items` table.
type OrderItem struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID    uint   `gorm:"column:order_id;index" json:"order_id"`
	Name       string `gorm:"column:name;size:500" json:"name"`
	QtyOrdered int    `gorm:"column:qty_ordered" json:"qty_ordered"`
	RowTotal   string `gorm:"column:row_total;size:50" json:"row_total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderInvoice maps to the `order_invoices` table.
type OrderInvoice struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID       uint   `gorm:"column:order_id;index" json:"order_id"`
	IncrementID   string `gorm:"column:increment_id;size:50;uniqueIndex" json:"increment_id"`
	TransactionID string `gorm:"column:transaction_id;size:200" json:"transaction_id"`
	Comment       string `gorm:"column:comment;size:1000" json:"comment"`
	Paid          bool   `gorm:"column:paid" json:"paid"`
	CreatedAt     string `gorm:"column:created_at;size:50" json:"created_at"`
}

func (OrderInvoice) TableName() string {
	return "order_invoices"
}

// OrderStatusHistory maps to the `order_status_history` table.
// IsCustomerNotified is a pointer so "not decided" survives round trips,
// matching the platform's tri-state notified flag.
type OrderStatusHistory struct {
	ID                 uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID            uint   `gorm:"column:order_id;index" json:"order_id"`
	Comment            string `gorm:"column:comment;size:1000" json:"comment"`
	Status             string `gorm:"column:status;size:50" json:"status"`
	IsCustomerNotified *bool  `gorm:"column:is_customer_notified" json:"is_customer_notified"`
	CreatedAt          string `gorm:"column:created_at;size:50" json:"created_at"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
