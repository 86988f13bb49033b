package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusComplete = "complete"
	PaymentStatusFailed   = "failed"
)

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

type Order struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	PlacedAt      time.Time     `gorm:"autoCreateTime" json:"placed_at"`
	PaymentStatus string        `gorm:"not null;default:'pending'" json:"payment_status"`
	CustomerID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      Customer      `json:"-"`
	Tickets       []OrderTicket `json:"tickets"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}

// CanTransitionTo reports whether the payment status may move to next.
// Transitions only go forward: pending may become complete or failed,
// complete and failed are terminal.
func (order *Order) CanTransitionTo(next string) bool {
	if order.PaymentStatus == next {
		return true
	}
	return order.PaymentStatus == PaymentStatusPending
}

// TotalPrice sums quantity times the snapshotted unit price over every
// ticket. It is unaffected by later catalog price changes.
func (order *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, ticket := range order.Tickets {
		total = total.Add(ticket.TotalPrice())
	}
	return total
}

type OrderTicket struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	EventID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Event     Event           `json:"event"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (ticket *OrderTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

func (ticket *OrderTicket) TotalPrice() decimal.Decimal {
	return ticket.UnitPrice.Mul(decimal.NewFromInt(int64(ticket.Quantity)))
}
