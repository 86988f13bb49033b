package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Cart struct {
	ID        uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Tickets   []CartTicket `gorm:"constraint:OnDelete:CASCADE" json:"tickets"`
	CreatedAt time.Time    `json:"created_at"`
}

func (cart *Cart) BeforeCreate(tx *gorm.DB) (err error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	return
}

// TotalPrice sums quantity times the live event price over every ticket.
// Tickets must be loaded with their events.
func (cart *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, ticket := range cart.Tickets {
		total = total.Add(ticket.TotalPrice())
	}
	return total
}

func (cart *Cart) ExpiresAt(ttl time.Duration) time.Time {
	return cart.CreatedAt.Add(ttl)
}

type CartTicket struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_event" json:"cart_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_event" json:"event_id"`
	Event     Event     `gorm:"constraint:OnDelete:CASCADE" json:"event"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ticket *CartTicket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}

// TotalPrice is quantity times the live event price, so it tracks catalog
// price changes while the ticket sits in the cart.
func (ticket *CartTicket) TotalPrice() decimal.Decimal {
	return ticket.Event.UnitPrice.Mul(decimal.NewFromInt(int64(ticket.Quantity)))
}
