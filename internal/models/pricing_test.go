package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	assert.NoError(t, err)
	return d
}

func TestCartTotalPrice(t *testing.T) {
	cart := Cart{
		Tickets: []CartTicket{
			{Quantity: 2, Event: Event{UnitPrice: mustDecimal(t, "20.00")}},
			{Quantity: 1, Event: Event{UnitPrice: mustDecimal(t, "15.00")}},
		},
	}
	assert.True(t, mustDecimal(t, "55.00").Equal(cart.TotalPrice()))
}

func TestCartTotalPriceEmpty(t *testing.T) {
	cart := Cart{}
	assert.True(t, decimal.Zero.Equal(cart.TotalPrice()))
}

func TestOrderTotalPriceUsesSnapshot(t *testing.T) {
	order := Order{
		Tickets: []OrderTicket{
			// The snapshot, not the live event price, drives the total.
			{Quantity: 2, UnitPrice: mustDecimal(t, "20.00"), Event: Event{UnitPrice: mustDecimal(t, "99.00")}},
			{Quantity: 1, UnitPrice: mustDecimal(t, "15.00"), Event: Event{UnitPrice: mustDecimal(t, "99.00")}},
		},
	}
	assert.True(t, mustDecimal(t, "55.00").Equal(order.TotalPrice()))
}

func TestPaymentStatusTransitions(t *testing.T) {
	pending := Order{PaymentStatus: PaymentStatusPending}
	assert.True(t, pending.CanTransitionTo(PaymentStatusComplete))
	assert.True(t, pending.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, pending.CanTransitionTo(PaymentStatusPending))

	complete := Order{PaymentStatus: PaymentStatusComplete}
	assert.False(t, complete.CanTransitionTo(PaymentStatusPending))
	assert.False(t, complete.CanTransitionTo(PaymentStatusFailed))
	assert.True(t, complete.CanTransitionTo(PaymentStatusComplete))

	failed := Order{PaymentStatus: PaymentStatusFailed}
	assert.False(t, failed.CanTransitionTo(PaymentStatusPending))
	assert.False(t, failed.CanTransitionTo(PaymentStatusComplete))
}

func TestInventoryStatus(t *testing.T) {
	assert.Equal(t, "Low", (&Event{Inventory: 0}).InventoryStatus())
	assert.Equal(t, "Low", (&Event{Inventory: 9}).InventoryStatus())
	assert.Equal(t, "OK", (&Event{Inventory: 10}).InventoryStatus())
	assert.Equal(t, "OK", (&Event{Inventory: 500}).InventoryStatus())
}

func TestCartExpiresAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cart := Cart{CreatedAt: created}
	assert.Equal(t, created.Add(168*time.Hour), cart.ExpiresAt(168*time.Hour))
}
