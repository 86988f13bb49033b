package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;unique" json:"user_id"`
	User      User      `json:"-"`
	Orders    []Order   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return
}
