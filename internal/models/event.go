package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowInventoryThreshold is the stock count below which an event is
// reported as "Low" in the admin inventory report.
const LowInventoryThreshold = 10

type Event struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Slug        string          `gorm:"not null" json:"slug"`
	Description string          `gorm:"not null" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"unit_price"`
	Inventory   int             `gorm:"not null" json:"inventory"`
	City        string          `gorm:"not null" json:"city"`
	Location    string          `gorm:"not null" json:"location"`
	Date        time.Time       `gorm:"not null" json:"date"`
	ThemeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"theme_id"`
	Theme       Theme           `json:"-"`
	Images      []EventImage    `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"last_update"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

func (event *Event) InventoryStatus() string {
	if event.Inventory < LowInventoryThreshold {
		return "Low"
	}
	return "OK"
}

type EventImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	Image     string    `gorm:"not null" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func (image *EventImage) BeforeCreate(tx *gorm.DB) (err error) {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	return
}
