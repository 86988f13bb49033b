package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Theme struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title     string    `gorm:"unique;not null" json:"title"`
	Events    []Event   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (theme *Theme) BeforeCreate(tx *gorm.DB) (err error) {
	if theme.ID == uuid.Nil {
		theme.ID = uuid.New()
	}
	return
}
