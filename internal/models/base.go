package models

import (
	"time"

	"finflow/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Amounts travel as JSON numbers in the cache, the remote table and the API.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains common columns for all tables. Only the id is part of the
// serialized record; bookkeeping timestamps stay in the database.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id,omitempty"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}
