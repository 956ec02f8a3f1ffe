package models

import (
	"time"

	"gorm.io/gorm"
)

// Base replaces gorm.Model so that row ids and bookkeeping timestamps
// never serialize into API responses. Rows are addressed externally by
// their uuid fields only.
type Base struct {
	ID        uint           `gorm:"primarykey" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
