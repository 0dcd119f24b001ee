package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportFailure records a validation failure raised by the target store while
// importing a single entity, so an operator can follow up after the run.
type ImportFailure struct {
	ID         string     `json:"id" gorm:"type:uuid;primary_key"`
	Entity     string     `json:"entity" gorm:"not null"`
	Code       string     `json:"code" gorm:"index;not null"`
	LegacyID   int64      `json:"legacy_id"`
	Message    string     `json:"message" gorm:"not null"`
	Errors     []string   `json:"errors" gorm:"serializer:json"`
	IsResolved bool       `json:"is_resolved" gorm:"default:false"`
	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (f *ImportFailure) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
