package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string       `json:"id" gorm:"type:uuid;primary_key"`
	Code        string       `json:"code" gorm:"unique;not null"`
	ParentID    *string      `json:"parent_id" gorm:"type:uuid;index"`
	Status      ObjectStatus `json:"status" gorm:"default:ACTIVE"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	SeoName     *string      `json:"seo_name"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
