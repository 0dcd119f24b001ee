package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Seller struct {
	ID         string       `json:"id" gorm:"type:uuid;primary_key"`
	Name       string       `json:"name" gorm:"unique;not null"`
	Status     ObjectStatus `json:"status" gorm:"default:ACTIVE"`
	Address    string       `json:"address"`
	PostalCode string       `json:"postal_code"`
	Rating     float64      `json:"rating" gorm:"type:decimal(3,2)"`
	LogoPath   *string      `json:"logo_path"`
	LogoAlt    *string      `json:"logo_alt"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (s *Seller) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
