package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID            string       `json:"id" gorm:"type:uuid;primary_key"`
	OfferID       string       `json:"offer_id" gorm:"type:uuid;index;not null"`
	Status        ObjectStatus `json:"status" gorm:"default:ACTIVE"`
	ReviewerName  string       `json:"reviewer_name" gorm:"not null"`
	Advantages    string       `json:"advantages"`
	Disadvantages string       `json:"disadvantages"`
	Comment       string       `json:"comment"`
	RatingValue   int          `json:"rating_value"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
