package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageRoleMain marks the primary image of an owner.
const ImageRoleMain = "main"

// Image references a file already present under the configured images root;
// the pipeline records paths, it does not copy binaries.
type Image struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	OwnerID   string    `json:"owner_id" gorm:"type:uuid;index;not null"`
	OwnerType string    `json:"owner_type" gorm:"index;not null"`
	Path      string    `json:"path" gorm:"not null"`
	Role      *string   `json:"role"`
	Alt       string    `json:"alt"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
