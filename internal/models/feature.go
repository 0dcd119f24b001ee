package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeatureKind string

const (
	FeatureTextSelectbox   FeatureKind = "TEXT_SELECTBOX"
	FeatureCheckbox        FeatureKind = "CHECKBOX"
	FeatureMultiCheckbox   FeatureKind = "MULTI_CHECKBOX"
	FeatureNumberSelectbox FeatureKind = "NUMBER_SELECTBOX"
	FeatureText            FeatureKind = "TEXT"
)

type FeatureFilterType string

const (
	FilterCheckboxList FeatureFilterType = "CHECKBOX_LIST"
	FilterColorList    FeatureFilterType = "COLOR_LIST"
)

type FeatureSelectorType string

const (
	SelectorImages   FeatureSelectorType = "IMAGES"
	SelectorLabels   FeatureSelectorType = "LABELS"
	SelectorDropdown FeatureSelectorType = "DROPDOWN"
)

type Feature struct {
	ID           string              `json:"id" gorm:"type:uuid;primary_key"`
	Code         string              `json:"code" gorm:"unique;not null"`
	Kind         FeatureKind         `json:"kind" gorm:"not null"`
	Position     int                 `json:"position"`
	IsFilterable bool                `json:"is_filterable"`
	FilterType   *FeatureFilterType  `json:"filter_type"`
	SelectorType FeatureSelectorType `json:"selector_type" gorm:"default:LABELS"`
	Name         string              `json:"name" gorm:"not null"`
	InternalName string              `json:"internal_name"`
	CategoryIDs  []string            `json:"category_ids" gorm:"serializer:json"`
	Variants     []FeatureVariant    `json:"variants" gorm:"foreignKey:FeatureID"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type FeatureVariant struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	FeatureID string    `json:"feature_id" gorm:"type:uuid;index;not null"`
	Code      string    `json:"code" gorm:"unique;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Color     *string   `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

func (v *FeatureVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
