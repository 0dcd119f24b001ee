package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID               string                `json:"id" gorm:"type:uuid;primary_key"`
	Code             string                `json:"code" gorm:"unique;not null"`
	SellerID         string                `json:"seller_id" gorm:"type:uuid;not null"`
	BrandID          *string               `json:"brand_id" gorm:"type:uuid"`
	Status           ObjectStatus          `json:"status" gorm:"default:ACTIVE"`
	Tracking         bool                  `json:"tracking"`
	Weight           float64               `json:"weight" gorm:"type:decimal(10,3)"`
	Length           int                   `json:"length"`
	Width            int                   `json:"width"`
	Height           int                   `json:"height"`
	ShippingFreight  float64               `json:"shipping_freight" gorm:"type:decimal(10,2)"`
	SeoName          *string               `json:"seo_name"`
	Name             string                `json:"name" gorm:"not null"`
	Description      string                `json:"description"`
	IsVariable       bool                  `json:"is_variable"`
	CategoryIDs      []string              `json:"category_ids" gorm:"serializer:json"`
	FeatureValues    []FeatureValue        `json:"feature_values" gorm:"foreignKey:ProductID"`
	VariableFeatures []VariableFeatureLink `json:"variable_features" gorm:"foreignKey:ProductID"`
	Groups           []OfferGroup          `json:"groups" gorm:"foreignKey:ProductID"`
	Offers           []ProductOffer        `json:"offers" gorm:"foreignKey:ProductID"`
	Images           []Image               `json:"images" gorm:"polymorphic:Owner"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

type ProductOffer struct {
	ID            string              `json:"id" gorm:"type:uuid;primary_key"`
	ProductID     string              `json:"product_id" gorm:"type:uuid;index;not null"`
	GroupID       *string             `json:"group_id" gorm:"type:uuid"`
	Code          string              `json:"code" gorm:"unique;not null"`
	Price         float64             `json:"price" gorm:"type:decimal(10,2)"`
	ListPrice     float64             `json:"list_price" gorm:"type:decimal(10,2)"`
	Status        ObjectStatus        `json:"status" gorm:"default:ACTIVE"`
	Barcode       string              `json:"barcode"`
	Quantity      int                 `json:"quantity"`
	VariantLinks  []VariantAssignment `json:"variant_links" gorm:"serializer:json"`
	FeatureValues []FeatureValue      `json:"feature_values" gorm:"foreignKey:OfferID"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OfferGroup is the shared bucket of groupable-feature assignments and images
// referenced by one or more offers of the same product.
type OfferGroup struct {
	ID          string              `json:"id" gorm:"type:uuid;primary_key"`
	ProductID   string              `json:"product_id" gorm:"type:uuid;index;not null"`
	Hash        string              `json:"hash" gorm:"not null"`
	Assignments []VariantAssignment `json:"assignments" gorm:"serializer:json"`
	Images      []Image             `json:"images" gorm:"polymorphic:Owner"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type VariableFeatureLink struct {
	ID          string   `json:"id" gorm:"type:uuid;primary_key"`
	ProductID   string   `json:"product_id" gorm:"type:uuid;index;not null"`
	FeatureID   string   `json:"feature_id" gorm:"type:uuid;not null"`
	VariantIDs  []string `json:"variant_ids" gorm:"serializer:json"`
	IsGroupable bool     `json:"is_groupable"`
}

// FeatureValue belongs to either a product (baseline values) or an offer
// (delta values); exactly one of the two keys is set.
type FeatureValue struct {
	ID         string   `json:"id" gorm:"type:uuid;primary_key"`
	ProductID  *string  `json:"product_id" gorm:"type:uuid;index"`
	OfferID    *string  `json:"offer_id" gorm:"type:uuid;index"`
	FeatureID  string   `json:"feature_id" gorm:"type:uuid;not null"`
	VariantIDs []string `json:"variant_ids" gorm:"serializer:json"`
	Value      string   `json:"value"`
}

// VariantAssignment pins one variable feature to one variant.
type VariantAssignment struct {
	FeatureID string `json:"feature_id"`
	VariantID string `json:"variant_id"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

func (o *ProductOffer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

func (g *OfferGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

func (l *VariableFeatureLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (v *FeatureValue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
