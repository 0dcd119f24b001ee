package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"migrator/internal/models"
)

// Creation request inputs. One ProductInput carries the whole product family
// (offers, offer groups, links, values, images) and is persisted atomically.

type ImageInput struct {
	Path     string
	Role     *string
	Alt      string
	Position int
}

type SellerInput struct {
	Name       string
	Status     models.ObjectStatus
	Address    string
	PostalCode string
	Rating     float64
	Logo       *ImageInput
}

type CategoryInput struct {
	Code        string
	ParentID    *string
	Status      models.ObjectStatus
	Name        string
	Description string
	SeoName     *string
}

type BrandInput struct {
	Code        string
	Name        string
	Description string
	URL         *string
	Image       *ImageInput
}

type FeatureVariantInput struct {
	Code     string
	Name     string
	Color    *string
	Position int
}

type FeatureInput struct {
	Code         string
	Kind         models.FeatureKind
	Position     int
	IsFilterable bool
	FilterType   *models.FeatureFilterType
	SelectorType models.FeatureSelectorType
	Name         string
	InternalName string
	CategoryIDs  []string
	Variants     []FeatureVariantInput
}

type FeatureValueInput struct {
	FeatureID  string
	VariantIDs []string
	Value      string
}

type VariableFeatureLinkInput struct {
	FeatureID   string
	VariantIDs  []string
	IsGroupable bool
}

type OfferGroupInput struct {
	Assignments []models.VariantAssignment
	Images      []ImageInput
}

// Hash identifies the group by its ordered groupable-feature assignments.
// Semantically identical groups hash identically regardless of which offer
// produced them first.
func (g *OfferGroupInput) Hash() string {
	parts := make([]string, len(g.Assignments))
	for i, a := range g.Assignments {
		parts[i] = fmt.Sprintf("%s=%s", a.FeatureID, a.VariantID)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&")))
	return hex.EncodeToString(sum[:])
}

type OfferInput struct {
	Code          string
	Price         float64
	ListPrice     float64
	Status        models.ObjectStatus
	Barcode       string
	Quantity      int
	GroupHash     string
	VariantLinks  []models.VariantAssignment
	FeatureValues []FeatureValueInput
}

type ProductInput struct {
	Code             string
	SellerID         string
	BrandID          *string
	Status           models.ObjectStatus
	Tracking         bool
	Weight           float64
	Length           int
	Width            int
	Height           int
	ShippingFreight  float64
	SeoName          *string
	Name             string
	Description      string
	CategoryIDs      []string
	FeatureValues    []FeatureValueInput
	VariableFeatures []VariableFeatureLinkInput

	// Variable products carry Groups plus Offers keyed to them by GroupHash;
	// plain products carry exactly one Offer and product-level Images.
	IsVariable bool
	Groups     []OfferGroupInput
	Offers     []OfferInput
	Offer      *OfferInput
	Images     []ImageInput
}

type ReviewInput struct {
	OfferID       string
	Status        models.ObjectStatus
	ReviewerName  string
	Advantages    string
	Disadvantages string
	Comment       string
	RatingValue   int
}
