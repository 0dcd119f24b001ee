package cloner

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"migrator/internal/catalog"
	"migrator/internal/models"
)

// Cloner multiplies an already-migrated catalog for load testing. It walks
// products in ascending id order and re-creates each one under a prefixed
// code, wrapping around until the target offer count is reached. Clones made
// on earlier laps are themselves visited and cloned again, so codes keep
// growing a prefix per generation and never collide.
type Cloner struct {
	store     *catalog.Store
	log       *logrus.Logger
	maxOffers int64
	prefix    string
}

func New(store *catalog.Store, log *logrus.Logger, maxOffers int64, prefix string) *Cloner {
	return &Cloner{
		store:     store,
		log:       log,
		maxOffers: maxOffers,
		prefix:    prefix,
	}
}

func (c *Cloner) Run(ctx context.Context) error {
	lastID := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		count, err := c.store.CountOffers()
		if err != nil {
			return err
		}
		if count >= c.maxOffers {
			c.log.WithField("offers", count).Info("target offer count reached")
			return nil
		}

		product, err := c.store.NextProductAfter(lastID)
		if err != nil {
			return err
		}
		if product == nil {
			if lastID == "" {
				c.log.Warn("catalog is empty, nothing to clone")
				return nil
			}
			lastID = ""
			continue
		}

		if err := c.cloneProduct(product); err != nil {
			return err
		}
		lastID = product.ID
	}
}

func (c *Cloner) cloneProduct(product *models.Product) error {
	in := &catalog.ProductInput{
		Code:            c.prefix + product.Code,
		SellerID:        product.SellerID,
		BrandID:         product.BrandID,
		Status:          product.Status,
		Tracking:        product.Tracking,
		Weight:          product.Weight,
		Length:          product.Length,
		Width:           product.Width,
		Height:          product.Height,
		ShippingFreight: product.ShippingFreight,
		SeoName:         product.SeoName,
		Name:            product.Name,
		Description:     product.Description,
		CategoryIDs:     product.CategoryIDs,
		FeatureValues:   copyValues(product.FeatureValues),
		IsVariable:      product.IsVariable,
	}

	for _, link := range product.VariableFeatures {
		in.VariableFeatures = append(in.VariableFeatures, catalog.VariableFeatureLinkInput{
			FeatureID:   link.FeatureID,
			VariantIDs:  link.VariantIDs,
			IsGroupable: link.IsGroupable,
		})
	}

	hashByGroupID := make(map[string]string, len(product.Groups))
	for _, group := range product.Groups {
		hashByGroupID[group.ID] = group.Hash
	}

	if product.IsVariable {
		for _, group := range product.Groups {
			in.Groups = append(in.Groups, catalog.OfferGroupInput{
				Assignments: group.Assignments,
				Images:      copyImages(group.Images, product.Name),
			})
		}
		for _, offer := range product.Offers {
			clone := c.cloneOffer(offer)
			if offer.GroupID != nil {
				clone.GroupHash = hashByGroupID[*offer.GroupID]
			}
			in.Offers = append(in.Offers, clone)
		}
	} else {
		if len(product.Offers) > 0 {
			offer := c.cloneOffer(product.Offers[0])
			in.Offer = &offer
		}
		in.Images = copyImages(product.Images, product.Name)
		if len(in.Images) == 0 && len(product.Groups) > 0 {
			in.Images = copyImages(product.Groups[0].Images, product.Name)
		}
	}

	_, err := c.store.CreateProduct(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		// Already cloned under this code on an earlier lap.
		return nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		c.log.WithFields(logrus.Fields{
			"code":   in.Code,
			"errors": verr.Errors,
		}).Warn("clone failed validation")
		return nil
	}
	return err
}

func (c *Cloner) cloneOffer(offer models.ProductOffer) catalog.OfferInput {
	return catalog.OfferInput{
		Code:          c.prefix + offer.Code,
		Price:         offer.Price,
		ListPrice:     offer.ListPrice,
		Status:        offer.Status,
		Barcode:       offer.Barcode,
		Quantity:      offer.Quantity,
		VariantLinks:  offer.VariantLinks,
		FeatureValues: copyValues(offer.FeatureValues),
	}
}

func copyValues(values []models.FeatureValue) []catalog.FeatureValueInput {
	out := make([]catalog.FeatureValueInput, 0, len(values))
	for _, v := range values {
		out = append(out, catalog.FeatureValueInput{
			FeatureID:  v.FeatureID,
			VariantIDs: v.VariantIDs,
			Value:      v.Value,
		})
	}
	return out
}

func copyImages(images []models.Image, alt string) []catalog.ImageInput {
	out := make([]catalog.ImageInput, 0, len(images))
	for i, img := range images {
		in := catalog.ImageInput{Path: img.Path, Alt: alt, Position: i}
		if i == 0 {
			role := models.ImageRoleMain
			in.Role = &role
		}
		out = append(out, in)
	}
	return out
}
