package importer

import (
	"strconv"

	"migrator/internal/catalog"
	"migrator/internal/models"
)

// importReviews reattaches the family's legacy reviews to the offers just
// created. Reviews of members that produced no offer are dropped.
func (p *ProductImporter) importReviews(product *models.Product, legacyIDs map[string]int64) error {
	if !p.Params.ReviewsEnabled {
		return nil
	}

	productIDs := make([]int64, 0, len(legacyIDs))
	codeByLegacy := make(map[int64]string, len(legacyIDs))
	for code, id := range legacyIDs {
		productIDs = append(productIDs, id)
		codeByLegacy[id] = code
	}

	reviews, err := p.Source.Reviews(productIDs)
	if err != nil {
		return err
	}
	if len(reviews) == 0 {
		return nil
	}

	offerIDByCode := make(map[string]string, len(product.Offers))
	for _, offer := range product.Offers {
		offerIDByCode[offer.Code] = offer.ID
	}

	for _, review := range reviews {
		code, ok := codeByLegacy[review.ProductID]
		if !ok {
			continue
		}
		offerID, ok := offerIDByCode[code]
		if !ok {
			continue
		}

		in := &catalog.ReviewInput{
			OfferID:       offerID,
			Status:        models.StatusActive,
			ReviewerName:  review.Name,
			Advantages:    review.Advantages,
			Disadvantages: review.Disadvantages,
			Comment:       review.Comment,
			RatingValue:   review.RatingValue,
		}

		_, err := p.Store.CreateReview(in)
		if verr := catalog.AsValidation(err); verr != nil {
			p.reportFailure(models.KindReview, strconv.FormatInt(review.ReviewID, 10), review.ReviewID, verr)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
