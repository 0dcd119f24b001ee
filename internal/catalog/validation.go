package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a rejected creation request. It is an expected,
// per-entity outcome: callers record it and move on to the next unit.
type ValidationError struct {
	Entity string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(e.Errors, "; "))
}

// AsValidation unwraps err into a ValidationError, or nil.
func AsValidation(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}

func (p *ProductInput) validate() *ValidationError {
	var errs []string

	if p.Code == "" {
		errs = append(errs, "code is required")
	}
	if p.SellerID == "" {
		errs = append(errs, "seller is required")
	}
	if p.Name == "" {
		errs = append(errs, "name is required")
	}

	if p.IsVariable {
		hashes := make(map[string]bool, len(p.Groups))
		for _, group := range p.Groups {
			hashes[group.Hash()] = true
		}
		for _, offer := range p.Offers {
			if offer.Code == "" {
				errs = append(errs, "offer code is required")
			}
			if offer.GroupHash != "" && !hashes[offer.GroupHash] {
				errs = append(errs, fmt.Sprintf("offer %s references unknown group", offer.Code))
			}
		}
	} else {
		if p.Offer == nil {
			errs = append(errs, "offer is required")
		} else if p.Offer.Code == "" {
			errs = append(errs, "offer code is required")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Entity: "product", Errors: errs}
	}
	return nil
}

func (r *ReviewInput) validate() *ValidationError {
	var errs []string

	if r.OfferID == "" {
		errs = append(errs, "offer is required")
	}
	if r.ReviewerName == "" {
		errs = append(errs, "reviewer name is required")
	}
	if r.RatingValue < 1 || r.RatingValue > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}

	if len(errs) > 0 {
		return &ValidationError{Entity: "review", Errors: errs}
	}
	return nil
}

func requireFields(entity string, fields map[string]string) *ValidationError {
	var errs []string
	for name, value := range fields {
		if value == "" {
			errs = append(errs, name+" is required")
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Entity: entity, Errors: errs}
	}
	return nil
}
