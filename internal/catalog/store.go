package catalog

import (
	"errors"
	"fmt"

	"migrator/internal/models"

	"gorm.io/gorm"
)

// Image owner discriminators, matching the table names gorm's polymorphic
// association writes.
const (
	ownerProduct = "products"
	ownerGroup   = "offer_groups"
)

// ErrDuplicate is returned when a unique code lost a check-then-create race;
// callers treat it as a benign skip, not a failure.
var ErrDuplicate = errors.New("catalog: duplicate code")

// Store is the write interface of the target catalog. Every creation request
// is validated, persisted in a single transaction, and either returns the
// persisted entity or a *ValidationError.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ExistsByCode is the idempotency capability: import steps probe it before
// building a creation request and skip silently when it reports true.
func (s *Store) ExistsByCode(kind, code string) (bool, error) {
	model, err := modelForKind(kind)
	if err != nil {
		return false, err
	}

	var n int64
	if err := s.db.Model(model).Where("code = ?", code).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check %s code %s: %w", kind, code, err)
	}
	return n > 0, nil
}

func modelForKind(kind string) (interface{}, error) {
	switch kind {
	case models.KindCategory:
		return &models.Category{}, nil
	case models.KindBrand:
		return &models.Brand{}, nil
	case models.KindFeature:
		return &models.Feature{}, nil
	case models.KindVariant:
		return &models.FeatureVariant{}, nil
	case models.KindProduct:
		return &models.Product{}, nil
	case models.KindOffer:
		return &models.ProductOffer{}, nil
	default:
		return nil, fmt.Errorf("no code-keyed entity kind %q", kind)
	}
}

// SellerNameExists covers the seller resolver's dedup rule: sellers are
// keyed by name, not code.
func (s *Store) SellerNameExists(name string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.Seller{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check seller name: %w", err)
	}
	return n > 0, nil
}

func (s *Store) SellerByName(name string) (*models.Seller, error) {
	var seller models.Seller
	err := s.db.Where("name = ?", name).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seller: %w", err)
	}
	return &seller, nil
}

func (s *Store) CategoryByCode(code string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("code = ?", code).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	return &category, nil
}

// CategoriesByCodes resolves codes to category ids, preserving the order of
// the requested codes and dropping codes with no match.
func (s *Store) CategoriesByCodes(codes []string) ([]models.Category, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var found []models.Category
	if err := s.db.Where("code IN ?", codes).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	byCode := make(map[string]models.Category, len(found))
	for _, c := range found {
		byCode[c.Code] = c
	}

	ordered := make([]models.Category, 0, len(found))
	for _, code := range codes {
		if c, ok := byCode[code]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (s *Store) FeatureByCode(code string) (*models.Feature, error) {
	var feature models.Feature
	err := s.db.Where("code = ?", code).First(&feature).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feature: %w", err)
	}
	return &feature, nil
}

func (s *Store) VariantByCode(featureID, code string) (*models.FeatureVariant, error) {
	var variant models.FeatureVariant
	err := s.db.Where("feature_id = ? AND code = ?", featureID, code).First(&variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feature variant: %w", err)
	}
	return &variant, nil
}

func (s *Store) BrandByCode(code string) (*models.Brand, error) {
	var brand models.Brand
	err := s.db.Where("code = ?", code).First(&brand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brand: %w", err)
	}
	return &brand, nil
}

func (s *Store) CreateSeller(in *SellerInput) (*models.Seller, error) {
	if verr := requireFields("seller", map[string]string{"name": in.Name}); verr != nil {
		return nil, verr
	}

	seller := models.Seller{
		Name:       in.Name,
		Status:     in.Status,
		Address:    in.Address,
		PostalCode: in.PostalCode,
		Rating:     in.Rating,
	}
	if in.Logo != nil {
		seller.LogoPath = &in.Logo.Path
		seller.LogoAlt = &in.Logo.Alt
	}

	if err := s.create(&seller); err != nil {
		return nil, err
	}
	return &seller, nil
}

func (s *Store) CreateCategory(in *CategoryInput) (*models.Category, error) {
	if verr := requireFields("category", map[string]string{"code": in.Code, "name": in.Name}); verr != nil {
		return nil, verr
	}

	category := models.Category{
		Code:        in.Code,
		ParentID:    in.ParentID,
		Status:      in.Status,
		Name:        in.Name,
		Description: in.Description,
		SeoName:     in.SeoName,
	}

	if err := s.create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) CreateBrand(in *BrandInput) (*models.Brand, error) {
	if verr := requireFields("brand", map[string]string{"code": in.Code, "name": in.Name}); verr != nil {
		return nil, verr
	}

	brand := models.Brand{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		URL:         in.URL,
	}
	if in.Image != nil {
		brand.ImagePath = &in.Image.Path
		brand.ImageAlt = &in.Image.Alt
	}

	if err := s.create(&brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

func (s *Store) CreateFeature(in *FeatureInput) (*models.Feature, error) {
	if verr := requireFields("feature", map[string]string{"code": in.Code, "name": in.Name, "kind": string(in.Kind)}); verr != nil {
		return nil, verr
	}

	feature := models.Feature{
		Code:         in.Code,
		Kind:         in.Kind,
		Position:     in.Position,
		IsFilterable: in.IsFilterable,
		FilterType:   in.FilterType,
		SelectorType: in.SelectorType,
		Name:         in.Name,
		InternalName: in.InternalName,
		CategoryIDs:  in.CategoryIDs,
	}
	for _, v := range in.Variants {
		feature.Variants = append(feature.Variants, models.FeatureVariant{
			Code:     v.Code,
			Name:     v.Name,
			Color:    v.Color,
			Position: v.Position,
		})
	}

	if err := s.create(&feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

// CreateProduct persists one product family atomically. The returned product
// carries its offers so callers can map offer codes to ids.
func (s *Store) CreateProduct(in *ProductInput) (*models.Product, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	product := models.Product{
		Code:            in.Code,
		SellerID:        in.SellerID,
		BrandID:         in.BrandID,
		Status:          in.Status,
		Tracking:        in.Tracking,
		Weight:          in.Weight,
		Length:          in.Length,
		Width:           in.Width,
		Height:          in.Height,
		ShippingFreight: in.ShippingFreight,
		SeoName:         in.SeoName,
		Name:            in.Name,
		Description:     in.Description,
		IsVariable:      in.IsVariable,
		CategoryIDs:     in.CategoryIDs,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		for _, fv := range in.FeatureValues {
			value := models.FeatureValue{
				ProductID:  &product.ID,
				FeatureID:  fv.FeatureID,
				VariantIDs: fv.VariantIDs,
				Value:      fv.Value,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
		}

		for _, link := range in.VariableFeatures {
			row := models.VariableFeatureLink{
				ProductID:   product.ID,
				FeatureID:   link.FeatureID,
				VariantIDs:  link.VariantIDs,
				IsGroupable: link.IsGroupable,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		groupIDs := make(map[string]string, len(in.Groups))
		for _, group := range in.Groups {
			row := models.OfferGroup{
				ProductID:   product.ID,
				Hash:        group.Hash(),
				Assignments: group.Assignments,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			if err := createImages(tx, ownerGroup, row.ID, group.Images); err != nil {
				return err
			}
			groupIDs[row.Hash] = row.ID
		}

		offers := in.Offers
		if !in.IsVariable && in.Offer != nil {
			offers = []OfferInput{*in.Offer}
		}

		for _, offer := range offers {
			row := models.ProductOffer{
				ProductID:    product.ID,
				Code:         offer.Code,
				Price:        offer.Price,
				ListPrice:    offer.ListPrice,
				Status:       offer.Status,
				Barcode:      offer.Barcode,
				Quantity:     offer.Quantity,
				VariantLinks: offer.VariantLinks,
			}
			if id, ok := groupIDs[offer.GroupHash]; ok {
				row.GroupID = &id
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for _, fv := range offer.FeatureValues {
				value := models.FeatureValue{
					OfferID:    &row.ID,
					FeatureID:  fv.FeatureID,
					VariantIDs: fv.VariantIDs,
					Value:      fv.Value,
				}
				if err := tx.Create(&value).Error; err != nil {
					return err
				}
			}
			product.Offers = append(product.Offers, row)
		}

		return createImages(tx, ownerProduct, product.ID, in.Images)
	})
	if err != nil {
		return nil, translateErr("product", err)
	}

	return &product, nil
}

func createImages(tx *gorm.DB, ownerType, ownerID string, images []ImageInput) error {
	for i, img := range images {
		row := models.Image{
			OwnerID:   ownerID,
			OwnerType: ownerType,
			Path:      img.Path,
			Role:      img.Role,
			Alt:       img.Alt,
			Position:  i,
		}
		if img.Position != 0 {
			row.Position = img.Position
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CreateReview(in *ReviewInput) (*models.Review, error) {
	if verr := in.validate(); verr != nil {
		return nil, verr
	}

	review := models.Review{
		OfferID:       in.OfferID,
		Status:        in.Status,
		ReviewerName:  in.ReviewerName,
		Advantages:    in.Advantages,
		Disadvantages: in.Disadvantages,
		Comment:       in.Comment,
		RatingValue:   in.RatingValue,
	}

	if err := s.create(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Store) create(value interface{}) error {
	if err := s.db.Create(value).Error; err != nil {
		return translateErr(fmt.Sprintf("%T", value), err)
	}
	return nil
}

// translateErr maps unique-index violations (a lost check-then-create race
// between parallel batches) onto ErrDuplicate.
func translateErr(entity string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}

func (s *Store) CountOffers() (int64, error) {
	var n int64
	if err := s.db.Model(&models.ProductOffer{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return n, nil
}

// NextProductAfter walks products in ascending id order; it returns nil when
// no product follows lastID. Used by the clone generator's wraparound scan.
func (s *Store) NextProductAfter(lastID string) (*models.Product, error) {
	var product models.Product
	err := s.db.
		Preload("FeatureValues").
		Preload("VariableFeatures").
		Preload("Groups").
		Preload("Groups.Images").
		Preload("Offers").
		Preload("Offers.FeatureValues").
		Preload("Images").
		Where("id > ?", lastID).
		Order("id asc").
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next product: %w", err)
	}
	return &product, nil
}

func (s *Store) RecordFailure(failure *models.ImportFailure) error {
	if err := s.db.Create(failure).Error; err != nil {
		return fmt.Errorf("failed to record import failure: %w", err)
	}
	return nil
}
