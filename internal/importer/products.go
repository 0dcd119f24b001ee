package importer

import (
	"context"
	"errors"
	"regexp"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// BatchDispatcher hands a page of legacy product ids to whatever executes
// product batches: inline in-process, or a queue for parallel workers.
type BatchDispatcher interface {
	Dispatch(ctx context.Context, productIDs []int64) error
}

// ProductsStage pages the legacy product table and dispatches each id page
// as one batch. The heavy lifting happens in ProductImporter.
type ProductsStage struct {
	*Env
	dispatcher BatchDispatcher
}

func NewProductsStage(env *Env, dispatcher BatchDispatcher) *ProductsStage {
	return &ProductsStage{Env: env, dispatcher: dispatcher}
}

func (s *ProductsStage) Name() string { return "products" }

func (s *ProductsStage) Run(ctx context.Context) error {
	return s.Source.EachProductIDPage(s.Params.PageSize, func(ids []int64) error {
		return s.dispatcher.Dispatch(ctx, ids)
	})
}

// seoNamePattern gates legacy slugs; anything else is dropped rather than
// migrated broken.
var seoNamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_-]+$`)

// ProductImporter migrates one batch of products, reconstructing variation
// families along the way.
type ProductImporter struct {
	*Env
}

func NewProductImporter(env *Env) *ProductImporter {
	return &ProductImporter{Env: env}
}

func (p *ProductImporter) ImportBatch(ctx context.Context, ids []int64) error {
	rows, err := p.Source.ProductsByIDs(ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.importProduct(row); err != nil {
			return err
		}
	}
	return nil
}

func (p *ProductImporter) importProduct(row source.ProductRow) error {
	codes := p.codes()
	code := codes.Product(row)

	exists, err := p.Store.ExistsByCode(models.KindProduct, code)
	if err != nil {
		return err
	}
	if !exists {
		// Group members become offers under the representative's code, so
		// probe the offer namespace too.
		exists, err = p.Store.ExistsByCode(models.KindOffer, code)
		if err != nil {
			return err
		}
	}
	if exists {
		return nil
	}

	groupID, inGroup, err := p.Source.GroupID(row.ProductID)
	if err != nil {
		return err
	}
	if inGroup {
		minID, err := p.Source.GroupMinProductID(groupID)
		if err != nil {
			return err
		}
		if row.ProductID > minID {
			// Not the canonical representative; the representative's run
			// imports this row as an offer.
			return nil
		}
	}

	desc, err := p.Source.ProductDescription(row.ProductID, p.Params.Locale)
	if err != nil {
		return err
	}
	if desc == nil {
		return nil
	}

	seller, err := p.findSeller(row.CompanyID)
	if err != nil {
		return err
	}
	if seller == nil {
		return nil
	}

	categoryIDs, err := p.findCategories(row.ProductID)
	if err != nil {
		return err
	}

	baseline, err := p.featureValues(row.ProductID)
	if err != nil {
		return err
	}

	brandID, err := p.findBrand(row.ProductID)
	if err != nil {
		return err
	}

	in := &catalog.ProductInput{
		Code:            code,
		SellerID:        seller.ID,
		BrandID:         brandID,
		Status:          statusOf(row.Status),
		Tracking:        row.Tracking == "B",
		Weight:          row.Weight,
		Length:          row.Length,
		Width:           row.Width,
		Height:          row.Height,
		ShippingFreight: row.ShippingFreight,
		Name:            desc.Product,
		Description:     desc.FullDescription,
		CategoryIDs:     categoryIDs,
		FeatureValues:   baseline,
	}

	seoName, err := p.Source.SeoName(row.ProductID, "p", p.Params.Locale)
	if err != nil {
		return err
	}
	if seoName != "" && seoNamePattern.MatchString(seoName) {
		in.SeoName = &seoName
	}

	var family *Family
	if inGroup {
		family, err = p.findVariations(groupID)
		if err != nil {
			return err
		}
	}

	legacyIDs := map[string]int64{code: row.ProductID}

	if family != nil && len(family.VariableFeatures) > 0 {
		if err := p.buildVariable(in, family, desc.Product, baseline, legacyIDs); err != nil {
			return err
		}
	} else {
		if err := p.buildSingle(in, row, desc.Product); err != nil {
			return err
		}
	}

	product, err := p.Store.CreateProduct(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		return nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		p.reportFailure(models.KindProduct, code, row.ProductID, verr)
		return nil
	}
	if err != nil {
		return err
	}

	return p.importReviews(product, legacyIDs)
}

// buildVariable fills the variable-product branch: one offer per surviving
// family member, offer groups deduplicated by hash, group images from each
// group's first member.
func (p *ProductImporter) buildVariable(in *catalog.ProductInput, family *Family, alt string, baseline []catalog.FeatureValueInput, legacyIDs map[string]int64) error {
	in.IsVariable = true
	in.VariableFeatures = family.VariableFeatures

	variable := make(map[string]bool, len(family.VariableFeatures))
	for _, link := range family.VariableFeatures {
		variable[link.FeatureID] = true
	}

	codes := p.codes()
	for _, seed := range family.Offers {
		offerCode := codes.Product(seed.Row)

		values, err := p.featureValues(seed.Row.ProductID)
		if err != nil {
			return err
		}
		price, err := p.Source.Price(seed.Row.ProductID)
		if err != nil {
			return err
		}

		in.Offers = append(in.Offers, catalog.OfferInput{
			Code:          offerCode,
			Price:         price,
			ListPrice:     seed.Row.ListPrice,
			Status:        statusOf(seed.Row.Status),
			Barcode:       seed.Row.ProductCode,
			Quantity:      seed.Row.Amount,
			GroupHash:     seed.GroupHash,
			VariantLinks:  seed.VariantLinks,
			FeatureValues: OfferDelta(values, baseline, variable),
		})
		legacyIDs[offerCode] = seed.Row.ProductID
	}

	for _, hash := range family.GroupOrder {
		images, err := p.productImages(family.GroupMemberIDs[hash], alt)
		if err != nil {
			return err
		}
		in.Groups = append(in.Groups, catalog.OfferGroupInput{
			Assignments: family.Groups[hash],
			Images:      images,
		})
	}
	return nil
}

func (p *ProductImporter) buildSingle(in *catalog.ProductInput, row source.ProductRow, alt string) error {
	price, err := p.Source.Price(row.ProductID)
	if err != nil {
		return err
	}
	in.Offer = &catalog.OfferInput{
		Code:      in.Code,
		Price:     price,
		ListPrice: row.ListPrice,
		Status:    models.StatusActive,
		Barcode:   row.ProductCode,
		Quantity:  row.Amount,
	}

	in.Images, err = p.productImages(row.ProductID, alt)
	return err
}

// findVariations resolves a group's feature declarations against the target
// catalog and reconstructs the family. A group declaring any feature that
// never made it into the target is abandoned whole: the representative falls
// back to the single-offer path.
func (p *ProductImporter) findVariations(groupID int64) (*Family, error) {
	featRows, err := p.Source.GroupFeatures(groupID)
	if err != nil {
		return nil, err
	}
	if len(featRows) == 0 {
		return nil, nil
	}

	codes := p.codes()
	decls := make([]GroupFeatureDecl, 0, len(featRows))
	legacyIDs := make([]int64, 0, len(featRows))
	for _, fr := range featRows {
		feature, err := p.Store.FeatureByCode(codes.Of(fr.FeatureID))
		if err != nil {
			return nil, err
		}
		if feature == nil {
			return nil, nil
		}
		decls = append(decls, GroupFeatureDecl{
			LegacyID:  fr.FeatureID,
			FeatureID: feature.ID,
			Groupable: fr.Purpose == source.PurposeGroupable,
		})
		legacyIDs = append(legacyIDs, fr.FeatureID)
	}

	memberRows, err := p.Source.GroupMembers(groupID)
	if err != nil {
		return nil, err
	}

	members := make([]FamilyMember, 0, len(memberRows))
	for _, row := range memberRows {
		values, err := p.variantValues(row.ProductID, legacyIDs, decls)
		if err != nil {
			return nil, err
		}
		members = append(members, FamilyMember{Row: row, Values: values})
	}

	return Reconstruct(decls, members), nil
}

// variantValues maps a member's raw feature values to target variant ids,
// keyed by legacy feature id and preserving row order.
func (p *ProductImporter) variantValues(productID int64, legacyIDs []int64, decls []GroupFeatureDecl) (map[int64][]string, error) {
	rows, err := p.Source.FeatureValues(productID, p.Params.Locale, legacyIDs)
	if err != nil {
		return nil, err
	}

	targetIDs := make(map[int64]string, len(decls))
	for _, d := range decls {
		targetIDs[d.LegacyID] = d.FeatureID
	}

	codes := p.codes()
	values := make(map[int64][]string, len(rows))
	for _, row := range rows {
		if row.VariantID == 0 {
			continue
		}
		featureID, ok := targetIDs[row.FeatureID]
		if !ok {
			continue
		}
		variant, err := p.Store.VariantByCode(featureID, codes.Of(row.VariantID))
		if err != nil {
			return nil, err
		}
		if variant == nil {
			continue
		}
		values[row.FeatureID] = append(values[row.FeatureID], variant.ID)
	}
	return values, nil
}

// featureValues builds a product's resolved value list. A later source row
// for an already-seen feature replaces the earlier value in place.
func (p *ProductImporter) featureValues(productID int64) ([]catalog.FeatureValueInput, error) {
	rows, err := p.Source.FeatureValues(productID, p.Params.Locale, nil)
	if err != nil {
		return nil, err
	}

	codes := p.codes()
	var values []catalog.FeatureValueInput
	index := map[string]int{}
	for _, row := range rows {
		feature, err := p.Store.FeatureByCode(codes.Of(row.FeatureID))
		if err != nil {
			return nil, err
		}
		if feature == nil {
			continue
		}

		value := catalog.FeatureValueInput{FeatureID: feature.ID}
		if row.VariantID != 0 {
			variant, err := p.Store.VariantByCode(feature.ID, codes.Of(row.VariantID))
			if err != nil {
				return nil, err
			}
			if variant == nil {
				continue
			}
			value.VariantIDs = []string{variant.ID}
		} else {
			if row.Value == "" {
				continue
			}
			value.Value = row.Value
		}

		if i, ok := index[feature.ID]; ok {
			values[i] = value
		} else {
			index[feature.ID] = len(values)
			values = append(values, value)
		}
	}
	return values, nil
}

func (p *ProductImporter) findSeller(companyID int64) (*models.Seller, error) {
	name, err := p.Source.CompanyName(companyID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return p.Store.SellerByName(name)
}

func (p *ProductImporter) findCategories(productID int64) ([]string, error) {
	legacyIDs, err := p.Source.ProductCategoryIDs(productID)
	if err != nil {
		return nil, err
	}

	codes := p.codes()
	categoryCodes := make([]string, 0, len(legacyIDs))
	for _, id := range legacyIDs {
		categoryCodes = append(categoryCodes, codes.Of(id))
	}

	categories, err := p.Store.CategoriesByCodes(categoryCodes)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// findBrand resolves the product's brand through its brand-family feature
// values; the first resolvable variant wins.
func (p *ProductImporter) findBrand(productID int64) (*string, error) {
	featureIDs, err := p.Source.BrandFeatureIDs()
	if err != nil {
		return nil, err
	}
	if len(featureIDs) == 0 {
		return nil, nil
	}

	rows, err := p.Source.FeatureValues(productID, p.Params.Locale, featureIDs)
	if err != nil {
		return nil, err
	}

	codes := p.codes()
	for _, row := range rows {
		if row.VariantID == 0 {
			continue
		}
		brand, err := p.Store.BrandByCode(codes.Of(row.VariantID))
		if err != nil {
			return nil, err
		}
		if brand != nil {
			return &brand.ID, nil
		}
	}
	return nil, nil
}

func (p *ProductImporter) productImages(productID int64, alt string) ([]catalog.ImageInput, error) {
	links, err := p.Source.ImageLinks("product", productID)
	if err != nil {
		return nil, err
	}

	paths := p.Images.Resolve(source.ImageProduct, links)
	images := make([]catalog.ImageInput, 0, len(paths))
	for i, path := range paths {
		img := catalog.ImageInput{Path: path, Alt: alt, Position: i}
		if i == 0 {
			role := models.ImageRoleMain
			img.Role = &role
		}
		images = append(images, img)
	}
	return images, nil
}
