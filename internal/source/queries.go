package source

import (
	"fmt"
)

// Variation group feature purposes. Groupable purpose sorts first, which
// keeps group-hash ordering deterministic.
const PurposeGroupable = "group_catalog_item"

// EachCompany scans companies ordered by company_id.
func (d *DB) EachCompany(fn func(CompanyRow) error) error {
	lastID := int64(0)
	for {
		var rows []CompanyRow
		err := d.table("companies").
			Where("company_id > ?", lastID).
			Order("company_id asc").
			Limit(d.pageSize).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to scan companies: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}
		lastID = rows[len(rows)-1].CompanyID
	}
}

// EachChildCategory scans the direct children of a legacy category.
func (d *DB) EachChildCategory(parentID int64, fn func(CategoryRow) error) error {
	lastID := int64(0)
	for {
		var rows []CategoryRow
		err := d.table("categories").
			Where("parent_id = ? AND category_id > ?", parentID, lastID).
			Order("category_id asc").
			Limit(d.pageSize).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to scan categories: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}
		lastID = rows[len(rows)-1].CategoryID
	}
}

func (d *DB) CategoryDescription(categoryID int64, lang string) (*CategoryDescriptionRow, error) {
	var rows []CategoryDescriptionRow
	err := d.table("category_descriptions").
		Where("category_id = ? AND lang_code = ?", categoryID, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category description: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// SeoName returns the legacy SEO slug for an object, or "".
func (d *DB) SeoName(objectID int64, objectType, lang string) (string, error) {
	var rows []struct {
		Name string `gorm:"column:name"`
	}
	err := d.table("seo_names").
		Where("object_id = ? AND type = ? AND lang_code = ?", objectID, objectType, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("failed to fetch seo name: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Name, nil
}

// BrandFeatureIDs lists the legacy "brand family" features (type E).
func (d *DB) BrandFeatureIDs() ([]int64, error) {
	var ids []int64
	err := d.table("product_features").
		Where("feature_type = ?", "E").
		Pluck("feature_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list brand features: %w", err)
	}
	return ids, nil
}

// EachFeatureVariantIn scans variants of the given features.
func (d *DB) EachFeatureVariantIn(featureIDs []int64, fn func(FeatureVariantRow) error) error {
	lastID := int64(0)
	for {
		var rows []FeatureVariantRow
		err := d.table("product_feature_variants").
			Where("feature_id IN ? AND variant_id > ?", featureIDs, lastID).
			Order("variant_id asc").
			Limit(d.pageSize).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to scan feature variants: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}
		lastID = rows[len(rows)-1].VariantID
	}
}

// EachFeature scans importable features, excluding brand families (E) and
// feature groups (G).
func (d *DB) EachFeature(fn func(FeatureRow) error) error {
	lastID := int64(0)
	for {
		var rows []FeatureRow
		err := d.table("product_features").
			Where("feature_type NOT IN ? AND feature_id > ?", []string{"E", "G"}, lastID).
			Order("feature_id asc").
			Limit(d.pageSize).
			Find(&rows).Error
		if err != nil {
			return fmt.Errorf("failed to scan features: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for _, row := range rows {
			if err := fn(row); err != nil {
				return err
			}
		}
		lastID = rows[len(rows)-1].FeatureID
	}
}

func (d *DB) FeatureDescription(featureID int64, lang string) (*FeatureDescriptionRow, error) {
	var rows []FeatureDescriptionRow
	err := d.table("product_features_descriptions").
		Where("feature_id = ? AND lang_code = ?", featureID, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feature description: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (d *DB) FeatureVariants(featureID int64) ([]FeatureVariantRow, error) {
	var rows []FeatureVariantRow
	err := d.table("product_feature_variants").
		Where("feature_id = ?", featureID).
		Order("variant_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feature variants: %w", err)
	}
	return rows, nil
}

func (d *DB) VariantDescription(variantID int64, lang string) (*VariantDescriptionRow, error) {
	var rows []VariantDescriptionRow
	err := d.table("product_feature_variant_descriptions").
		Where("variant_id = ? AND lang_code = ?", variantID, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variant description: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// HasFilter reports whether the legacy shop exposes the feature as a filter.
func (d *DB) HasFilter(featureID int64) (bool, error) {
	var n int64
	err := d.table("product_filters").
		Where("feature_id = ?", featureID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check product filters: %w", err)
	}
	return n > 0, nil
}

// EachProductIDPage yields pages of legacy product ids, pageSize at a time.
func (d *DB) EachProductIDPage(pageSize int, fn func(ids []int64) error) error {
	lastID := int64(0)
	for {
		var ids []int64
		err := d.table("products").
			Where("product_id > ?", lastID).
			Order("product_id asc").
			Limit(pageSize).
			Pluck("product_id", &ids).Error
		if err != nil {
			return fmt.Errorf("failed to page product ids: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}
		if err := fn(ids); err != nil {
			return err
		}
		lastID = ids[len(ids)-1]
	}
}

// ProductsByIDs loads plain products ("P" rows) from an id batch in id order.
func (d *DB) ProductsByIDs(ids []int64) ([]ProductRow, error) {
	var rows []ProductRow
	err := d.table("products").
		Where("product_id IN ? AND product_type = ?", ids, "P").
		Order("product_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return rows, nil
}

func (d *DB) ProductDescription(productID int64, lang string) (*ProductDescriptionRow, error) {
	var rows []ProductDescriptionRow
	err := d.table("product_descriptions").
		Where("product_id = ? AND lang_code = ?", productID, lang).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product description: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (d *DB) CompanyName(companyID int64) (string, error) {
	var rows []struct {
		Company string `gorm:"column:company"`
	}
	err := d.table("companies").
		Where("company_id = ?", companyID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return "", fmt.Errorf("failed to fetch company name: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Company, nil
}

// Price returns the base retail price row (quantity 1, default user group).
func (d *DB) Price(productID int64) (float64, error) {
	var rows []struct {
		Price float64 `gorm:"column:price"`
	}
	err := d.table("product_prices").
		Where("product_id = ? AND lower_limit = 1 AND usergroup_id = 0", productID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to fetch price: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Price, nil
}

// ProductCategoryIDs lists a product's category links, primary links first.
func (d *DB) ProductCategoryIDs(productID int64) ([]int64, error) {
	var ids []int64
	err := d.table("products_categories").
		Where("product_id = ?", productID).
		Order("link_type desc").
		Order("position asc").
		Pluck("category_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list product categories: %w", err)
	}
	return ids, nil
}

// FeatureValues lists a product's feature value rows in the import locale,
// optionally restricted to a feature-id set.
func (d *DB) FeatureValues(productID int64, lang string, featureIDs []int64) ([]FeatureValueRow, error) {
	query := d.table("product_features_values").
		Where("product_id = ? AND lang_code = ?", productID, lang)
	if len(featureIDs) > 0 {
		query = query.Where("feature_id IN ?", featureIDs)
	}

	var rows []FeatureValueRow
	if err := query.Order("feature_id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list feature values: %w", err)
	}
	return rows, nil
}

// GroupID resolves variation group membership; ok is false for standalone
// products.
func (d *DB) GroupID(productID int64) (int64, bool, error) {
	var ids []int64
	err := d.table("product_variation_group_products").
		Where("product_id = ?", productID).
		Limit(1).
		Pluck("group_id", &ids).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to resolve variation group: %w", err)
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// GroupMinProductID returns the lowest member id with no parent flag — the
// group's canonical import representative.
func (d *DB) GroupMinProductID(groupID int64) (int64, error) {
	var ids []int64
	err := d.table("product_variation_group_products").
		Where("group_id = ? AND parent_product_id = 0", groupID).
		Order("product_id asc").
		Limit(1).
		Pluck("product_id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to resolve group representative: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

// GroupFeatures lists a group's declared variable features ordered by
// purpose (groupable purpose first).
func (d *DB) GroupFeatures(groupID int64) ([]GroupFeatureRow, error) {
	var rows []GroupFeatureRow
	err := d.table("product_variation_group_features").
		Where("group_id = ?", groupID).
		Order("purpose asc").
		Order("feature_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list group features: %w", err)
	}
	return rows, nil
}

// GroupMembers loads all member products of a variation group.
func (d *DB) GroupMembers(groupID int64) ([]ProductRow, error) {
	var rows []ProductRow
	err := d.table("products").
		Joins(fmt.Sprintf(
			"JOIN %sproduct_variation_group_products gp ON %sproducts.product_id = gp.product_id",
			d.prefix, d.prefix)).
		Where("gp.group_id = ?", groupID).
		Order("gp.product_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load group members: %w", err)
	}
	return rows, nil
}

// ImageLinks lists the image rows linked to an object, primary link types
// first, then by position. Product links carry a separate icon id; the
// detailed image is the one migrated.
func (d *DB) ImageLinks(objectType string, objectID int64) ([]ImageLinkRow, error) {
	joinColumn := "image_id"
	if objectType == "product" {
		joinColumn = "detailed_id"
	}

	var rows []ImageLinkRow
	err := d.table("images").
		Joins(fmt.Sprintf(
			"JOIN %simages_links il ON %simages.image_id = il.%s",
			d.prefix, d.prefix, joinColumn)).
		Where("il.object_type = ? AND il.object_id = ?", objectType, objectID).
		Select(fmt.Sprintf("il.pair_id, %simages.image_id, image_path, il.position", d.prefix)).
		Order("il.type desc").
		Order("il.position asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list image links: %w", err)
	}
	return rows, nil
}

// CompanyLogo resolves the storefront theme logo image for a company, or nil.
func (d *DB) CompanyLogo(companyID int64) (*ImageLinkRow, error) {
	var logoIDs []int64
	err := d.table("logos").
		Where("company_id = ? AND type = ? AND layout_id = 0", companyID, "theme").
		Limit(1).
		Pluck("logo_id", &logoIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company logo: %w", err)
	}
	if len(logoIDs) == 0 {
		return nil, nil
	}

	rows, err := d.ImageLinks("logos", logoIDs[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Reviews loads legacy reviews for a product family.
func (d *DB) Reviews(productIDs []int64) ([]ReviewRow, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var rows []ReviewRow
	err := d.table("product_reviews").
		Where("product_id IN ?", productIDs).
		Order("review_id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return rows, nil
}
