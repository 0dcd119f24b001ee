package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"migrator/internal/catalog"
	"migrator/internal/database"
	"migrator/internal/models"
	"migrator/internal/source"
)

type inlineDispatcher struct {
	products *ProductImporter
}

func (d inlineDispatcher) Dispatch(ctx context.Context, ids []int64) error {
	return d.products.ImportBatch(ctx, ids)
}

func openMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db
}

func newTestTarget(t *testing.T) *gorm.DB {
	t.Helper()
	db := openMemoryDB(t)
	require.NoError(t, database.Migrate(db))
	return db
}

var sourceSchema = []string{
	`CREATE TABLE legacy_companies (company_id INTEGER PRIMARY KEY, company TEXT, status TEXT, address TEXT, zipcode TEXT, phone TEXT)`,
	`CREATE TABLE legacy_categories (category_id INTEGER PRIMARY KEY, parent_id INTEGER, status TEXT, category_type TEXT)`,
	`CREATE TABLE legacy_category_descriptions (category_id INTEGER, lang_code TEXT, category TEXT, description TEXT)`,
	`CREATE TABLE legacy_seo_names (object_id INTEGER, type TEXT, lang_code TEXT, name TEXT)`,
	`CREATE TABLE legacy_product_features (feature_id INTEGER PRIMARY KEY, feature_type TEXT, position INTEGER DEFAULT 0, filter_style TEXT DEFAULT '', feature_style TEXT DEFAULT '', categories_path TEXT DEFAULT '')`,
	`CREATE TABLE legacy_product_features_descriptions (feature_id INTEGER, lang_code TEXT, description TEXT, internal_name TEXT)`,
	`CREATE TABLE legacy_product_feature_variants (variant_id INTEGER PRIMARY KEY, feature_id INTEGER, url TEXT DEFAULT '', color TEXT DEFAULT '', position INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_product_feature_variant_descriptions (variant_id INTEGER, lang_code TEXT, variant TEXT, description TEXT DEFAULT '')`,
	`CREATE TABLE legacy_product_filters (filter_id INTEGER PRIMARY KEY AUTOINCREMENT, feature_id INTEGER)`,
	`CREATE TABLE legacy_products (product_id INTEGER PRIMARY KEY, product_code TEXT DEFAULT '', product_type TEXT DEFAULT 'P', status TEXT DEFAULT 'A', tracking TEXT DEFAULT 'B', weight REAL DEFAULT 0, length INTEGER DEFAULT 0, width INTEGER DEFAULT 0, height INTEGER DEFAULT 0, shipping_freight REAL DEFAULT 0, company_id INTEGER, list_price REAL DEFAULT 0, amount INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_product_descriptions (product_id INTEGER, lang_code TEXT, product TEXT, full_description TEXT DEFAULT '')`,
	`CREATE TABLE legacy_product_prices (product_id INTEGER, price REAL, lower_limit INTEGER, usergroup_id INTEGER)`,
	`CREATE TABLE legacy_products_categories (product_id INTEGER, category_id INTEGER, link_type TEXT DEFAULT 'M', position INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_product_features_values (product_id INTEGER, feature_id INTEGER, variant_id INTEGER DEFAULT 0, value TEXT DEFAULT '', lang_code TEXT)`,
	`CREATE TABLE legacy_product_variation_group_products (product_id INTEGER, group_id INTEGER, parent_product_id INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_product_variation_group_features (group_id INTEGER, feature_id INTEGER, purpose TEXT)`,
	`CREATE TABLE legacy_images (image_id INTEGER PRIMARY KEY, image_path TEXT)`,
	`CREATE TABLE legacy_images_links (pair_id INTEGER PRIMARY KEY AUTOINCREMENT, object_id INTEGER, object_type TEXT, image_id INTEGER, detailed_id INTEGER DEFAULT 0, type TEXT DEFAULT 'M', position INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_logos (logo_id INTEGER PRIMARY KEY, company_id INTEGER, type TEXT, layout_id INTEGER DEFAULT 0)`,
	`CREATE TABLE legacy_product_reviews (review_id INTEGER PRIMARY KEY, product_id INTEGER, name TEXT, advantages TEXT DEFAULT '', disadvantages TEXT DEFAULT '', comment TEXT DEFAULT '', rating_value INTEGER)`,
}

func newTestSource(t *testing.T) *gorm.DB {
	t.Helper()
	db := openMemoryDB(t)
	for _, stmt := range sourceSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// seedShop loads a small but complete legacy shop: one seller, a category
// tree, a brand family, a color feature, one standalone product and one
// three-member variation group where the third member carries no color.
func seedShop(t *testing.T, db *gorm.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO legacy_companies (company_id, company, status, address, zipcode) VALUES (10, 'Acme Trading', 'A', '1 Main St', '10115')`,

		`INSERT INTO legacy_categories VALUES (100, 0, 'A', 'C'), (110, 100, 'A', 'C'), (120, 0, 'A', 'D')`,
		`INSERT INTO legacy_category_descriptions VALUES (100, 'en', 'Phones', 'All phones'), (110, 'en', 'Smartphones', ''), (120, 'en', 'Hidden', '')`,
		`INSERT INTO legacy_seo_names VALUES (100, 'c', 'en', 'phones'), (500, 'p', 'en', 'plain-phone')`,

		`INSERT INTO legacy_product_features (feature_id, feature_type, position, filter_style, feature_style) VALUES (30, 'S', 1, 'checkbox', 'dropdown'), (40, 'E', 2, '', '')`,
		`INSERT INTO legacy_product_features_descriptions VALUES (30, 'en', 'Color', 'color'), (40, 'en', 'Brand', 'brand')`,
		`INSERT INTO legacy_product_filters (feature_id) VALUES (30)`,
		`INSERT INTO legacy_product_feature_variants (variant_id, feature_id, color, position) VALUES (301, 30, '#ff0000', 1), (302, 30, '#0000ff', 2), (401, 40, '', 1)`,
		`INSERT INTO legacy_product_feature_variant_descriptions VALUES (301, 'en', 'Red', ''), (302, 'en', 'Blue', ''), (401, 'en', 'BrandX', 'A brand')`,

		`INSERT INTO legacy_products (product_id, company_id, status, list_price, amount) VALUES (500, 10, 'A', 120, 7), (501, 10, 'A', 0, 1), (502, 10, 'A', 0, 2), (503, 10, 'A', 0, 3)`,
		`INSERT INTO legacy_product_descriptions VALUES (500, 'en', 'Plain Phone', 'A phone'), (501, 'en', 'Vario Phone Red', ''), (502, 'en', 'Vario Phone Blue', ''), (503, 'en', 'Vario Phone Grey', '')`,
		`INSERT INTO legacy_product_prices VALUES (500, 99.5, 1, 0), (501, 10, 1, 0), (502, 20, 1, 0), (503, 30, 1, 0)`,
		`INSERT INTO legacy_products_categories (product_id, category_id) VALUES (500, 100), (501, 110), (502, 110), (503, 110)`,

		`INSERT INTO legacy_product_features_values (product_id, feature_id, variant_id, lang_code) VALUES (500, 30, 301, 'en'), (500, 40, 401, 'en'), (501, 30, 301, 'en'), (502, 30, 302, 'en')`,

		`INSERT INTO legacy_product_variation_group_products (product_id, group_id) VALUES (501, 7), (502, 7), (503, 7)`,
		`INSERT INTO legacy_product_variation_group_features VALUES (7, 30, 'group_catalog_item')`,

		`INSERT INTO legacy_product_reviews (review_id, product_id, name, comment, rating_value) VALUES (1, 502, 'Ann', 'Great color', 5), (2, 503, 'Bob', 'Meh', 3)`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

func newTestEnv(t *testing.T, src, target *gorm.DB) *Env {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Env{
		Source: source.New(src, "legacy_", 50),
		Store:  catalog.NewStore(target),
		Images: source.Images{Root: t.TempDir()},
		Params: Params{
			ProjectName:    "acme",
			CategoryName:   "Acme Shop",
			Locale:         "en",
			PageSize:       50,
			ReviewsEnabled: true,
		},
		Log: log,
	}
}

func runImport(t *testing.T, env *Env) {
	t.Helper()
	dispatcher := inlineDispatcher{products: NewProductImporter(env)}
	require.NoError(t, Run(context.Background(), env, dispatcher))
}

func TestImportFullShop(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	t.Run("seller", func(t *testing.T) {
		var sellers []models.Seller
		require.NoError(t, target.Find(&sellers).Error)
		require.Len(t, sellers, 1)
		assert.Equal(t, "Acme Trading", sellers[0].Name)
		assert.Equal(t, models.StatusActive, sellers[0].Status)
		assert.GreaterOrEqual(t, sellers[0].Rating, 1.0)
		assert.LessOrEqual(t, sellers[0].Rating, 5.0)
	})

	t.Run("category tree", func(t *testing.T) {
		var categories []models.Category
		require.NoError(t, target.Find(&categories).Error)
		require.Len(t, categories, 3)

		byCode := map[string]models.Category{}
		for _, c := range categories {
			byCode[c.Code] = c
		}

		root := byCode["acme"]
		assert.Equal(t, "Acme Shop", root.Name)
		assert.Nil(t, root.ParentID)

		phones := byCode["acme100"]
		assert.Equal(t, "Phones", phones.Name)
		assert.Nil(t, phones.ParentID)
		require.NotNil(t, phones.SeoName)
		assert.Equal(t, "phones", *phones.SeoName)

		smart := byCode["acme110"]
		require.NotNil(t, smart.ParentID)
		assert.Equal(t, phones.ID, *smart.ParentID)

		// Non-catalog category 120 never crosses over.
		_, ok := byCode["acme120"]
		assert.False(t, ok)
	})

	t.Run("brand from brand-family variant", func(t *testing.T) {
		var brands []models.Brand
		require.NoError(t, target.Find(&brands).Error)
		require.Len(t, brands, 1)
		assert.Equal(t, "acme401", brands[0].Code)
		assert.Equal(t, "BrandX", brands[0].Name)
	})

	t.Run("feature with variants", func(t *testing.T) {
		var features []models.Feature
		require.NoError(t, target.Preload("Variants").Find(&features).Error)
		require.Len(t, features, 1)

		color := features[0]
		assert.Equal(t, "acme30", color.Code)
		assert.Equal(t, models.FeatureTextSelectbox, color.Kind)
		assert.True(t, color.IsFilterable)
		require.NotNil(t, color.FilterType)
		assert.Equal(t, models.FilterCheckboxList, *color.FilterType)
		assert.Equal(t, models.SelectorDropdown, color.SelectorType)
		require.Len(t, color.Variants, 2)

		// No categories_path on the legacy row binds it to the project root.
		var root models.Category
		require.NoError(t, target.Where("code = ?", "acme").First(&root).Error)
		assert.Equal(t, []string{root.ID}, color.CategoryIDs)
	})

	t.Run("standalone product", func(t *testing.T) {
		var product models.Product
		require.NoError(t, target.
			Preload("Offers").
			Preload("FeatureValues").
			Where("code = ?", "acme500").
			First(&product).Error)

		assert.Equal(t, "Plain Phone", product.Name)
		assert.False(t, product.IsVariable)
		require.NotNil(t, product.BrandID)
		require.NotNil(t, product.SeoName)
		assert.Equal(t, "plain-phone", *product.SeoName)

		require.Len(t, product.Offers, 1)
		offer := product.Offers[0]
		assert.Equal(t, "acme500", offer.Code)
		assert.Equal(t, 99.5, offer.Price)
		assert.Equal(t, 120.0, offer.ListPrice)
		assert.Equal(t, 7, offer.Quantity)
		assert.Equal(t, models.StatusActive, offer.Status)

		// The brand-family value is not a baseline feature value.
		require.Len(t, product.FeatureValues, 1)
	})

	t.Run("variation family", func(t *testing.T) {
		var product models.Product
		require.NoError(t, target.
			Preload("Offers").
			Preload("Groups").
			Preload("VariableFeatures").
			Where("code = ?", "acme501").
			First(&product).Error)

		assert.True(t, product.IsVariable)
		require.Len(t, product.VariableFeatures, 1)
		assert.True(t, product.VariableFeatures[0].IsGroupable)
		assert.Len(t, product.VariableFeatures[0].VariantIDs, 2)

		// Member 503 carries no color and is excluded.
		require.Len(t, product.Offers, 2)
		offerCodes := []string{product.Offers[0].Code, product.Offers[1].Code}
		assert.ElementsMatch(t, []string{"acme501", "acme502"}, offerCodes)

		require.Len(t, product.Groups, 2)
		for _, offer := range product.Offers {
			require.NotNil(t, offer.GroupID)
			require.Len(t, offer.VariantLinks, 1)
		}

		// Members never become products of their own.
		var n int64
		require.NoError(t, target.Model(&models.Product{}).Count(&n).Error)
		assert.Equal(t, int64(2), n)
	})

	t.Run("reviews reattached, orphans dropped", func(t *testing.T) {
		var reviews []models.Review
		require.NoError(t, target.Find(&reviews).Error)
		require.Len(t, reviews, 1)
		assert.Equal(t, "Ann", reviews[0].ReviewerName)
		assert.Equal(t, 5, reviews[0].RatingValue)

		var offer models.ProductOffer
		require.NoError(t, target.Where("code = ?", "acme502").First(&offer).Error)
		assert.Equal(t, offer.ID, reviews[0].OfferID)
	})
}

func TestImportIsIdempotent(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	counts := func() map[string]int64 {
		out := map[string]int64{}
		for name, model := range map[string]interface{}{
			"sellers":    &models.Seller{},
			"categories": &models.Category{},
			"brands":     &models.Brand{},
			"features":   &models.Feature{},
			"products":   &models.Product{},
			"offers":     &models.ProductOffer{},
			"reviews":    &models.Review{},
		} {
			var n int64
			require.NoError(t, target.Model(model).Count(&n).Error)
			out[name] = n
		}
		return out
	}

	before := counts()
	runImport(t, env)
	assert.Equal(t, before, counts())
}

func TestImportUsesArticleBasedCodes(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	require.NoError(t, src.Exec(`UPDATE legacy_products SET product_code = 'SKU-A' WHERE product_id = 500`).Error)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)
	env.Params.ProductCodePrefix = "eu-"

	runImport(t, env)

	var product models.Product
	require.NoError(t, target.Where("code = ?", "eu-SKU-A500").First(&product).Error)

	// Entity codes stay project-scoped; only product and offer codes carry
	// the article and prefix.
	var category models.Category
	require.NoError(t, target.Where("code = ?", "acme100").First(&category).Error)
}

func TestImportRecordsValidationFailures(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	// An out-of-range rating fails review validation but must not abort the
	// product import.
	require.NoError(t, src.Exec(`UPDATE legacy_product_reviews SET rating_value = 9 WHERE review_id = 1`).Error)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	var n int64
	require.NoError(t, target.Model(&models.Product{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	var failures []models.ImportFailure
	require.NoError(t, target.Find(&failures).Error)
	require.Len(t, failures, 1)
	assert.Equal(t, models.KindReview, failures[0].Entity)
	assert.False(t, failures[0].IsResolved)
}

func TestImportAttachesDetailedProductImage(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	// The link's icon id points at a file that is absent; the detailed id is
	// the one on disk.
	require.NoError(t, src.Exec(`INSERT INTO legacy_images VALUES (77, 'icon.jpg'), (88, 'big.jpg')`).Error)
	require.NoError(t, src.Exec(`INSERT INTO legacy_images_links (object_id, object_type, image_id, detailed_id) VALUES (500, 'product', 77, 88)`).Error)

	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	dir := filepath.Join(env.Images.Root, source.ImageProduct, "0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.jpg"), []byte("x"), 0o644))

	runImport(t, env)

	var product models.Product
	require.NoError(t, target.
		Preload("Images").
		Where("code = ?", "acme500").
		First(&product).Error)

	require.Len(t, product.Images, 1)
	assert.Equal(t, filepath.Join(dir, "big.jpg"), product.Images[0].Path)
	require.NotNil(t, product.Images[0].Role)
	assert.Equal(t, models.ImageRoleMain, *product.Images[0].Role)
	assert.Equal(t, "Plain Phone", product.Images[0].Alt)
}

func TestImportDegenerateGroupStaysVariable(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	// Strip the second member's color; only the representative keeps one.
	require.NoError(t, src.Exec(`DELETE FROM legacy_product_features_values WHERE product_id = 502`).Error)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	var product models.Product
	require.NoError(t, target.
		Preload("Offers").
		Preload("Groups").
		Where("code = ?", "acme501").
		First(&product).Error)

	// A group that collapses to one member is still a variable product with
	// one offer and one group.
	assert.True(t, product.IsVariable)
	require.Len(t, product.Offers, 1)
	assert.Equal(t, "acme501", product.Offers[0].Code)
	require.Len(t, product.Groups, 1)
	require.NotNil(t, product.Offers[0].GroupID)
	assert.Equal(t, product.Groups[0].ID, *product.Offers[0].GroupID)
}

func TestImportTrackingFlag(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	require.NoError(t, src.Exec(`UPDATE legacy_products SET tracking = 'O' WHERE product_id = 500`).Error)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	var plain, vario models.Product
	require.NoError(t, target.Where("code = ?", "acme500").First(&plain).Error)
	require.NoError(t, target.Where("code = ?", "acme501").First(&vario).Error)

	// Only legacy tracking mode B carries over as tracked.
	assert.False(t, plain.Tracking)
	assert.True(t, vario.Tracking)
}

func TestImportAbandonsGroupWithUnresolvedFeature(t *testing.T) {
	src := newTestSource(t)
	seedShop(t, src)
	// Declare an extra group feature that never reaches the target.
	require.NoError(t, src.Exec(`INSERT INTO legacy_product_variation_group_features VALUES (7, 99, 'group_catalog_item')`).Error)
	target := newTestTarget(t)
	env := newTestEnv(t, src, target)

	runImport(t, env)

	var product models.Product
	require.NoError(t, target.
		Preload("Offers").
		Where("code = ?", "acme501").
		First(&product).Error)

	// The representative falls back to a plain single-offer product.
	assert.False(t, product.IsVariable)
	require.Len(t, product.Offers, 1)
	assert.Equal(t, "acme501", product.Offers[0].Code)
}
