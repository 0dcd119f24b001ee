package source

// Row types for the legacy flat schema. Only the columns the pipeline reads
// are mapped.

type CompanyRow struct {
	CompanyID int64  `gorm:"column:company_id"`
	Company   string `gorm:"column:company"`
	Status    string `gorm:"column:status"`
	Address   string `gorm:"column:address"`
	Zipcode   string `gorm:"column:zipcode"`
	Phone     string `gorm:"column:phone"`
}

type CategoryRow struct {
	CategoryID   int64  `gorm:"column:category_id"`
	ParentID     int64  `gorm:"column:parent_id"`
	Status       string `gorm:"column:status"`
	CategoryType string `gorm:"column:category_type"`
}

type CategoryDescriptionRow struct {
	CategoryID  int64  `gorm:"column:category_id"`
	Category    string `gorm:"column:category"`
	Description string `gorm:"column:description"`
}

type ProductRow struct {
	ProductID       int64   `gorm:"column:product_id"`
	ProductCode     string  `gorm:"column:product_code"`
	ProductType     string  `gorm:"column:product_type"`
	Status          string  `gorm:"column:status"`
	Tracking        string  `gorm:"column:tracking"`
	Weight          float64 `gorm:"column:weight"`
	Length          int     `gorm:"column:length"`
	Width           int     `gorm:"column:width"`
	Height          int     `gorm:"column:height"`
	ShippingFreight float64 `gorm:"column:shipping_freight"`
	CompanyID       int64   `gorm:"column:company_id"`
	ListPrice       float64 `gorm:"column:list_price"`
	Amount          int     `gorm:"column:amount"`
}

type ProductDescriptionRow struct {
	ProductID       int64  `gorm:"column:product_id"`
	Product         string `gorm:"column:product"`
	FullDescription string `gorm:"column:full_description"`
}

type FeatureRow struct {
	FeatureID      int64  `gorm:"column:feature_id"`
	FeatureType    string `gorm:"column:feature_type"`
	Position       int    `gorm:"column:position"`
	FilterStyle    string `gorm:"column:filter_style"`
	FeatureStyle   string `gorm:"column:feature_style"`
	CategoriesPath string `gorm:"column:categories_path"`
}

type FeatureDescriptionRow struct {
	FeatureID    int64  `gorm:"column:feature_id"`
	Description  string `gorm:"column:description"`
	InternalName string `gorm:"column:internal_name"`
}

type FeatureVariantRow struct {
	VariantID int64  `gorm:"column:variant_id"`
	FeatureID int64  `gorm:"column:feature_id"`
	URL       string `gorm:"column:url"`
	Color     string `gorm:"column:color"`
	Position  int    `gorm:"column:position"`
}

type VariantDescriptionRow struct {
	VariantID   int64  `gorm:"column:variant_id"`
	Variant     string `gorm:"column:variant"`
	Description string `gorm:"column:description"`
}

type FeatureValueRow struct {
	ProductID int64  `gorm:"column:product_id"`
	FeatureID int64  `gorm:"column:feature_id"`
	VariantID int64  `gorm:"column:variant_id"`
	Value     string `gorm:"column:value"`
}

type GroupFeatureRow struct {
	GroupID   int64  `gorm:"column:group_id"`
	FeatureID int64  `gorm:"column:feature_id"`
	Purpose   string `gorm:"column:purpose"`
}

type ImageLinkRow struct {
	PairID    int64  `gorm:"column:pair_id"`
	ImageID   int64  `gorm:"column:image_id"`
	ImagePath string `gorm:"column:image_path"`
	Position  int    `gorm:"column:position"`
}

type ReviewRow struct {
	ReviewID      int64  `gorm:"column:review_id"`
	ProductID     int64  `gorm:"column:product_id"`
	Name          string `gorm:"column:name"`
	Advantages    string `gorm:"column:advantages"`
	Disadvantages string `gorm:"column:disadvantages"`
	Comment       string `gorm:"column:comment"`
	RatingValue   int    `gorm:"column:rating_value"`
}
