package models

// ObjectStatus is shared by every importable catalog entity.
type ObjectStatus string

const (
	StatusActive   ObjectStatus = "ACTIVE"
	StatusDisabled ObjectStatus = "DISABLED"
)

// Entity kinds used for code-based existence checks and failure reports.
const (
	KindSeller   = "seller"
	KindCategory = "category"
	KindBrand    = "brand"
	KindFeature  = "feature"
	KindVariant  = "feature_variant"
	KindProduct  = "product"
	KindOffer    = "offer"
	KindReview   = "review"
)
