package importer

import (
	"strconv"

	"migrator/internal/source"
)

// Codes allocates the stable, idempotency-bearing keys every migrated entity
// is filed under. Allocation is a pure function of the legacy id, so re-runs
// always land on the same code.
type Codes struct {
	Project       string
	ProductPrefix string
}

// Of maps a legacy id to its target code: project name + id.
func (c Codes) Of(legacyID int64) string {
	return c.Project + strconv.FormatInt(legacyID, 10)
}

// Product prefers the legacy article over the project name when the row
// carries one, and prepends the optional product code prefix either way.
func (c Codes) Product(row source.ProductRow) string {
	code := c.Of(row.ProductID)
	if row.ProductCode != "" {
		code = row.ProductCode + strconv.FormatInt(row.ProductID, 10)
	}
	return c.ProductPrefix + code
}
