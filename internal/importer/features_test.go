package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"migrator/internal/models"
)

func TestVariantNamer(t *testing.T) {
	namer := variantNamer{}

	// Duplicates keep their own trimmed casing; only the suffix counts up.
	assert.Equal(t, "Red", namer.name("Red"))
	assert.Equal(t, "red (#1)", namer.name("red"))
	assert.Equal(t, "RED (#2)", namer.name(" RED "))
	assert.Equal(t, "Blue", namer.name("Blue"))
}

func TestFeatureKind(t *testing.T) {
	cases := map[string]models.FeatureKind{
		"S": models.FeatureTextSelectbox,
		"C": models.FeatureCheckbox,
		"M": models.FeatureMultiCheckbox,
		"N": models.FeatureNumberSelectbox,
		"T": models.FeatureText,
	}
	for legacy, want := range cases {
		kind, ok := featureKind(legacy)
		assert.True(t, ok, legacy)
		assert.Equal(t, want, kind)
	}

	for _, legacy := range []string{"E", "G", ""} {
		_, ok := featureKind(legacy)
		assert.False(t, ok, legacy)
	}
}

func TestFilterType(t *testing.T) {
	assert.Equal(t, models.FilterCheckboxList, *filterType("checkbox"))
	assert.Equal(t, models.FilterColorList, *filterType("color"))
	assert.Nil(t, filterType("slider"))
	assert.Nil(t, filterType(""))
}

func TestSelectorType(t *testing.T) {
	assert.Equal(t, models.SelectorImages, selectorType("dropdown_images"))
	assert.Equal(t, models.SelectorDropdown, selectorType("dropdown"))
	assert.Equal(t, models.SelectorLabels, selectorType("dropdown_labels"))
	assert.Equal(t, models.SelectorLabels, selectorType(""))
}
