package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migrator/internal/source"
)

func member(productID int64, values map[int64][]string) FamilyMember {
	return FamilyMember{
		Row:    source.ProductRow{ProductID: productID},
		Values: values,
	}
}

func TestReconstructSplitsGroupsByGroupableAssignments(t *testing.T) {
	decls := []GroupFeatureDecl{
		{LegacyID: 30, FeatureID: "color", Groupable: true},
		{LegacyID: 31, FeatureID: "size", Groupable: false},
	}
	members := []FamilyMember{
		member(501, map[int64][]string{30: {"red"}, 31: {"s"}}),
		member(502, map[int64][]string{30: {"red"}, 31: {"m"}}),
		member(503, map[int64][]string{30: {"blue"}, 31: {"s"}}),
	}

	family := Reconstruct(decls, members)

	require.Len(t, family.Offers, 3)
	// Same color shares one group; the third member opens a second one.
	assert.Equal(t, family.Offers[0].GroupHash, family.Offers[1].GroupHash)
	assert.NotEqual(t, family.Offers[0].GroupHash, family.Offers[2].GroupHash)
	assert.Len(t, family.GroupOrder, 2)

	// Group images come from the member that opened the group.
	assert.Equal(t, int64(501), family.GroupMemberIDs[family.Offers[0].GroupHash])
	assert.Equal(t, int64(503), family.GroupMemberIDs[family.Offers[2].GroupHash])

	// Non-groupable assignments never enter the group key.
	for _, hash := range family.GroupOrder {
		for _, a := range family.Groups[hash] {
			assert.Equal(t, "color", a.FeatureID)
		}
	}
}

func TestReconstructExcludesMembersWithoutAnyValue(t *testing.T) {
	decls := []GroupFeatureDecl{{LegacyID: 30, FeatureID: "color", Groupable: true}}
	members := []FamilyMember{
		member(501, map[int64][]string{30: {"red"}}),
		member(503, map[int64][]string{}),
	}

	family := Reconstruct(decls, members)

	require.Len(t, family.Offers, 1)
	assert.Equal(t, int64(501), family.Offers[0].Row.ProductID)
}

func TestReconstructFirstVariantWins(t *testing.T) {
	decls := []GroupFeatureDecl{{LegacyID: 30, FeatureID: "color", Groupable: true}}
	members := []FamilyMember{
		member(501, map[int64][]string{30: {"red", "blue"}}),
	}

	family := Reconstruct(decls, members)

	require.Len(t, family.Offers, 1)
	require.Len(t, family.Offers[0].VariantLinks, 1)
	assert.Equal(t, "red", family.Offers[0].VariantLinks[0].VariantID)
}

func TestReconstructCollectsVariableFeatureVariants(t *testing.T) {
	decls := []GroupFeatureDecl{{LegacyID: 30, FeatureID: "color", Groupable: true}}
	members := []FamilyMember{
		member(501, map[int64][]string{30: {"red"}}),
		member(502, map[int64][]string{30: {"blue"}}),
		member(503, map[int64][]string{30: {"red"}}),
	}

	family := Reconstruct(decls, members)

	require.Len(t, family.VariableFeatures, 1)
	assert.Equal(t, "color", family.VariableFeatures[0].FeatureID)
	assert.True(t, family.VariableFeatures[0].IsGroupable)
	assert.Equal(t, []string{"red", "blue"}, family.VariableFeatures[0].VariantIDs)
}

func TestReconstructPartialMemberKeepsResolvedLinks(t *testing.T) {
	decls := []GroupFeatureDecl{
		{LegacyID: 30, FeatureID: "color", Groupable: true},
		{LegacyID: 31, FeatureID: "size", Groupable: false},
	}
	// Member pins only one of two declared features; it still survives.
	members := []FamilyMember{
		member(501, map[int64][]string{31: {"m"}}),
	}

	family := Reconstruct(decls, members)

	require.Len(t, family.Offers, 1)
	require.Len(t, family.Offers[0].VariantLinks, 1)
	assert.Equal(t, "size", family.Offers[0].VariantLinks[0].FeatureID)
	// No groupable assignment resolved: the member lands in the empty group.
	assert.Empty(t, family.Groups[family.Offers[0].GroupHash])
}
