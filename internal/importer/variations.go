package importer

import (
	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// GroupFeatureDecl is one declared variable feature of a variation group,
// already resolved against the target catalog.
type GroupFeatureDecl struct {
	LegacyID  int64
	FeatureID string
	Groupable bool
}

// FamilyMember is one legacy group member together with its raw variant
// assignments, keyed by legacy feature id in source row order.
type FamilyMember struct {
	Row    source.ProductRow
	Values map[int64][]string
}

// OfferSeed is one reconstructed offer-to-be: the member row, the variant
// links it pins, and the offer group it belongs to.
type OfferSeed struct {
	Row          source.ProductRow
	VariantLinks []models.VariantAssignment
	GroupHash    string
}

// Family is a reconstructed variation family: the variable feature links with
// the variant ids observed across members, the surviving offers, and the
// deduplicated offer groups keyed by hash in first-seen order.
type Family struct {
	VariableFeatures []catalog.VariableFeatureLinkInput
	Offers           []OfferSeed
	GroupOrder       []string
	Groups           map[string][]models.VariantAssignment
	// GroupMemberIDs maps each group hash to the legacy product id of the
	// member that first produced it; group images come from that member.
	GroupMemberIDs map[string]int64
}

// Reconstruct rebuilds a variation family from the group's feature
// declarations and member rows. Members carrying no value for any declared
// feature are excluded. When a member carries several variants for one
// feature, the first one wins.
func Reconstruct(decls []GroupFeatureDecl, members []FamilyMember) *Family {
	family := &Family{
		Groups:         map[string][]models.VariantAssignment{},
		GroupMemberIDs: map[string]int64{},
	}

	links := make([]catalog.VariableFeatureLinkInput, len(decls))
	for i, d := range decls {
		links[i] = catalog.VariableFeatureLinkInput{FeatureID: d.FeatureID, IsGroupable: d.Groupable}
	}

	for _, member := range members {
		var all []models.VariantAssignment
		assigned := make(map[string]string, len(decls))
		for i, d := range decls {
			ids := member.Values[d.LegacyID]
			if len(ids) == 0 {
				continue
			}
			variantID := ids[0]
			links[i].VariantIDs = appendUnique(links[i].VariantIDs, variantID)
			all = append(all, models.VariantAssignment{FeatureID: d.FeatureID, VariantID: variantID})
			assigned[d.FeatureID] = variantID
		}
		if len(all) == 0 {
			continue
		}

		var groupable []models.VariantAssignment
		for _, d := range decls {
			if !d.Groupable {
				continue
			}
			if variantID, ok := assigned[d.FeatureID]; ok {
				groupable = append(groupable, models.VariantAssignment{FeatureID: d.FeatureID, VariantID: variantID})
			}
		}

		hash := (&catalog.OfferGroupInput{Assignments: groupable}).Hash()
		if _, ok := family.Groups[hash]; !ok {
			family.Groups[hash] = groupable
			family.GroupOrder = append(family.GroupOrder, hash)
			family.GroupMemberIDs[hash] = member.Row.ProductID
		}

		family.Offers = append(family.Offers, OfferSeed{
			Row:          member.Row,
			VariantLinks: all,
			GroupHash:    hash,
		})
	}

	family.VariableFeatures = links
	return family
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
