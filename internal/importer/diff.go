package importer

import "migrator/internal/catalog"

// OfferDelta trims an offer's feature values down to what the offer must
// carry itself: variable features already travel as variant links, and values
// identical to the product baseline are implied by the parent.
func OfferDelta(offer, baseline []catalog.FeatureValueInput, variable map[string]bool) []catalog.FeatureValueInput {
	base := make(map[string]catalog.FeatureValueInput, len(baseline))
	for _, v := range baseline {
		base[v.FeatureID] = v
	}

	var delta []catalog.FeatureValueInput
	for _, v := range offer {
		if variable[v.FeatureID] {
			continue
		}
		if b, ok := base[v.FeatureID]; ok && sameValue(v, b) {
			continue
		}
		delta = append(delta, v)
	}
	return delta
}

func sameValue(a, b catalog.FeatureValueInput) bool {
	if len(a.VariantIDs) != len(b.VariantIDs) {
		return false
	}
	for i := range a.VariantIDs {
		if a.VariantIDs[i] != b.VariantIDs[i] {
			return false
		}
	}
	return a.Value == b.Value
}
