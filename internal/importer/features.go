package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// FeaturesStage migrates feature definitions together with their variant
// dictionaries. Features with no importable representation (brand families,
// groups) never reach this stage.
type FeaturesStage struct {
	*Env
}

func NewFeaturesStage(env *Env) *FeaturesStage {
	return &FeaturesStage{Env: env}
}

func (s *FeaturesStage) Name() string { return "features" }

func (s *FeaturesStage) Run(ctx context.Context) error {
	return s.Source.EachFeature(func(row source.FeatureRow) error {
		return s.importFeature(row)
	})
}

func (s *FeaturesStage) importFeature(row source.FeatureRow) error {
	kind, ok := featureKind(row.FeatureType)
	if !ok {
		return nil
	}

	code := s.codes().Of(row.FeatureID)
	exists, err := s.Store.ExistsByCode(models.KindFeature, code)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	desc, err := s.Source.FeatureDescription(row.FeatureID, s.Params.Locale)
	if err != nil {
		return err
	}
	if desc == nil {
		return nil
	}

	isFilterable, err := s.Source.HasFilter(row.FeatureID)
	if err != nil {
		return err
	}

	categoryIDs, err := s.featureCategories(row)
	if err != nil {
		return err
	}

	variants, err := s.featureVariants(row.FeatureID)
	if err != nil {
		return err
	}

	in := &catalog.FeatureInput{
		Code:         code,
		Kind:         kind,
		Position:     row.Position,
		IsFilterable: isFilterable,
		FilterType:   filterType(row.FilterStyle),
		SelectorType: selectorType(row.FeatureStyle),
		Name:         desc.Description,
		InternalName: desc.InternalName,
		CategoryIDs:  categoryIDs,
		Variants:     variants,
	}

	_, err = s.Store.CreateFeature(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		return nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		s.reportFailure(models.KindFeature, code, row.FeatureID, verr)
		return nil
	}
	return err
}

// featureCategories binds the feature to its legacy category restriction, or
// to the project root when the legacy row had none.
func (s *FeaturesStage) featureCategories(row source.FeatureRow) ([]string, error) {
	codes := s.codes()

	if row.CategoriesPath != "" {
		var categoryCodes []string
		for _, part := range strings.Split(row.CategoriesPath, ",") {
			legacyID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				continue
			}
			categoryCodes = append(categoryCodes, codes.Of(legacyID))
		}
		categories, err := s.Store.CategoriesByCodes(categoryCodes)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(categories))
		for _, c := range categories {
			ids = append(ids, c.ID)
		}
		return ids, nil
	}

	root, err := s.Store.CategoryByCode(s.Params.ProjectName)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return []string{root.ID}, nil
}

func (s *FeaturesStage) featureVariants(featureID int64) ([]catalog.FeatureVariantInput, error) {
	rows, err := s.Source.FeatureVariants(featureID)
	if err != nil {
		return nil, err
	}

	codes := s.codes()
	namer := variantNamer{}
	variants := make([]catalog.FeatureVariantInput, 0, len(rows))
	for _, row := range rows {
		desc, err := s.Source.VariantDescription(row.VariantID, s.Params.Locale)
		if err != nil {
			return nil, err
		}
		if desc == nil {
			continue
		}

		in := catalog.FeatureVariantInput{
			Code:     codes.Of(row.VariantID),
			Name:     namer.name(desc.Variant),
			Position: row.Position,
		}
		if row.Color != "" {
			in.Color = &row.Color
		}
		variants = append(variants, in)
	}
	return variants, nil
}

// variantNamer disambiguates case-insensitive name collisions within one
// feature by suffixing repeats: "Red", "Red (#1)", "Red (#2)".
type variantNamer map[string]int

func (n variantNamer) name(raw string) string {
	name := strings.TrimSpace(raw)
	key := strings.ToLower(name)
	if count, ok := n[key]; ok {
		n[key] = count + 1
		return fmt.Sprintf("%s (#%d)", name, count+1)
	}
	n[key] = 0
	return name
}

func featureKind(legacyType string) (models.FeatureKind, bool) {
	switch legacyType {
	case "S":
		return models.FeatureTextSelectbox, true
	case "C":
		return models.FeatureCheckbox, true
	case "M":
		return models.FeatureMultiCheckbox, true
	case "N":
		return models.FeatureNumberSelectbox, true
	case "T":
		return models.FeatureText, true
	default:
		return "", false
	}
}

func filterType(filterStyle string) *models.FeatureFilterType {
	var ft models.FeatureFilterType
	switch filterStyle {
	case "checkbox":
		ft = models.FilterCheckboxList
	case "color":
		ft = models.FilterColorList
	default:
		return nil
	}
	return &ft
}

func selectorType(featureStyle string) models.FeatureSelectorType {
	switch featureStyle {
	case "dropdown_images":
		return models.SelectorImages
	case "dropdown":
		return models.SelectorDropdown
	default:
		return models.SelectorLabels
	}
}
