package importer

import (
	"context"
	"errors"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// BrandsStage promotes the variants of legacy "brand family" features into
// first-class brands.
type BrandsStage struct {
	*Env
}

func NewBrandsStage(env *Env) *BrandsStage {
	return &BrandsStage{Env: env}
}

func (s *BrandsStage) Name() string { return "brands" }

func (s *BrandsStage) Run(ctx context.Context) error {
	featureIDs, err := s.Source.BrandFeatureIDs()
	if err != nil {
		return err
	}
	if len(featureIDs) == 0 {
		return nil
	}

	return s.Source.EachFeatureVariantIn(featureIDs, func(row source.FeatureVariantRow) error {
		return s.importBrand(row)
	})
}

func (s *BrandsStage) importBrand(row source.FeatureVariantRow) error {
	code := s.codes().Of(row.VariantID)
	exists, err := s.Store.ExistsByCode(models.KindBrand, code)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	desc, err := s.Source.VariantDescription(row.VariantID, s.Params.Locale)
	if err != nil {
		return err
	}
	if desc == nil {
		return nil
	}

	in := &catalog.BrandInput{
		Code:        code,
		Name:        desc.Variant,
		Description: desc.Description,
	}
	if row.URL != "" {
		in.URL = &row.URL
	}

	links, err := s.Source.ImageLinks("feature_variant", row.VariantID)
	if err != nil {
		return err
	}
	if paths := s.Images.Resolve(source.ImageVariant, links); len(paths) > 0 {
		in.Image = &catalog.ImageInput{Path: paths[0], Alt: desc.Variant}
	}

	_, err = s.Store.CreateBrand(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		return nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		s.reportFailure(models.KindBrand, code, row.VariantID, verr)
		return nil
	}
	return err
}
