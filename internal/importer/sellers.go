package importer

import (
	"context"
	"errors"
	"math/rand"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// SellersStage migrates companies into sellers. Sellers have no legacy code
// to key on, so idempotency is by exact name match.
type SellersStage struct {
	*Env
}

func NewSellersStage(env *Env) *SellersStage {
	return &SellersStage{Env: env}
}

func (s *SellersStage) Name() string { return "sellers" }

func (s *SellersStage) Run(ctx context.Context) error {
	return s.Source.EachCompany(func(row source.CompanyRow) error {
		return s.importSeller(row)
	})
}

func (s *SellersStage) importSeller(row source.CompanyRow) error {
	exists, err := s.Store.SellerNameExists(row.Company)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logo, err := s.findLogo(row)
	if err != nil {
		return err
	}

	in := &catalog.SellerInput{
		Name:       row.Company,
		Status:     statusOf(row.Status),
		Address:    row.Address,
		PostalCode: row.Zipcode,
		Rating:     float64(rand.Intn(401)+100) / 100,
		Logo:       logo,
	}

	_, err = s.Store.CreateSeller(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		return nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		s.reportFailure(models.KindSeller, row.Company, row.CompanyID, verr)
		return nil
	}
	return err
}

func (s *SellersStage) findLogo(row source.CompanyRow) (*catalog.ImageInput, error) {
	link, err := s.Source.CompanyLogo(row.CompanyID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}
	paths := s.Images.Resolve(source.ImageLogo, []source.ImageLinkRow{*link})
	if len(paths) == 0 {
		return nil, nil
	}
	return &catalog.ImageInput{Path: paths[0], Alt: row.Company}, nil
}
