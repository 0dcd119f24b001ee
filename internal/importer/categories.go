package importer

import (
	"context"
	"errors"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// CategoriesStage rebuilds the category tree under a fresh project root
// category. Parents are always created before their children; a subtree
// whose root was already migrated (or is not a plain catalog category) is
// skipped whole.
type CategoriesStage struct {
	*Env
}

func NewCategoriesStage(env *Env) *CategoriesStage {
	return &CategoriesStage{Env: env}
}

func (s *CategoriesStage) Name() string { return "categories" }

type categoryWorkItem struct {
	legacyID int64
	parentID *string
}

func (s *CategoriesStage) Run(ctx context.Context) error {
	rootCode := s.Params.ProjectName
	exists, err := s.Store.ExistsByCode(models.KindCategory, rootCode)
	if err != nil {
		return err
	}
	if exists {
		// A previous run already planted this project's tree.
		return nil
	}

	root, err := s.Store.CreateCategory(&catalog.CategoryInput{
		Code:   rootCode,
		Status: models.StatusActive,
		Name:   s.Params.CategoryName,
	})
	if err != nil {
		return err
	}
	s.Log.WithField("category_id", root.ID).Info("project root category created")

	worklist := []categoryWorkItem{{legacyID: 0, parentID: nil}}
	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		err := s.Source.EachChildCategory(item.legacyID, func(row source.CategoryRow) error {
			child, err := s.importCategory(row, item.parentID)
			if err != nil {
				return err
			}
			if child != nil {
				worklist = append(worklist, categoryWorkItem{legacyID: row.CategoryID, parentID: &child.ID})
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// importCategory returns the created category, or nil when the row (and
// therefore its subtree) is skipped.
func (s *CategoriesStage) importCategory(row source.CategoryRow, parentID *string) (*models.Category, error) {
	if row.CategoryType != "C" {
		return nil, nil
	}

	code := s.codes().Of(row.CategoryID)
	exists, err := s.Store.ExistsByCode(models.KindCategory, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	desc, err := s.Source.CategoryDescription(row.CategoryID, s.Params.Locale)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		return nil, nil
	}

	seoName, err := s.Source.SeoName(row.CategoryID, "c", s.Params.Locale)
	if err != nil {
		return nil, err
	}

	in := &catalog.CategoryInput{
		Code:        code,
		ParentID:    parentID,
		Status:      statusOf(row.Status),
		Name:        desc.Category,
		Description: desc.Description,
	}
	if seoName != "" {
		in.SeoName = &seoName
	}

	category, err := s.Store.CreateCategory(in)
	if errors.Is(err, catalog.ErrDuplicate) {
		return nil, nil
	}
	if verr := catalog.AsValidation(err); verr != nil {
		s.reportFailure(models.KindCategory, code, row.CategoryID, verr)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}
