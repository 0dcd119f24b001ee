package importer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"migrator/internal/catalog"
	"migrator/internal/models"
	"migrator/internal/source"
)

// Params carries the run-scoped settings shared by every stage.
type Params struct {
	ProjectName       string `json:"project_name"`
	CategoryName      string `json:"category_name"`
	ImagesPath        string `json:"images_path"`
	ProductCodePrefix string `json:"product_code_prefix"`
	Locale            string `json:"locale"`
	PageSize          int    `json:"page_size"`
	ReviewsEnabled    bool   `json:"reviews_enabled"`
}

// Env bundles the collaborators every stage works against.
type Env struct {
	Source *source.DB
	Store  *catalog.Store
	Images source.Images
	Params Params
	Log    *logrus.Logger
}

func (e *Env) codes() Codes {
	return Codes{Project: e.Params.ProjectName, ProductPrefix: e.Params.ProductCodePrefix}
}

// reportFailure records a validation failure for later review and moves on.
// Broken source rows must never abort a batch.
func (e *Env) reportFailure(entity, code string, legacyID int64, verr *catalog.ValidationError) {
	e.Log.WithFields(logrus.Fields{
		"entity":    entity,
		"code":      code,
		"legacy_id": legacyID,
		"errors":    verr.Errors,
	}).Warn("entity failed validation")

	failure := &models.ImportFailure{
		Entity:   entity,
		Code:     code,
		LegacyID: legacyID,
		Message:  verr.Error(),
		Errors:   verr.Errors,
	}
	if err := e.Store.RecordFailure(failure); err != nil {
		e.Log.WithError(err).Error("failed to record import failure")
	}
}

func statusOf(legacy string) models.ObjectStatus {
	if legacy == "A" {
		return models.StatusActive
	}
	return models.StatusDisabled
}

// Stage is one step of the import chain.
type Stage interface {
	Name() string
	Run(ctx context.Context) error
}

// Run executes the full import chain in dependency order: products resolve
// against sellers, categories, brands and features, so those go first.
func Run(ctx context.Context, env *Env, dispatcher BatchDispatcher) error {
	return NewRunner(env.Log,
		NewSellersStage(env),
		NewCategoriesStage(env),
		NewBrandsStage(env),
		NewFeaturesStage(env),
		NewProductsStage(env, dispatcher),
	).Run(ctx)
}

// Runner executes stages in order and aborts the chain on the first error.
type Runner struct {
	log    *logrus.Logger
	stages []Stage
}

func NewRunner(log *logrus.Logger, stages ...Stage) *Runner {
	return &Runner{log: log, stages: stages}
}

func (r *Runner) Run(ctx context.Context) error {
	for _, stage := range r.stages {
		log := r.log.WithField("stage", stage.Name())
		log.Info("stage started")
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		log.Info("stage finished")
	}
	return nil
}
