package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/apierr"
	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/options"
	"github.com/KasperFyhn/ulgis/internal/repos"
	"github.com/KasperFyhn/ulgis/internal/types"
)

// TaxonomyService owns the taxonomy store: the public read side used by
// metadata and prompt building, and the admin-only write side.
type TaxonomyService interface {
	List(ctx context.Context) ([]*types.Taxonomy, error)
	Docs(ctx context.Context) (map[string]options.TaxonomyDoc, []*types.Taxonomy, error)
	Create(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error)
	Update(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error)
	Delete(ctx context.Context, taxonomyID uuid.UUID) error
}

type taxonomyService struct {
	db           *gorm.DB
	log          *logger.Logger
	taxonomyRepo repos.TaxonomyRepo
}

func NewTaxonomyService(db *gorm.DB, log *logger.Logger, taxonomyRepo repos.TaxonomyRepo) TaxonomyService {
	return &taxonomyService{
		db:           db,
		log:          log.With("service", "TaxonomyService"),
		taxonomyRepo: taxonomyRepo,
	}
}

func (ts *taxonomyService) List(ctx context.Context) ([]*types.Taxonomy, error) {
	taxonomies, err := ts.taxonomyRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "taxonomy_list_failed",
			fmt.Errorf("listing taxonomies: %w", err))
	}
	return taxonomies, nil
}

// Docs returns the prompt-facing view of the store plus the raw records, so
// one query serves both validation and prompt rendering.
func (ts *taxonomyService) Docs(ctx context.Context) (map[string]options.TaxonomyDoc, []*types.Taxonomy, error) {
	taxonomies, err := ts.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs := make(map[string]options.TaxonomyDoc, len(taxonomies))
	for _, taxonomy := range taxonomies {
		docs[taxonomy.Name] = options.TaxonomyDoc{
			Text:  taxonomy.Text,
			Steps: taxonomy.StepType.Steps(),
		}
	}
	return docs, taxonomies, nil
}

func (ts *taxonomyService) Create(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error) {
	if taxonomy.Name == "" {
		return nil, apierr.New(http.StatusUnprocessableEntity, "taxonomy_name_required",
			errors.New("taxonomy name must not be empty"))
	}
	if taxonomy.Name == options.NoneTaxonomyName {
		return nil, apierr.New(http.StatusUnprocessableEntity, "taxonomy_name_reserved",
			fmt.Errorf("%q is a reserved name", taxonomy.Name))
	}
	var created *types.Taxonomy
	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taxonomy.ID = uuid.New()
		rows, err := ts.taxonomyRepo.Create(ctx, tx, []*types.Taxonomy{taxonomy})
		if err != nil {
			return err
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "taxonomy_create_failed",
			fmt.Errorf("creating taxonomy %q: %w", taxonomy.Name, err))
	}
	ts.log.Info("taxonomy created", "taxonomy_id", created.ID, "name", created.Name)
	return created, nil
}

func (ts *taxonomyService) Update(ctx context.Context, taxonomy *types.Taxonomy) (*types.Taxonomy, error) {
	existing, err := ts.taxonomyRepo.GetByID(ctx, nil, taxonomy.ID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "taxonomy_lookup_failed", err)
	}
	if existing == nil {
		return nil, apierr.New(http.StatusNotFound, "taxonomy_not_found",
			fmt.Errorf("taxonomy %s does not exist", taxonomy.ID))
	}
	var updated *types.Taxonomy
	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := ts.taxonomyRepo.Update(ctx, tx, taxonomy)
		if err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "taxonomy_update_failed",
			fmt.Errorf("updating taxonomy %s: %w", taxonomy.ID, err))
	}
	ts.log.Info("taxonomy updated", "taxonomy_id", updated.ID, "name", updated.Name)
	return updated, nil
}

func (ts *taxonomyService) Delete(ctx context.Context, taxonomyID uuid.UUID) error {
	existing, err := ts.taxonomyRepo.GetByID(ctx, nil, taxonomyID)
	if err != nil {
		return apierr.New(http.StatusInternalServerError, "taxonomy_lookup_failed", err)
	}
	if existing == nil {
		return apierr.New(http.StatusNotFound, "taxonomy_not_found",
			fmt.Errorf("taxonomy %s does not exist", taxonomyID))
	}
	if err := ts.taxonomyRepo.Delete(ctx, nil, taxonomyID); err != nil {
		return apierr.New(http.StatusInternalServerError, "taxonomy_delete_failed",
			fmt.Errorf("deleting taxonomy %s: %w", taxonomyID, err))
	}
	ts.log.Info("taxonomy deleted", "taxonomy_id", taxonomyID)
	return nil
}
