package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type TaxonomyRepo interface {
	Create(ctx context.Context, tx *gorm.DB, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error)
	Update(ctx context.Context, tx *gorm.DB, taxonomy *types.Taxonomy) (*types.Taxonomy, error)
	Delete(ctx context.Context, tx *gorm.DB, taxonomyID uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, taxonomyID uuid.UUID) (*types.Taxonomy, error)
	// ListAll returns every taxonomy ordered by priority (highest first, name
	// as tiebreaker) with parameters preloaded in declared order.
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Taxonomy, error)
}

type taxonomyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaxonomyRepo(db *gorm.DB, baseLog *logger.Logger) TaxonomyRepo {
	return &taxonomyRepo{db: db, log: baseLog.With("repo", "TaxonomyRepo")}
}

func (tr *taxonomyRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return tr.db
}

func (tr *taxonomyRepo) Create(ctx context.Context, tx *gorm.DB, taxonomies []*types.Taxonomy) ([]*types.Taxonomy, error) {
	if len(taxonomies) == 0 {
		return []*types.Taxonomy{}, nil
	}
	if err := tr.conn(tx).WithContext(ctx).Create(&taxonomies).Error; err != nil {
		return nil, err
	}
	return taxonomies, nil
}

func (tr *taxonomyRepo) Update(ctx context.Context, tx *gorm.DB, taxonomy *types.Taxonomy) (*types.Taxonomy, error) {
	conn := tr.conn(tx).WithContext(ctx)
	// Parameters are replaced wholesale so the submitted ordering wins.
	if err := conn.Where("taxonomy_id = ?", taxonomy.ID).Delete(&types.TaxonomyParameter{}).Error; err != nil {
		return nil, err
	}
	if err := conn.Session(&gorm.Session{FullSaveAssociations: true}).Save(taxonomy).Error; err != nil {
		return nil, err
	}
	return taxonomy, nil
}

func (tr *taxonomyRepo) Delete(ctx context.Context, tx *gorm.DB, taxonomyID uuid.UUID) error {
	conn := tr.conn(tx).WithContext(ctx)
	if err := conn.Where("taxonomy_id = ?", taxonomyID).Delete(&types.TaxonomyParameter{}).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", taxonomyID).Delete(&types.Taxonomy{}).Error
}

func (tr *taxonomyRepo) GetByID(ctx context.Context, tx *gorm.DB, taxonomyID uuid.UUID) (*types.Taxonomy, error) {
	var result types.Taxonomy
	err := tr.conn(tx).WithContext(ctx).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", taxonomyID).
		First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (tr *taxonomyRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Taxonomy, error) {
	var results []*types.Taxonomy
	err := tr.conn(tx).WithContext(ctx).
		Preload("Parameters", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("priority DESC").
		Order("name ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
