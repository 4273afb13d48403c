package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type GenerationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.GenerationLog) error
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	return &generationLogRepo{db: db, log: baseLog.With("repo", "GenerationLogRepo")}
}

func (gr *generationLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.GenerationLog) error {
	conn := tx
	if conn == nil {
		conn = gr.db
	}
	return conn.WithContext(ctx).Create(entry).Error
}
