package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/KasperFyhn/ulgis/internal/logger"
	"github.com/KasperFyhn/ulgis/internal/types"
)

type AdminUserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.AdminUser) ([]*types.AdminUser, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AdminUser, error)
}

type adminUserRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminUserRepo(db *gorm.DB, baseLog *logger.Logger) AdminUserRepo {
	return &adminUserRepo{db: db, log: baseLog.With("repo", "AdminUserRepo")}
}

func (ar *adminUserRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return ar.db
}

func (ar *adminUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.AdminUser) ([]*types.AdminUser, error) {
	if len(users) == 0 {
		return []*types.AdminUser{}, nil
	}
	if err := ar.conn(tx).WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ar *adminUserRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.AdminUser, error) {
	var result types.AdminUser
	err := ar.conn(tx).WithContext(ctx).Where("name = ?", name).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
