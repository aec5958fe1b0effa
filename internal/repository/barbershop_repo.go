package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cutspace_v1_202509/internal/model"
)

// ==================== BarbershopRepository 店铺仓库 ====================

// BarbershopRepository 店铺仓库接口
type BarbershopRepository interface {
	Create(ctx context.Context, shop *model.Barbershop) error
	GetByID(ctx context.Context, id int64) (*model.Barbershop, error)
	GetByOwnerID(ctx context.Context, ownerID int64) (*model.Barbershop, error)
	Update(ctx context.Context, shop *model.Barbershop) error
	UpdateRating(ctx context.Context, id int64, rating float64, reviewCount int) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter BarbershopFilter) ([]model.Barbershop, int64, error)
}

// BarbershopFilter 店铺筛选条件
type BarbershopFilter struct {
	Keyword  string
	Page     int
	PageSize int
}

// ==================== 实现 ====================

type barbershopRepository struct {
	db *gorm.DB
}

// NewBarbershopRepository 创建店铺仓库
func NewBarbershopRepository(db *gorm.DB) BarbershopRepository {
	return &barbershopRepository{db: db}
}

// Create 创建店铺
func (r *barbershopRepository) Create(ctx context.Context, shop *model.Barbershop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// GetByID 根据 ID 获取店铺
func (r *barbershopRepository) GetByID(ctx context.Context, id int64) (*model.Barbershop, error) {
	var shop model.Barbershop
	err := r.db.WithContext(ctx).First(&shop, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

// GetByOwnerID 根据店主获取店铺
func (r *barbershopRepository) GetByOwnerID(ctx context.Context, ownerID int64) (*model.Barbershop, error) {
	var shop model.Barbershop
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shop, err
}

// Update 更新店铺
func (r *barbershopRepository) Update(ctx context.Context, shop *model.Barbershop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

// UpdateRating 写回评分汇总（由评价服务重算后调用）
func (r *barbershopRepository) UpdateRating(ctx context.Context, id int64, rating float64, reviewCount int) error {
	return r.db.WithContext(ctx).
		Model(&model.Barbershop{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		}).Error
}

// Delete 删除店铺（软删除）
func (r *barbershopRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Barbershop{}, id).Error
}

// List 店铺列表
func (r *barbershopRepository) List(ctx context.Context, filter BarbershopFilter) ([]model.Barbershop, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Barbershop{})

	if filter.Keyword != "" {
		keyword := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", keyword, keyword)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	var shops []model.Barbershop
	err := query.
		Order("rating DESC, id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&shops).Error

	return shops, total, err
}
