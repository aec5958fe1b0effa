package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"cutspace_v1_202509/internal/model"
)

// ==================== ReviewRepository 评价仓库 ====================

// RatingSummary 某店铺的评分汇总
type RatingSummary struct {
	Count int64
	Sum   int64
}

// ReviewRepository 评价仓库接口
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int64) (*model.Review, error)
	ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.Review, int64, error)
	SummaryByShop(ctx context.Context, shopID int64) (*RatingSummary, error)
	Delete(ctx context.Context, id int64) error
}

// ==================== 实现 ====================

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create 创建评价
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// GetByID 根据 ID 获取评价
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &review, err
}

// ListByShop 店铺评价列表（带用户信息，新的在前）
func (r *reviewRepository) ListByShop(ctx context.Context, shopID int64, page, pageSize int) ([]model.Review, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Review{}).Where("barbershop_id = ?", shopID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var reviews []model.Review
	err := query.
		Preload("User").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error

	return reviews, total, err
}

// SummaryByShop 统计店铺评分（条数 + 总分），均分在服务层算
func (r *reviewRepository) SummaryByShop(ctx context.Context, shopID int64) (*RatingSummary, error) {
	var summary RatingSummary
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Select("COUNT(*) as count, COALESCE(SUM(rating), 0) as sum").
		Where("barbershop_id = ?", shopID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Delete 删除评价（软删除）
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}
