package service

import (
	"context"
	"errors"
	"math"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
)

// ==================== ReviewService 评价服务 ====================

// ReviewService 评价服务
type ReviewService struct {
	reviewRepo repository.ReviewRepository
	shopRepo   repository.BarbershopRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, shopRepo repository.BarbershopRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, shopRepo: shopRepo}
}

// CreateReview 创建评价并重算店铺均分
func (s *ReviewService) CreateReview(ctx context.Context, userID int64, req *dto.CreateReviewRequest) (*dto.ReviewInfo, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	shop, err := s.shopRepo.GetByID(ctx, req.BarbershopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	review := &model.Review{
		BarbershopID: req.BarbershopID,
		UserID:       userID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.RecalcRating(ctx, req.BarbershopID); err != nil {
		return nil, err
	}

	return toReviewInfo(review), nil
}

// ListReviews 店铺评价列表
func (s *ReviewService) ListReviews(ctx context.Context, shopID int64, req *dto.ReviewListRequest) (*dto.ReviewListResponse, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	reviews, total, err := s.reviewRepo.ListByShop(ctx, shopID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.ReviewInfo, len(reviews))
	for i := range reviews {
		list[i] = toReviewInfo(&reviews[i])
	}

	return &dto.ReviewListResponse{
		List:        list,
		Total:       total,
		Rating:      shop.Rating,
		ReviewCount: shop.ReviewCount,
	}, nil
}

// RecalcRating 重算并写回店铺均分（保留 1 位小数）
func (s *ReviewService) RecalcRating(ctx context.Context, shopID int64) error {
	summary, err := s.reviewRepo.SummaryByShop(ctx, shopID)
	if err != nil {
		return err
	}

	var rating float64
	if summary.Count > 0 {
		rating = math.Round(float64(summary.Sum)/float64(summary.Count)*10) / 10
	}

	return s.shopRepo.UpdateRating(ctx, shopID, rating, int(summary.Count))
}

// ==================== 辅助方法 ====================

func toReviewInfo(review *model.Review) *dto.ReviewInfo {
	info := &dto.ReviewInfo{
		ID:           review.ID,
		BarbershopID: review.BarbershopID,
		UserID:       review.UserID,
		Rating:       review.Rating,
		Comment:      review.Comment,
		CreatedAt:    review.CreatedAt,
	}
	if review.User != nil {
		info.User = ToUserInfo(review.User)
	}
	return info
}

// ==================== 错误定义 ====================

var ErrInvalidRating = errors.New("评分必须在 1-5 之间")
