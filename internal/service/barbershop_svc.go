package service

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
)

// ==================== BarbershopService 店铺服务 ====================

// BarbershopService 店铺服务
type BarbershopService struct {
	shopRepo repository.BarbershopRepository
	userRepo repository.UserRepository
}

// NewBarbershopService 创建店铺服务
func NewBarbershopService(shopRepo repository.BarbershopRepository, userRepo repository.UserRepository) *BarbershopService {
	return &BarbershopService{shopRepo: shopRepo, userRepo: userRepo}
}

// CreateShop 创建店铺（管理员）
// 指定 owner 时顺带把 owner 提为 barber 并绑定到新店
func (s *BarbershopService) CreateShop(ctx context.Context, req *dto.CreateBarbershopRequest) (*dto.BarbershopInfo, error) {
	if req.OwnerID != 0 {
		owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner == nil {
			return nil, ErrUserNotFound
		}
	}

	shop := &model.Barbershop{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Services:    pq.StringArray(req.Services),
		Images:      pq.StringArray(req.Images),
		OwnerID:     req.OwnerID,
	}

	if err := s.shopRepo.Create(ctx, shop); err != nil {
		return nil, err
	}

	if req.OwnerID != 0 {
		if err := s.userRepo.UpdateRole(ctx, req.OwnerID, model.RoleBarber, shop.ID); err != nil {
			return nil, err
		}
	}

	return ToBarbershopInfo(shop), nil
}

// GetShop 获取店铺详情
func (s *BarbershopService) GetShop(ctx context.Context, id int64) (*dto.BarbershopInfo, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	return ToBarbershopInfo(shop), nil
}

// ListShops 店铺列表
func (s *BarbershopService) ListShops(ctx context.Context, req *dto.BarbershopListRequest) (*dto.BarbershopListResponse, error) {
	shops, total, err := s.shopRepo.List(ctx, repository.BarbershopFilter{
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	list := make([]*dto.BarbershopInfo, len(shops))
	for i := range shops {
		list[i] = ToBarbershopInfo(&shops[i])
	}
	return &dto.BarbershopListResponse{List: list, Total: total}, nil
}

// UpdateShop 更新店铺
// actor 必须是管理员或该店 owner
func (s *BarbershopService) UpdateShop(ctx context.Context, actor *model.User, id int64, req *dto.UpdateBarbershopRequest) (*dto.BarbershopInfo, error) {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	if !canManageShop(actor, shop) {
		return nil, ErrForbidden
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Services != nil {
		shop.Services = pq.StringArray(req.Services)
	}
	if req.Images != nil {
		shop.Images = pq.StringArray(req.Images)
	}

	if err := s.shopRepo.Update(ctx, shop); err != nil {
		return nil, err
	}
	return ToBarbershopInfo(shop), nil
}

// DeleteShop 删除店铺（管理员）
func (s *BarbershopService) DeleteShop(ctx context.Context, id int64) error {
	shop, err := s.shopRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if shop == nil {
		return ErrShopNotFound
	}
	return s.shopRepo.Delete(ctx, id)
}

// ==================== 辅助方法 ====================

// canManageShop 店铺管理权限：管理员 / owner / 绑定到该店的 barber
func canManageShop(actor *model.User, shop *model.Barbershop) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if shop.OwnerID != 0 && shop.OwnerID == actor.ID {
		return true
	}
	return actor.IsBarber() && actor.BarbershopID == shop.ID
}

// ToBarbershopInfo 转换为 DTO
func ToBarbershopInfo(shop *model.Barbershop) *dto.BarbershopInfo {
	return &dto.BarbershopInfo{
		ID:          shop.ID,
		Name:        shop.Name,
		Description: shop.Description,
		Address:     shop.Address,
		Phone:       shop.Phone,
		Services:    []string(shop.Services),
		Images:      []string(shop.Images),
		Rating:      shop.Rating,
		ReviewCount: shop.ReviewCount,
		OwnerID:     shop.OwnerID,
		CreatedAt:   shop.CreatedAt,
	}
}

// ==================== 错误定义 ====================

var ErrShopNotFound = errors.New("店铺不存在")
