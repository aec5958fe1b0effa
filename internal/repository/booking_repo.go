package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cutspace_v1_202509/internal/model"
)

// ==================== BookingRepository 预约仓库 ====================

// BookingRepository 预约仓库接口
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Booking, int64, error)
	ListByShop(ctx context.Context, shopID int64, status string, page, pageSize int) ([]model.Booking, int64, error)
	ListAll(ctx context.Context, status string, page, pageSize int) ([]model.Booking, int64, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ==================== 实现 ====================

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预约仓库
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create 创建预约
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 根据 ID 获取预约（带店铺和用户）
func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barbershop").
		First(&booking, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &booking, err
}

// Update 更新预约
func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateStatus 条件更新状态
// WHERE 带上旧状态，并发双击接受/拒绝时只有一个能成功，
// 返回 false 表示状态已经被别人改过
func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 用户的预约列表
func (r *bookingRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]model.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Booking{}).Where("user_id = ?", userID)

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

	var bookings []model.Booking
	err := query.
		Preload("Barbershop").
		Order("booking_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

// ListByShop 店铺的预约列表（可按状态筛选）
func (r *bookingRepository) ListByShop(ctx context.Context, shopID int64, status string, page, pageSize int) ([]model.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Booking{}).Where("barbershop_id = ?", shopID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

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

	var bookings []model.Booking
	err := query.
		Preload("User").
		Order("booking_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

// ListAll 全量预约列表（管理后台用，可按状态筛选）
func (r *bookingRepository) ListAll(ctx context.Context, status string, page, pageSize int) ([]model.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Booking{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

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

	var bookings []model.Booking
	err := query.
		Preload("User").
		Preload("Barbershop").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error

	return bookings, total, err
}

// ExpirePendingBefore 把超时未处理的 pending 预约批量置为 expired
// 后台任务定时调用，返回影响行数
func (r *bookingRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("status = ? AND created_at < ?", model.BookingStatusPending, cutoff).
		Update("status", model.BookingStatusExpired)
	return result.RowsAffected, result.Error
}
