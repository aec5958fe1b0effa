package service

import (
	"context"
	"errors"
	"log"
	"time"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
)

// ==================== BookingService 预约服务 ====================

// BookingNotifier 预约事件通知
// 由 tgbot 实现；通知失败只记日志，不影响主流程
type BookingNotifier interface {
	NotifyNewBooking(booking *model.Booking)
	NotifyStatusChange(booking *model.Booking)
}

// BookingService 预约服务
type BookingService struct {
	bookingRepo repository.BookingRepository
	shopRepo    repository.BarbershopRepository
	notifier    BookingNotifier
}

// NewBookingService 创建预约服务，notifier 可为 nil（测试/bot 未配置）
func NewBookingService(bookingRepo repository.BookingRepository, shopRepo repository.BarbershopRepository, notifier BookingNotifier) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		shopRepo:    shopRepo,
		notifier:    notifier,
	}
}

// CreateBooking 创建预约
func (s *BookingService) CreateBooking(ctx context.Context, user *model.User, req *dto.CreateBookingRequest) (*dto.BookingInfo, error) {
	shop, err := s.shopRepo.GetByID(ctx, req.BarbershopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}

	if req.BookingAt.Before(time.Now()) {
		return nil, ErrBookingInPast
	}

	customerName := req.CustomerName
	if customerName == "" {
		customerName = user.FirstName
	}

	booking := &model.Booking{
		BarbershopID:  req.BarbershopID,
		UserID:        user.ID,
		Service:       req.Service,
		BookingAt:     req.BookingAt,
		Note:          req.Note,
		CustomerName:  customerName,
		CustomerPhone: req.CustomerPhone,
		Status:        model.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	booking.User = user
	booking.Barbershop = shop
	if s.notifier != nil {
		s.notifier.NotifyNewBooking(booking)
	}

	return toBookingInfo(booking), nil
}

// GetBooking 获取预约详情
// 只有预约人、店铺管理方和管理员可见
func (s *BookingService) GetBooking(ctx context.Context, actor *model.User, id int64) (*dto.BookingInfo, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !s.canSeeBooking(actor, booking) {
		return nil, ErrForbidden
	}
	return toBookingInfo(booking), nil
}

// ListMyBookings 我的预约
func (s *BookingService) ListMyBookings(ctx context.Context, userID int64, req *dto.BookingListRequest) (*dto.BookingListResponse, error) {
	bookings, total, err := s.bookingRepo.ListByUser(ctx, userID, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return toBookingList(bookings, total), nil
}

// ListShopBookings 店铺预约（店铺管理方 / 管理员）
func (s *BookingService) ListShopBookings(ctx context.Context, actor *model.User, shopID int64, req *dto.BookingListRequest) (*dto.BookingListResponse, error) {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, ErrShopNotFound
	}
	if !canManageShop(actor, shop) {
		return nil, ErrForbidden
	}

	bookings, total, err := s.bookingRepo.ListByShop(ctx, shopID, req.Status, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return toBookingList(bookings, total), nil
}

// ListAllBookings 全量预约列表，管理员路由专用
func (s *BookingService) ListAllBookings(ctx context.Context, req *dto.BookingListRequest) (*dto.BookingListResponse, error) {
	bookings, total, err := s.bookingRepo.ListAll(ctx, req.Status, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}
	return toBookingList(bookings, total), nil
}

// AcceptBooking 接受预约
func (s *BookingService) AcceptBooking(ctx context.Context, actor *model.User, id int64) (*dto.BookingInfo, error) {
	return s.transition(ctx, actor, id, model.BookingStatusAccepted)
}

// RejectBooking 拒绝预约
func (s *BookingService) RejectBooking(ctx context.Context, actor *model.User, id int64) (*dto.BookingInfo, error) {
	return s.transition(ctx, actor, id, model.BookingStatusRejected)
}

// transition pending -> accepted/rejected
// 条件更新扛并发：状态已变时报 ErrInvalidStatusChange
func (s *BookingService) transition(ctx context.Context, actor *model.User, id int64, to string) (*dto.BookingInfo, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if booking.Barbershop == nil || !canManageShop(actor, booking.Barbershop) {
		return nil, ErrForbidden
	}

	if booking.IsTerminal() {
		return nil, ErrInvalidStatusChange
	}

	ok, err := s.bookingRepo.UpdateStatus(ctx, id, model.BookingStatusPending, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidStatusChange
	}

	booking.Status = to
	if s.notifier != nil {
		s.notifier.NotifyStatusChange(booking)
	}

	return toBookingInfo(booking), nil
}

// ExpireStaleBookings 过期清理，后台任务调用
func (s *BookingService) ExpireStaleBookings(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	affected, err := s.bookingRepo.ExpirePendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		log.Printf("预约过期清理: %d 条 pending 置为 expired", affected)
	}
	return affected, nil
}

// ==================== 辅助方法 ====================

func (s *BookingService) canSeeBooking(actor *model.User, booking *model.Booking) bool {
	if actor == nil {
		return false
	}
	if booking.UserID == actor.ID {
		return true
	}
	if booking.Barbershop != nil {
		return canManageShop(actor, booking.Barbershop)
	}
	return actor.IsAdmin()
}

func toBookingInfo(booking *model.Booking) *dto.BookingInfo {
	info := &dto.BookingInfo{
		ID:            booking.ID,
		BarbershopID:  booking.BarbershopID,
		UserID:        booking.UserID,
		Service:       booking.Service,
		BookingAt:     booking.BookingAt,
		Note:          booking.Note,
		CustomerName:  booking.CustomerName,
		CustomerPhone: booking.CustomerPhone,
		Status:        booking.Status,
		CreatedAt:     booking.CreatedAt,
	}
	if booking.User != nil {
		info.User = ToUserInfo(booking.User)
	}
	if booking.Barbershop != nil {
		info.Barbershop = ToBarbershopInfo(booking.Barbershop)
	}
	return info
}

func toBookingList(bookings []model.Booking, total int64) *dto.BookingListResponse {
	list := make([]*dto.BookingInfo, len(bookings))
	for i := range bookings {
		list[i] = toBookingInfo(&bookings[i])
	}
	return &dto.BookingListResponse{List: list, Total: total}
}

// ==================== 错误定义 ====================

var (
	ErrBookingNotFound     = errors.New("预约不存在")
	ErrBookingInPast       = errors.New("预约时间不能早于当前时间")
	ErrInvalidStatusChange = errors.New("预约状态不允许此变更")
)
