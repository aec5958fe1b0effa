package service

import (
	"context"
	"testing"
	"time"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
)

// fakeNotifier 记录通知调用
type fakeNotifier struct {
	newBookings   []*model.Booking
	statusChanges []*model.Booking
}

func (f *fakeNotifier) NotifyNewBooking(b *model.Booking)   { f.newBookings = append(f.newBookings, b) }
func (f *fakeNotifier) NotifyStatusChange(b *model.Booking) { f.statusChanges = append(f.statusChanges, b) }

type bookingFixture struct {
	svc      *BookingService
	notifier *fakeNotifier
	shop     *model.Barbershop
	customer *model.User
	barber   *model.User
	admin    *model.User
	stranger *model.User
}

func setupBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	db := setupSvcTestDB(t)
	ctx := context.Background()

	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewBarbershopRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	shop := &model.Barbershop{Name: "CutSpace Chilonzor"}
	if err := shopRepo.Create(ctx, shop); err != nil {
		t.Fatalf("创建店铺失败: %v", err)
	}

	customer := &model.User{TelegramID: 1, FirstName: "Ali", Role: model.RoleCustomer}
	barber := &model.User{TelegramID: 2, FirstName: "Bobur", Role: model.RoleBarber, BarbershopID: shop.ID}
	admin := &model.User{TelegramID: 3, FirstName: "Admin", Role: model.RoleAdmin}
	stranger := &model.User{TelegramID: 4, FirstName: "Sardor", Role: model.RoleCustomer}
	for _, u := range []*model.User{customer, barber, admin, stranger} {
		if err := userRepo.Create(ctx, u); err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
	}

	notifier := &fakeNotifier{}
	return &bookingFixture{
		svc:      NewBookingService(bookingRepo, shopRepo, notifier),
		notifier: notifier,
		shop:     shop,
		customer: customer,
		barber:   barber,
		admin:    admin,
		stranger: stranger,
	}
}

func (f *bookingFixture) createBooking(t *testing.T) *dto.BookingInfo {
	t.Helper()
	info, err := f.svc.CreateBooking(context.Background(), f.customer, &dto.CreateBookingRequest{
		BarbershopID:  f.shop.ID,
		Service:       "Soch olish",
		BookingAt:     time.Now().Add(24 * time.Hour),
		CustomerPhone: "+998901234567",
	})
	if err != nil {
		t.Fatalf("CreateBooking() error = %v", err)
	}
	return info
}

// ==================== 创建 ====================

func TestBookingService_Create(t *testing.T) {
	f := setupBookingFixture(t)

	info := f.createBooking(t)
	if info.Status != model.BookingStatusPending {
		t.Errorf("status = %s, want pending", info.Status)
	}
	// 姓名缺省取 Telegram 资料
	if info.CustomerName != "Ali" {
		t.Errorf("customer_name = %s, want Ali", info.CustomerName)
	}
	if len(f.notifier.newBookings) != 1 {
		t.Errorf("新预约通知次数 = %d, want 1", len(f.notifier.newBookings))
	}
}

func TestBookingService_Create_PastTime(t *testing.T) {
	f := setupBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.customer, &dto.CreateBookingRequest{
		BarbershopID: f.shop.ID,
		Service:      "Soch olish",
		BookingAt:    time.Now().Add(-time.Hour),
	})
	if err != ErrBookingInPast {
		t.Errorf("err = %v, want ErrBookingInPast", err)
	}
}

func TestBookingService_Create_ShopNotFound(t *testing.T) {
	f := setupBookingFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), f.customer, &dto.CreateBookingRequest{
		BarbershopID: 999,
		Service:      "Soch olish",
		BookingAt:    time.Now().Add(time.Hour),
	})
	if err != ErrShopNotFound {
		t.Errorf("err = %v, want ErrShopNotFound", err)
	}
}

// ==================== 状态流转 ====================

func TestBookingService_AcceptByBarber(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	info := f.createBooking(t)

	accepted, err := f.svc.AcceptBooking(ctx, f.barber, info.ID)
	if err != nil {
		t.Fatalf("AcceptBooking() error = %v", err)
	}
	if accepted.Status != model.BookingStatusAccepted {
		t.Errorf("status = %s, want accepted", accepted.Status)
	}
	if len(f.notifier.statusChanges) != 1 {
		t.Errorf("状态通知次数 = %d, want 1", len(f.notifier.statusChanges))
	}
}

func TestBookingService_RejectByAdmin(t *testing.T) {
	f := setupBookingFixture(t)

	info := f.createBooking(t)

	rejected, err := f.svc.RejectBooking(context.Background(), f.admin, info.ID)
	if err != nil {
		t.Fatalf("RejectBooking() error = %v", err)
	}
	if rejected.Status != model.BookingStatusRejected {
		t.Errorf("status = %s, want rejected", rejected.Status)
	}
}

func TestBookingService_TransitionForbiddenForStranger(t *testing.T) {
	f := setupBookingFixture(t)

	info := f.createBooking(t)

	if _, err := f.svc.AcceptBooking(context.Background(), f.stranger, info.ID); err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
	// 预约人自己也不能接受自己的单
	if _, err := f.svc.AcceptBooking(context.Background(), f.customer, info.ID); err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestBookingService_TerminalStateIsFinal(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	info := f.createBooking(t)

	if _, err := f.svc.AcceptBooking(ctx, f.barber, info.ID); err != nil {
		t.Fatalf("AcceptBooking() error = %v", err)
	}

	// accepted 之后不允许再拒绝或再接受
	if _, err := f.svc.RejectBooking(ctx, f.barber, info.ID); err != ErrInvalidStatusChange {
		t.Errorf("err = %v, want ErrInvalidStatusChange", err)
	}
	if _, err := f.svc.AcceptBooking(ctx, f.admin, info.ID); err != ErrInvalidStatusChange {
		t.Errorf("err = %v, want ErrInvalidStatusChange", err)
	}
}

// ==================== 查询 ====================

func TestBookingService_GetBooking_Visibility(t *testing.T) {
	f := setupBookingFixture(t)
	ctx := context.Background()

	info := f.createBooking(t)

	for _, actor := range []*model.User{f.customer, f.barber, f.admin} {
		if _, err := f.svc.GetBooking(ctx, actor, info.ID); err != nil {
			t.Errorf("%s 应可见预约: %v", actor.FirstName, err)
		}
	}
	if _, err := f.svc.GetBooking(ctx, f.stranger, info.ID); err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func TestBookingService_ListShopBookings_Forbidden(t *testing.T) {
	f := setupBookingFixture(t)

	_, err := f.svc.ListShopBookings(context.Background(), f.stranger, f.shop.ID, &dto.BookingListRequest{})
	if err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}
