package service

import (
	"context"
	"testing"

	"cutspace_v1_202509/internal/api/dto"
	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
)

func setupShopService(t *testing.T) (*BarbershopService, repository.UserRepository) {
	t.Helper()
	db := setupSvcTestDB(t)
	return NewBarbershopService(
		repository.NewBarbershopRepository(db),
		repository.NewUserRepository(db),
	), repository.NewUserRepository(db)
}

func TestBarbershopService_CreateWithOwner(t *testing.T) {
	svc, userRepo := setupShopService(t)
	ctx := context.Background()

	owner := &model.User{TelegramID: 42, FirstName: "Bobur", Role: model.RoleCustomer}
	userRepo.Create(ctx, owner)

	info, err := svc.CreateShop(ctx, &dto.CreateBarbershopRequest{
		Name:     "CutSpace Chilonzor",
		Services: []string{"Soch olish", "Soqol olish"},
		OwnerID:  owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateShop() error = %v", err)
	}
	if len(info.Services) != 2 {
		t.Errorf("services = %v", info.Services)
	}

	// owner 被提升为 barber 并绑定新店
	found, _ := userRepo.GetByID(ctx, owner.ID)
	if found.Role != model.RoleBarber || found.BarbershopID != info.ID {
		t.Errorf("owner = %+v, want barber 绑定店铺 %d", found, info.ID)
	}
}

func TestBarbershopService_CreateOwnerNotFound(t *testing.T) {
	svc, _ := setupShopService(t)

	_, err := svc.CreateShop(context.Background(), &dto.CreateBarbershopRequest{
		Name:    "CutSpace",
		OwnerID: 999,
	})
	if err != ErrUserNotFound {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestBarbershopService_UpdatePermissions(t *testing.T) {
	svc, userRepo := setupShopService(t)
	ctx := context.Background()

	owner := &model.User{TelegramID: 1, Role: model.RoleCustomer}
	stranger := &model.User{TelegramID: 2, Role: model.RoleCustomer}
	admin := &model.User{TelegramID: 3, Role: model.RoleAdmin}
	for _, u := range []*model.User{owner, stranger, admin} {
		userRepo.Create(ctx, u)
	}

	info, err := svc.CreateShop(ctx, &dto.CreateBarbershopRequest{Name: "CutSpace", OwnerID: owner.ID})
	if err != nil {
		t.Fatalf("CreateShop() error = %v", err)
	}
	// 重新读 owner，CreateShop 已把它提为 barber
	owner, _ = userRepo.GetByID(ctx, owner.ID)

	newAddr := "Chilonzor 9"
	if _, err := svc.UpdateShop(ctx, stranger, info.ID, &dto.UpdateBarbershopRequest{Address: &newAddr}); err != ErrForbidden {
		t.Errorf("err = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateShop(ctx, owner, info.ID, &dto.UpdateBarbershopRequest{Address: &newAddr})
	if err != nil {
		t.Fatalf("owner UpdateShop() error = %v", err)
	}
	if updated.Address != "Chilonzor 9" {
		t.Errorf("address = %s", updated.Address)
	}

	newName := "CutSpace 2"
	if _, err := svc.UpdateShop(ctx, admin, info.ID, &dto.UpdateBarbershopRequest{Name: newName}); err != nil {
		t.Errorf("admin UpdateShop() error = %v", err)
	}
}

func TestBarbershopService_GetAndDeleteNotFound(t *testing.T) {
	svc, _ := setupShopService(t)
	ctx := context.Background()

	if _, err := svc.GetShop(ctx, 999); err != ErrShopNotFound {
		t.Errorf("err = %v, want ErrShopNotFound", err)
	}
	if err := svc.DeleteShop(ctx, 999); err != ErrShopNotFound {
		t.Errorf("err = %v, want ErrShopNotFound", err)
	}
}

func TestBarbershopService_List(t *testing.T) {
	svc, _ := setupShopService(t)
	ctx := context.Background()

	svc.CreateShop(ctx, &dto.CreateBarbershopRequest{Name: "CutSpace Chilonzor"})
	svc.CreateShop(ctx, &dto.CreateBarbershopRequest{Name: "CutSpace Yunusobod"})

	resp, err := svc.ListShops(ctx, &dto.BarbershopListRequest{})
	if err != nil {
		t.Fatalf("ListShops() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}
