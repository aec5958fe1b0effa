package repository

import (
	"context"
	"testing"

	"github.com/lib/pq"

	"cutspace_v1_202509/internal/model"
)

func TestBarbershopRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBarbershopRepository(db)
	ctx := context.Background()

	shop := &model.Barbershop{
		Name:     "CutSpace Chilonzor",
		Address:  "Chilonzor 9, Tashkent",
		Phone:    "+998712001122",
		Services: pq.StringArray{"Soch olish", "Soqol olish"},
		OwnerID:  1,
	}

	if err := repo.Create(ctx, shop); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("店铺应该存在")
	}
	if len(found.Services) != 2 || found.Services[0] != "Soch olish" {
		t.Errorf("Services = %v", found.Services)
	}
}

func TestBarbershopRepo_UpdateRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBarbershopRepository(db)
	ctx := context.Background()

	shop := &model.Barbershop{Name: "CutSpace Yunusobod"}
	repo.Create(ctx, shop)

	if err := repo.UpdateRating(ctx, shop.ID, 4.3, 12); err != nil {
		t.Fatalf("UpdateRating() error = %v", err)
	}

	found, _ := repo.GetByID(ctx, shop.ID)
	if found.Rating != 4.3 || found.ReviewCount != 12 {
		t.Errorf("rating = %v count = %d, want 4.3/12", found.Rating, found.ReviewCount)
	}
}

func TestBarbershopRepo_List_KeywordAndOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBarbershopRepository(db)
	ctx := context.Background()

	shops := []*model.Barbershop{
		{Name: "CutSpace Chilonzor", Rating: 3.5},
		{Name: "CutSpace Yunusobod", Rating: 4.8},
		{Name: "Boshqa sartaroshxona", Rating: 5.0},
	}
	for _, s := range shops {
		repo.Create(ctx, s)
	}

	list, total, err := repo.List(ctx, BarbershopFilter{Keyword: "CutSpace"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	// 评分高的在前
	if list[0].Name != "CutSpace Yunusobod" {
		t.Errorf("第一条 = %s, want CutSpace Yunusobod", list[0].Name)
	}
}

func TestBarbershopRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBarbershopRepository(db)
	ctx := context.Background()

	shop := &model.Barbershop{Name: "Yopilgan"}
	repo.Create(ctx, shop)

	if err := repo.Delete(ctx, shop.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, err := repo.GetByID(ctx, shop.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found != nil {
		t.Errorf("软删除后应查不到, got %+v", found)
	}
}
