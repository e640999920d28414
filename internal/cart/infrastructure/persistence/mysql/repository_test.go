package mysql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cart.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Cart{}, &domain.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func savedCart(t *testing.T, repo domain.CartRepository, ownerID string, items ...domain.CartItem) *domain.Cart {
	t.Helper()
	cart := &domain.Cart{OwnerID: ownerID, Items: items}
	if err := repo.Save(context.Background(), cart); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return cart
}

func line(productID string, qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: productID,
		Name:      "product " + productID,
		Price:     decimal.NewFromInt(10),
		Quantity:  qty,
	}
}

func TestCartRepositorySaveAndLoad(t *testing.T) {
	repo := NewCartRepository(testDB(t))
	ctx := context.Background()

	savedCart(t, repo, "u1", line("p1", 2), line("p2", 1))

	cart, err := repo.GetByOwnerID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByOwnerID: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(cart.Items))
	}
	if cart.ItemCount() != 3 {
		t.Errorf("ItemCount() = %d, want 3", cart.ItemCount())
	}
}

func TestCartRepositoryGetMissing(t *testing.T) {
	repo := NewCartRepository(testDB(t))

	_, err := repo.GetByOwnerID(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("GetByOwnerID() error = %v, want ErrCartNotFound", err)
	}
}

func TestCartRepositorySavePrunesRemovedLines(t *testing.T) {
	db := testDB(t)
	repo := NewCartRepository(db)
	ctx := context.Background()

	savedCart(t, repo, "u1", line("p1", 2), line("p2", 1))

	cart, err := repo.GetByOwnerID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByOwnerID: %v", err)
	}
	cart.RemoveItem("p1")
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := repo.GetByOwnerID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByOwnerID: %v", err)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].ProductID != "p2" {
		t.Errorf("expected only p2 to survive, got %+v", reloaded.Items)
	}

	// 被移除的行要真正离开表，而不是留下死行
	var rows int64
	if err := db.Unscoped().Model(&domain.CartItem{}).Where("cart_id = ?", cart.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 physical row, got %d", rows)
	}
}

func TestCartRepositoryDeleteAllowsRecreate(t *testing.T) {
	repo := NewCartRepository(testDB(t))
	ctx := context.Background()

	savedCart(t, repo, "u1", line("p1", 2))

	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByOwnerID(ctx, "u1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("GetByOwnerID() after delete error = %v, want ErrCartNotFound", err)
	}

	// 清空后同一归属者必须能重建购物车（owner_id 唯一索引不得被残留行占用）
	fresh := &domain.Cart{OwnerID: "u1"}
	if err := fresh.AddItem(line("p3", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := repo.Save(ctx, fresh); err != nil {
		t.Fatalf("Save after delete: %v", err)
	}

	cart, err := repo.GetByOwnerID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByOwnerID: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p3" {
		t.Errorf("expected rebuilt cart with p3, got %+v", cart.Items)
	}
}

func TestCartRepositoryDeleteMissingIsNoop(t *testing.T) {
	repo := NewCartRepository(testDB(t))

	if err := repo.Delete(context.Background(), "ghost"); err != nil {
		t.Errorf("Delete() on missing cart = %v, want nil", err)
	}
}
