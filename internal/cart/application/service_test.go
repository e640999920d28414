package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

type fakeCartRepo struct {
	getByOwnerID func(ctx context.Context, ownerID string) (*domain.Cart, error)
	save         func(ctx context.Context, cart *domain.Cart) error
	delete       func(ctx context.Context, ownerID string) error
}

func (f *fakeCartRepo) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return f.getByOwnerID(ctx, ownerID)
}

func (f *fakeCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	return f.save(ctx, cart)
}

func (f *fakeCartRepo) Delete(ctx context.Context, ownerID string) error {
	return f.delete(ctx, ownerID)
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

// memoryCartRepo 在内存中按归属 ID 存放购物车
func memoryCartRepo() (*fakeCartRepo, map[string]*domain.Cart) {
	carts := make(map[string]*domain.Cart)
	repo := &fakeCartRepo{
		getByOwnerID: func(ctx context.Context, ownerID string) (*domain.Cart, error) {
			if cart, ok := carts[ownerID]; ok {
				return cart, nil
			}
			return nil, domain.ErrCartNotFound
		},
		save: func(ctx context.Context, cart *domain.Cart) error {
			carts[cart.OwnerID] = cart
			return nil
		},
		delete: func(ctx context.Context, ownerID string) error {
			delete(carts, ownerID)
			return nil
		},
	}
	return repo, carts
}

func TestAddItemCreatesCartOnFirstAdd(t *testing.T) {
	repo, carts := memoryCartRepo()
	publisher := &recordingPublisher{}
	svc := NewCartApplicationService(repo, publisher)

	err := svc.AddItem(context.Background(), AddItemCommand{
		OwnerID:   "u1",
		ProductID: "p1",
		Name:      "widget",
		Price:     decimal.NewFromInt(10),
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart, ok := carts["u1"]
	if !ok {
		t.Fatal("expected cart to be created")
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("unexpected cart contents: %+v", cart.Items)
	}

	wantTopics := []string{"cart.created", "cart.item.added"}
	if len(publisher.topics) != len(wantTopics) {
		t.Fatalf("published topics = %v, want %v", publisher.topics, wantTopics)
	}
	for i, topic := range wantTopics {
		if publisher.topics[i] != topic {
			t.Errorf("topic[%d] = %s, want %s", i, publisher.topics[i], topic)
		}
	}
}

func TestAddItemRejectsInvalidCommand(t *testing.T) {
	repo, carts := memoryCartRepo()
	svc := NewCartApplicationService(repo, &recordingPublisher{})

	err := svc.AddItem(context.Background(), AddItemCommand{
		OwnerID:   "u1",
		ProductID: "p1",
		Quantity:  0,
	})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Errorf("AddItem() error = %v, want ErrInvalidQuantity", err)
	}
	if cart, ok := carts["u1"]; ok && len(cart.Items) != 0 {
		t.Errorf("rejected command must not add items: %+v", cart.Items)
	}
}

func TestUpdateQuantityRemovesLineAtZero(t *testing.T) {
	repo, carts := memoryCartRepo()
	svc := NewCartApplicationService(repo, &recordingPublisher{})
	ctx := context.Background()

	if err := svc.AddItem(ctx, AddItemCommand{
		OwnerID: "u1", ProductID: "p1", Price: decimal.NewFromInt(10), Quantity: 2,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.UpdateQuantity(ctx, UpdateQuantityCommand{
		OwnerID: "u1", ProductID: "p1", Quantity: 0,
	}); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	if len(carts["u1"].Items) != 0 {
		t.Errorf("expected line removed, got %+v", carts["u1"].Items)
	}
}

func TestUpdateQuantityUnknownLinePublishesNothing(t *testing.T) {
	repo, carts := memoryCartRepo()
	publisher := &recordingPublisher{}
	svc := NewCartApplicationService(repo, publisher)
	ctx := context.Background()

	if err := svc.AddItem(ctx, AddItemCommand{
		OwnerID: "u1", ProductID: "p1", Price: decimal.NewFromInt(10), Quantity: 2,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	published := len(publisher.topics)

	if err := svc.UpdateQuantity(ctx, UpdateQuantityCommand{
		OwnerID: "u1", ProductID: "ghost-product", Quantity: 5,
	}); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}

	// 未命中任何行：不落库、不发事件
	if len(publisher.topics) != published {
		t.Errorf("no-op update must not publish events, got %v", publisher.topics[published:])
	}
	if carts["u1"].Items[0].Quantity != 2 {
		t.Errorf("cart must be unchanged, got %+v", carts["u1"].Items)
	}
}

func TestUpdateQuantityUnknownCart(t *testing.T) {
	repo, _ := memoryCartRepo()
	svc := NewCartApplicationService(repo, &recordingPublisher{})

	err := svc.UpdateQuantity(context.Background(), UpdateQuantityCommand{
		OwnerID: "ghost", ProductID: "p1", Quantity: 3,
	})
	if !errors.Is(err, domain.ErrCartNotFound) {
		t.Errorf("UpdateQuantity() error = %v, want ErrCartNotFound", err)
	}
}

func TestRemoveItemOnMissingCartIsNoop(t *testing.T) {
	repo, _ := memoryCartRepo()
	publisher := &recordingPublisher{}
	svc := NewCartApplicationService(repo, publisher)

	if err := svc.RemoveItem(context.Background(), RemoveItemCommand{
		OwnerID: "ghost", ProductID: "p1",
	}); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(publisher.topics) != 0 {
		t.Errorf("no-op removal must not publish events, got %v", publisher.topics)
	}
}

func TestClearCartDeletesAndPublishes(t *testing.T) {
	repo, carts := memoryCartRepo()
	publisher := &recordingPublisher{}
	svc := NewCartApplicationService(repo, publisher)
	ctx := context.Background()

	if err := svc.AddItem(ctx, AddItemCommand{
		OwnerID: "u1", ProductID: "p1", Price: decimal.NewFromInt(10), Quantity: 1,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := svc.ClearCart(ctx, ClearCartCommand{OwnerID: "u1"}); err != nil {
		t.Fatalf("ClearCart: %v", err)
	}

	if _, ok := carts["u1"]; ok {
		t.Error("expected cart to be deleted")
	}
	last := publisher.topics[len(publisher.topics)-1]
	if last != "cart.cleared" {
		t.Errorf("last topic = %s, want cart.cleared", last)
	}
}

func TestGetCartReturnsEmptyCartWhenMissing(t *testing.T) {
	repo, _ := memoryCartRepo()
	svc := NewCartApplicationService(repo, &recordingPublisher{})

	cart, err := svc.GetCart(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if cart.OwnerID != "ghost" || len(cart.Items) != 0 {
		t.Errorf("expected empty cart for ghost, got %+v", cart)
	}
}
