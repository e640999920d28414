package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// AddItemCommand 添加商品到购物车命令
type AddItemCommand struct {
	OwnerID   string
	ProductID string
	Name      string
	Image     string
	Size      string
	Color     string
	Price     decimal.Decimal
	Quantity  int
}

// UpdateQuantityCommand 更新行项目数量命令
type UpdateQuantityCommand struct {
	OwnerID   string
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// RemoveItemCommand 从购物车移除商品命令
type RemoveItemCommand struct {
	OwnerID   string
	ProductID string
}

// ClearCartCommand 清空购物车命令
type ClearCartCommand struct {
	OwnerID string
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.CartRepository
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddItem 处理添加商品到购物车
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	cart, err := s.repo.GetByOwnerID(ctx, cmd.OwnerID)
	if err != nil && !errors.Is(err, domain.ErrCartNotFound) {
		return err
	}

	if errors.Is(err, domain.ErrCartNotFound) {
		cart = &domain.Cart{OwnerID: cmd.OwnerID}
		if err := s.repo.Save(ctx, cart); err != nil {
			return err
		}

		event := domain.CartCreatedEvent{
			CartID:    cart.ID,
			OwnerID:   cart.OwnerID,
			Timestamp: time.Now(),
		}
		s.publisher.Publish(ctx, "cart.created", cmd.OwnerID, event)
	}

	if err := cart.AddItem(domain.CartItem{
		ProductID: cmd.ProductID,
		Name:      cmd.Name,
		Image:     cmd.Image,
		Size:      cmd.Size,
		Color:     cmd.Color,
		Price:     cmd.Price,
		Quantity:  cmd.Quantity,
	}); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartItemAddedEvent{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		ProductID: cmd.ProductID,
		Size:      cmd.Size,
		Color:     cmd.Color,
		Quantity:  cmd.Quantity,
		Price:     cmd.Price.String(),
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.added", cmd.OwnerID, event)

	return nil
}

// UpdateQuantity 处理更新行项目数量，数量 <= 0 时等价于移除该行
func (s *CartCommandService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) error {
	cart, err := s.repo.GetByOwnerID(ctx, cmd.OwnerID)
	if err != nil {
		return err
	}

	// 行不存在时不落库也不发事件
	if !cart.UpdateQuantity(cmd.ProductID, cmd.Size, cmd.Color, cmd.Quantity) {
		return nil
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartQuantityUpdatedEvent{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		ProductID: cmd.ProductID,
		Size:      cmd.Size,
		Color:     cmd.Color,
		Quantity:  cmd.Quantity,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.quantity.updated", cmd.OwnerID, event)

	return nil
}

// RemoveItem 处理从购物车移除商品（移除该商品的全部变体行）
func (s *CartCommandService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) error {
	cart, err := s.repo.GetByOwnerID(ctx, cmd.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}

	cart.RemoveItem(cmd.ProductID)
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	event := domain.CartItemRemovedEvent{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		ProductID: cmd.ProductID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.item.removed", cmd.OwnerID, event)

	return nil
}

// ClearCart 处理清空购物车
func (s *CartCommandService) ClearCart(ctx context.Context, cmd ClearCartCommand) error {
	cart, err := s.repo.GetByOwnerID(ctx, cmd.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.Delete(ctx, cmd.OwnerID); err != nil {
		return err
	}

	event := domain.CartClearedEvent{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "cart.cleared", cmd.OwnerID, event)

	return nil
}
