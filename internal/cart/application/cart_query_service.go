package application

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo domain.CartRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(repo domain.CartRepository) *CartQueryService {
	return &CartQueryService{repo: repo}
}

// GetCart 根据归属 ID 获取购物车，不存在时返回空购物车
func (s *CartQueryService) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByOwnerID(ctx, ownerID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return &domain.Cart{OwnerID: ownerID}, nil
	}
	return cart, err
}

// GetCartSubtotal 获取购物车小计，每次调用重新推导
func (s *CartQueryService) GetCartSubtotal(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Subtotal(), nil
}

// GetCartItemCount 获取购物车商品总数量
func (s *CartQueryService) GetCartItemCount(ctx context.Context, ownerID string) (int, error) {
	cart, err := s.GetCart(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}
