package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	repo domain.CartRepository,
	publisher domain.EventPublisher,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: NewCartCommandService(repo, publisher),
		queryService:   NewCartQueryService(repo),
	}
}

// GetCart 根据归属 ID 获取购物车信息
func (s *CartApplicationService) GetCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	return s.queryService.GetCart(ctx, ownerID)
}

// AddItem 处理添加商品到购物车
func (s *CartApplicationService) AddItem(ctx context.Context, cmd AddItemCommand) error {
	return s.commandService.AddItem(ctx, cmd)
}

// UpdateQuantity 处理更新行项目数量
func (s *CartApplicationService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) error {
	return s.commandService.UpdateQuantity(ctx, cmd)
}

// RemoveItem 处理从购物车移除商品
func (s *CartApplicationService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) error {
	return s.commandService.RemoveItem(ctx, cmd)
}

// ClearCart 处理清空购物车
func (s *CartApplicationService) ClearCart(ctx context.Context, cmd ClearCartCommand) error {
	return s.commandService.ClearCart(ctx, cmd)
}
