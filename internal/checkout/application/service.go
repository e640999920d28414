package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/checkout/domain"
)

// CheckoutApplicationService 结算服务门面，整合命令服务和查询服务
type CheckoutApplicationService struct {
	commandService *CheckoutCommandService
	queryService   *OrderQueryService
}

// NewCheckoutApplicationService 创建结算服务门面实例
func NewCheckoutApplicationService(
	orders domain.OrderRepository,
	carts CartService,
	pricer Pricer,
	publisher domain.EventPublisher,
) *CheckoutApplicationService {
	return &CheckoutApplicationService{
		commandService: NewCheckoutCommandService(orders, carts, pricer, publisher),
		queryService:   NewOrderQueryService(orders),
	}
}

// Checkout 处理下单
func (s *CheckoutApplicationService) Checkout(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	return s.commandService.Checkout(ctx, cmd)
}

// GetOrder 按订单号查询订单
func (s *CheckoutApplicationService) GetOrder(ctx context.Context, ownerID, orderNumber string) (*domain.Order, error) {
	return s.queryService.GetOrder(ctx, ownerID, orderNumber)
}

// ListOrders 查询归属者的全部订单
func (s *CheckoutApplicationService) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.queryService.ListOrders(ctx, ownerID)
}
