package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/checkout/domain"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	orders domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(orders domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orders: orders}
}

// GetOrder 按订单号查询归属者的订单
func (s *OrderQueryService) GetOrder(ctx context.Context, ownerID, orderNumber string) (*domain.Order, error) {
	return s.orders.GetByNumber(ctx, ownerID, orderNumber)
}

// ListOrders 查询归属者的全部订单
func (s *OrderQueryService) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.orders.ListByOwner(ctx, ownerID)
}
