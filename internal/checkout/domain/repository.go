package domain

import "context"

type OrderRepository interface {
	// Create 持久化订单；订单带有优惠券时在同一事务中消费券的使用次数
	Create(ctx context.Context, order *Order) error
	GetByNumber(ctx context.Context, ownerID, orderNumber string) (*Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)
}

// EventPublisher 结算领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
