package domain

import "context"

type CartRepository interface {
	GetByOwnerID(ctx context.Context, ownerID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, ownerID string) error
}

// EventPublisher 购物车领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
