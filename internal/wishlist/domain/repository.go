package domain

import "context"

type WishlistRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]WishlistEntry, error)
	Add(ctx context.Context, entry *WishlistEntry) error
	Remove(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)
	Count(ctx context.Context, userID string) (int64, error)
}

// MembershipCache 商品 ID 成员集缓存，提供 O(1) 的 in-wishlist 判断
type MembershipCache interface {
	Rebuild(ctx context.Context, userID string, productIDs []string) error
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Contains(ctx context.Context, userID, productID string) (bool, error)
	Count(ctx context.Context, userID string) (int64, error)
	Clear(ctx context.Context, userID string) error
}

// EventPublisher 心愿单领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
