package domain

import "time"

// WishlistItemAddedEvent 心愿单添加商品事件
type WishlistItemAddedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WishlistItemRemovedEvent 心愿单移除商品事件
type WishlistItemRemovedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}
