package domain

import "time"

// CheckoutCompletedEvent 下单完成事件
type CheckoutCompletedEvent struct {
	OrderNumber string    `json:"order_number"`
	OwnerID     string    `json:"owner_id"`
	ItemCount   int       `json:"item_count"`
	Total       string    `json:"total"`
	CouponCode  string    `json:"coupon_code,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
