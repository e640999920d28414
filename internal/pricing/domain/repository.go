package domain

import "context"

type CouponRepository interface {
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}
