package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is not active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrMinOrderNotMet  = errors.New("order total below coupon minimum")
	ErrUnknownDiscount = errors.New("unknown discount type")
)

// DiscountType 优惠类型
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	gorm.Model
	Code          string          `gorm:"column:code;type:varchar(64);uniqueIndex;not null"`
	DiscountType  DiscountType    `gorm:"column:discount_type;type:varchar(20);not null"`
	DiscountValue decimal.Decimal `gorm:"column:discount_value;type:decimal(20,2);not null"`
	MinOrderValue decimal.Decimal `gorm:"column:min_order_value;type:decimal(20,2)"`
	ExpiresAt     *time.Time      `gorm:"column:expires_at"`
	UsageLimit    int             `gorm:"column:usage_limit"`
	UsedCount     int             `gorm:"column:used_count;not null;default:0"`
	Active        bool            `gorm:"column:active;not null;default:true"`
}

func (Coupon) TableName() string { return "coupons" }

// Validate 校验优惠券在给定小计下是否可用
func (c *Coupon) Validate(subtotal decimal.Decimal, now time.Time) error {
	if !c.Active {
		return ErrCouponInactive
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return ErrCouponExpired
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return ErrCouponExhausted
	}
	if c.MinOrderValue.IsPositive() && subtotal.LessThan(c.MinOrderValue) {
		return ErrMinOrderNotMet
	}
	if c.DiscountType != DiscountPercentage && c.DiscountType != DiscountFixed {
		return ErrUnknownDiscount
	}
	return nil
}

// DiscountFor 计算该券对给定小计产生的优惠金额
func (c *Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	return DiscountAmount(c.DiscountType, c.DiscountValue, subtotal)
}
