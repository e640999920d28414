package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestSubtotalAndItemCount(t *testing.T) {
	lines := []Line{
		{Price: d(10), Quantity: 2},
		{Price: d(7.50), Quantity: 2},
	}

	if got := Subtotal(lines); !got.Equal(d(35)) {
		t.Errorf("Subtotal() = %s, want 35", got)
	}
	if got := ItemCount(lines); got != 4 {
		t.Errorf("ItemCount() = %d, want 4", got)
	}
	if got := Subtotal(nil); !got.IsZero() {
		t.Errorf("Subtotal(nil) = %s, want 0", got)
	}
}

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name         string
		discountType DiscountType
		value        decimal.Decimal
		subtotal     decimal.Decimal
		want         decimal.Decimal
	}{
		{"percentage 10 on 100", DiscountPercentage, d(10), d(100), d(10)},
		{"percentage 50 on 35", DiscountPercentage, d(50), d(35), d(17.5)},
		{"fixed below subtotal", DiscountFixed, d(20), d(100), d(20)},
		{"fixed capped at subtotal", DiscountFixed, d(200), d(100), d(100)},
		{"unknown type", DiscountType("bogus"), d(10), d(100), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountAmount(tt.discountType, tt.value, tt.subtotal)
			if !got.Equal(tt.want) {
				t.Errorf("DiscountAmount() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		subtotal decimal.Decimal
		discount decimal.Decimal
		taxRate  decimal.Decimal
		want     decimal.Decimal
	}{
		{"no discount no tax", d(100), decimal.Zero, decimal.Zero, d(100)},
		{"seven percent tax", d(100), decimal.Zero, d(0.07), d(107)},
		{"discount then tax", d(100), d(10), d(0.07), d(96.3)},
		{"discount exceeds subtotal", d(100), d(200), d(0.07), decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.subtotal, tt.discount, tt.taxRate)
			if !got.Equal(tt.want) {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		currency string
		amount   decimal.Decimal
		want     string
	}{
		{"USD", d(12.5), "$12.50"},
		{"EUR", d(99), "€99.00"},
		{"SEK", d(10), "SEK 10.00"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatPrice(%s, %s) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestCouponValidate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	base := func() Coupon {
		return Coupon{
			Code:          "SAVE10",
			DiscountType:  DiscountPercentage,
			DiscountValue: d(10),
			Active:        true,
		}
	}

	tests := []struct {
		name     string
		mutate   func(*Coupon)
		subtotal decimal.Decimal
		wantErr  error
	}{
		{"valid", func(c *Coupon) {}, d(100), nil},
		{"inactive", func(c *Coupon) { c.Active = false }, d(100), ErrCouponInactive},
		{"expired", func(c *Coupon) { c.ExpiresAt = &past }, d(100), ErrCouponExpired},
		{"not yet expired", func(c *Coupon) { c.ExpiresAt = &future }, d(100), nil},
		{"exhausted", func(c *Coupon) { c.UsageLimit = 5; c.UsedCount = 5 }, d(100), ErrCouponExhausted},
		{"usage remaining", func(c *Coupon) { c.UsageLimit = 5; c.UsedCount = 4 }, d(100), nil},
		{"below minimum order", func(c *Coupon) { c.MinOrderValue = d(50) }, d(49.99), ErrMinOrderNotMet},
		{"meets minimum order", func(c *Coupon) { c.MinOrderValue = d(50) }, d(50), nil},
		{"unknown discount type", func(c *Coupon) { c.DiscountType = "bogus" }, d(100), ErrUnknownDiscount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := base()
			tt.mutate(&coupon)
			if err := coupon.Validate(tt.subtotal, now); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCouponDiscountFor(t *testing.T) {
	coupon := Coupon{
		Code:          "FLAT20",
		DiscountType:  DiscountFixed,
		DiscountValue: d(20),
		Active:        true,
	}

	if got := coupon.DiscountFor(d(100)); !got.Equal(d(20)) {
		t.Errorf("DiscountFor(100) = %s, want 20", got)
	}
	if got := coupon.DiscountFor(d(15)); !got.Equal(d(15)) {
		t.Errorf("DiscountFor(15) = %s, want 15 (capped)", got)
	}
}
