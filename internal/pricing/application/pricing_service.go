package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/pricing/domain"
)

// Quote 一次计价的完整结果
type Quote struct {
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	CouponCode    string
	DiscountType  domain.DiscountType
	DiscountValue decimal.Decimal
}

// ValidationResult 优惠券校验结果。券无效属于正常响应路径，不作为错误返回。
type ValidationResult struct {
	Valid   bool
	Message string
	Quote   Quote
}

// PricingService 计价服务：小计、优惠、税与总额的唯一推导入口
type PricingService struct {
	coupons  domain.CouponRepository
	taxRate  decimal.Decimal
	currency string
}

// NewPricingService 创建计价服务实例
func NewPricingService(coupons domain.CouponRepository, taxRate float64, currency string) *PricingService {
	return &PricingService{
		coupons:  coupons,
		taxRate:  decimal.NewFromFloat(taxRate),
		currency: currency,
	}
}

// Currency 返回配置的货币代码
func (s *PricingService) Currency() string {
	return s.currency
}

// Quote 对行项目计价。couponCode 为空时不应用优惠；
// 券不可用时返回对应的领域错误，由调用方决定呈现方式。
func (s *PricingService) Quote(ctx context.Context, lines []domain.Line, couponCode string) (*Quote, error) {
	subtotal := domain.Subtotal(lines)

	quote := &Quote{
		Subtotal: subtotal,
		Discount: decimal.Zero,
	}

	if couponCode != "" {
		coupon, err := s.coupons.GetByCode(ctx, couponCode)
		if err != nil {
			return nil, err
		}
		if err := coupon.Validate(subtotal, time.Now()); err != nil {
			return nil, err
		}
		quote.CouponCode = couponCode
		quote.DiscountType = coupon.DiscountType
		quote.DiscountValue = coupon.DiscountValue
		quote.Discount = coupon.DiscountFor(subtotal)
	}

	quote.Total = domain.Total(subtotal, quote.Discount, s.taxRate)
	taxable := subtotal.Sub(quote.Discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	quote.Tax = quote.Total.Sub(taxable)

	return quote, nil
}

// ValidateCoupon 校验优惠券并返回计价结果。券无效是正常路径：
// Valid=false 且 Message 给出原因，优惠清零。
func (s *PricingService) ValidateCoupon(ctx context.Context, lines []domain.Line, couponCode string) (*ValidationResult, error) {
	quote, err := s.Quote(ctx, lines, couponCode)
	if err != nil {
		if isCouponRejection(err) {
			fallback, qErr := s.Quote(ctx, lines, "")
			if qErr != nil {
				return nil, qErr
			}
			return &ValidationResult{
				Valid:   false,
				Message: err.Error(),
				Quote:   *fallback,
			}, nil
		}
		return nil, err
	}

	return &ValidationResult{
		Valid:   true,
		Message: "coupon applied",
		Quote:   *quote,
	}, nil
}

// isCouponRejection 判断错误是否为券本身不可用（而非存储故障）
func isCouponRejection(err error) bool {
	return errors.Is(err, domain.ErrCouponNotFound) ||
		errors.Is(err, domain.ErrCouponInactive) ||
		errors.Is(err, domain.ErrCouponExpired) ||
		errors.Is(err, domain.ErrCouponExhausted) ||
		errors.Is(err, domain.ErrMinOrderNotMet) ||
		errors.Is(err, domain.ErrUnknownDiscount)
}
