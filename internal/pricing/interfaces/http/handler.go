package http

import (
	"context"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/pricing/application"
	"github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartLoader 读取当前购物车，由购物车应用服务实现
type CartLoader interface {
	GetCart(ctx context.Context, ownerID string) (*cartdomain.Cart, error)
}

// PricingHandler HTTP 处理器
// 负责处理优惠券校验请求
type PricingHandler struct {
	pricing *application.PricingService
	carts   CartLoader
	metrics *metrics.Metrics
}

// 创建 HTTP 处理器实例
func NewPricingHandler(pricing *application.PricingService, carts CartLoader, m *metrics.Metrics) *PricingHandler {
	return &PricingHandler{pricing: pricing, carts: carts, metrics: m}
}

// 注册路由
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/v1/cart/validate-coupon", h.ValidateCoupon)
}

// ValidateCouponRequest 优惠券校验请求
type ValidateCouponRequest struct {
	CouponCode string `json:"coupon_code" binding:"required"`
}

// validationView 优惠券校验响应视图
type validationView struct {
	Valid          bool   `json:"valid"`
	Message        string `json:"message"`
	DiscountType   string `json:"discount_type,omitempty"`
	DiscountValue  string `json:"discount_value,omitempty"`
	Discount       string `json:"discount"`
	Subtotal       string `json:"subtotal"`
	Tax            string `json:"tax"`
	Total          string `json:"total"`
	FormattedTotal string `json:"formatted_total"`
}

// ValidateCoupon 校验优惠券并返回基于当前购物车的计价结果
func (h *PricingHandler) ValidateCoupon(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cart, err := h.carts.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load cart for coupon validation", "owner_id", ownerID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	result, err := h.pricing.ValidateCoupon(c.Request.Context(), toLines(cart), req.CouponCode)
	if err != nil {
		logger.Error(c.Request.Context(), "Coupon validation failed", "coupon", req.CouponCode, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	if result.Valid {
		h.metrics.CouponChecksTotal.WithLabelValues("valid").Inc()
	} else {
		h.metrics.CouponChecksTotal.WithLabelValues("invalid").Inc()
	}

	view := validationView{
		Valid:          result.Valid,
		Message:        result.Message,
		Discount:       result.Quote.Discount.StringFixed(2),
		Subtotal:       result.Quote.Subtotal.StringFixed(2),
		Tax:            result.Quote.Tax.StringFixed(2),
		Total:          result.Quote.Total.StringFixed(2),
		FormattedTotal: domain.FormatPrice(result.Quote.Total, h.pricing.Currency()),
	}
	if result.Valid {
		view.DiscountType = string(result.Quote.DiscountType)
		view.DiscountValue = result.Quote.DiscountValue.StringFixed(2)
	}

	response.Success(c, view)
}

// toLines 将购物车行映射为计价行
func toLines(cart *cartdomain.Cart) []domain.Line {
	lines := make([]domain.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, domain.Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}
