package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/storefront/internal/checkout/application"
	"github.com/wyfcoding/storefront/internal/checkout/domain"
	pricingdomain "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CheckoutHandler HTTP 处理器
type CheckoutHandler struct {
	app     *application.CheckoutApplicationService
	metrics *metrics.Metrics
}

// 创建 HTTP 处理器实例
func NewCheckoutHandler(app *application.CheckoutApplicationService, m *metrics.Metrics) *CheckoutHandler {
	return &CheckoutHandler{app: app, metrics: m}
}

// 注册路由
func (h *CheckoutHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/v1/cart/checkout", h.Checkout) // 下单
	orders := router.Group("/v1/orders")
	{
		orders.GET("", h.ListOrders)            // 订单列表
		orders.GET("/:orderNumber", h.GetOrder) // 订单详情
	}
}

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	TermsAccepted bool                   `json:"terms_accepted"`
	Shipping      domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod string                 `json:"payment_method"`
	CouponCode    string                 `json:"coupon_code"`
}

// orderView 订单响应视图
type orderView struct {
	OrderNumber   string                 `json:"order_number"`
	Items         []domain.OrderItem     `json:"items"`
	Shipping      domain.ShippingAddress `json:"shipping_address"`
	PaymentMethod string                 `json:"payment_method"`
	CouponCode    string                 `json:"coupon_code,omitempty"`
	Subtotal      string                 `json:"subtotal"`
	Discount      string                 `json:"discount"`
	Tax           string                 `json:"tax"`
	Total         string                 `json:"total"`
	Status        domain.OrderStatus     `json:"status"`
}

func toOrderView(order *domain.Order) orderView {
	return orderView{
		OrderNumber:   order.OrderNumber,
		Items:         order.Items,
		Shipping:      order.Shipping,
		PaymentMethod: order.PaymentMethod,
		CouponCode:    order.CouponCode,
		Subtotal:      order.Subtotal.StringFixed(2),
		Discount:      order.Discount.StringFixed(2),
		Tax:           order.Tax.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		Status:        order.Status,
	}
}

// Checkout 下单
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.app.Checkout(c.Request.Context(), application.CheckoutCommand{
		OwnerID:       ownerID,
		TermsAccepted: req.TermsAccepted,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		h.metrics.CheckoutFailedTotal.Inc()
		if isCheckoutRejection(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	h.metrics.OrdersTotal.Inc()
	response.Created(c, gin.H{
		"order_number": order.OrderNumber,
		"total":        order.Total.StringFixed(2),
		"status":       order.Status,
	})
}

// GetOrder 订单详情
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	order, err := h.app.GetOrder(c.Request.Context(), ownerID, c.Param("orderNumber"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, toOrderView(order))
}

// ListOrders 订单列表
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	orders, err := h.app.ListOrders(c.Request.Context(), ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	views := make([]orderView, len(orders))
	for i := range orders {
		views[i] = toOrderView(&orders[i])
	}
	response.Success(c, gin.H{"orders": views, "count": len(views)})
}

// isCheckoutRejection 判断错误是否为请求本身不合法（而非存储故障）
func isCheckoutRejection(err error) bool {
	if errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrTermsNotAccepted) ||
		errors.Is(err, domain.ErrInvalidAddress) {
		return true
	}
	return errors.Is(err, pricingdomain.ErrCouponNotFound) ||
		errors.Is(err, pricingdomain.ErrCouponInactive) ||
		errors.Is(err, pricingdomain.ErrCouponExpired) ||
		errors.Is(err, pricingdomain.ErrCouponExhausted) ||
		errors.Is(err, pricingdomain.ErrMinOrderNotMet) ||
		errors.Is(err, pricingdomain.ErrUnknownDiscount)
}
