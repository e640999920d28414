package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/internal/checkout/domain"
	pricingapp "github.com/wyfcoding/storefront/internal/pricing/application"
	pricingdomain "github.com/wyfcoding/storefront/internal/pricing/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// TopicCheckoutCompleted 下单完成事件主题
const TopicCheckoutCompleted = "checkout.completed"

// CartService 结算所需的购物车能力
type CartService interface {
	GetCart(ctx context.Context, ownerID string) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, cmd cartapp.ClearCartCommand) error
}

// Pricer 结算所需的计价能力
type Pricer interface {
	Quote(ctx context.Context, lines []pricingdomain.Line, couponCode string) (*pricingapp.Quote, error)
}

// CheckoutCommand 结算命令
type CheckoutCommand struct {
	OwnerID       string
	TermsAccepted bool
	Shipping      domain.ShippingAddress
	PaymentMethod string
	CouponCode    string
}

// CheckoutCommandService 结算命令服务：下单流水线的编排者
type CheckoutCommandService struct {
	orders    domain.OrderRepository
	carts     CartService
	pricer    Pricer
	publisher domain.EventPublisher
}

// NewCheckoutCommandService 创建结算命令服务实例
func NewCheckoutCommandService(
	orders domain.OrderRepository,
	carts CartService,
	pricer Pricer,
	publisher domain.EventPublisher,
) *CheckoutCommandService {
	return &CheckoutCommandService{
		orders:    orders,
		carts:     carts,
		pricer:    pricer,
		publisher: publisher,
	}
}

// Checkout 执行下单流水线：校验 → 取购物车 → 计价 → 落单（含消费券）→ 清空购物车 → 发布事件。
// 任一步失败则购物车保持不变。
func (s *CheckoutCommandService) Checkout(ctx context.Context, cmd CheckoutCommand) (*domain.Order, error) {
	if !cmd.TermsAccepted {
		return nil, domain.ErrTermsNotAccepted
	}
	if err := cmd.Shipping.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	quote, err := s.pricer.Quote(ctx, toLines(cart.Items), cmd.CouponCode)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		OrderNumber:   uuid.New().String(),
		OwnerID:       cmd.OwnerID,
		Items:         toOrderItems(cart.Items),
		Shipping:      cmd.Shipping,
		PaymentMethod: cmd.PaymentMethod,
		CouponCode:    quote.CouponCode,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		Tax:           quote.Tax,
		Total:         quote.Total,
		Status:        domain.OrderStatusConfirmed,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		logger.Error(ctx, "failed to create order", "owner_id", cmd.OwnerID, "error", err)
		return nil, err
	}

	// 订单已落库，清空购物车失败不回滚订单
	if err := s.carts.ClearCart(ctx, cartapp.ClearCartCommand{OwnerID: cmd.OwnerID}); err != nil {
		logger.Warn(ctx, "order created but failed to clear cart",
			"owner_id", cmd.OwnerID, "order_number", order.OrderNumber, "error", err)
	}

	event := domain.CheckoutCompletedEvent{
		OrderNumber: order.OrderNumber,
		OwnerID:     order.OwnerID,
		ItemCount:   len(order.Items),
		Total:       order.Total.StringFixed(2),
		CouponCode:  order.CouponCode,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, TopicCheckoutCompleted, order.OrderNumber, event); err != nil {
		logger.Error(ctx, "failed to publish checkout completed event",
			"order_number", order.OrderNumber, "error", err)
	}

	logger.Info(ctx, "checkout completed",
		"owner_id", order.OwnerID, "order_number", order.OrderNumber, "total", event.Total)
	return order, nil
}

// toLines 将购物车行项目转换为计价行
func toLines(items []cartdomain.CartItem) []pricingdomain.Line {
	lines := make([]pricingdomain.Line, len(items))
	for i, item := range items {
		lines[i] = pricingdomain.Line{Price: item.Price, Quantity: item.Quantity}
	}
	return lines
}

// toOrderItems 将购物车行项目快照为订单行
func toOrderItems(items []cartdomain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, len(items))
	for i, item := range items {
		out[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		}
	}
	return out
}
