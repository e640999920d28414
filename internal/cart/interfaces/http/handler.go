package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartHandler HTTP 处理器
// 负责处理与购物车相关的 HTTP 请求
type CartHandler struct {
	app *application.CartApplicationService
}

// 创建 HTTP 处理器实例
func NewCartHandler(app *application.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

// 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/cart")
	{
		api.GET("", h.GetCart)               // 获取购物车
		api.POST("", h.AddItem)              // 添加商品
		api.PUT("/:itemId", h.UpdateItem)    // 更新行项目数量
		api.DELETE("/:itemId", h.RemoveItem) // 移除商品（全部变体）
		api.DELETE("", h.ClearCart)          // 清空购物车
	}
}

// AddItemRequest 添加商品请求
type AddItemRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

// UpdateItemRequest 更新行项目请求
type UpdateItemRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

// cartView 购物车响应视图
type cartView struct {
	OwnerID   string            `json:"owner_id"`
	Items     []domain.CartItem `json:"items"`
	Subtotal  string            `json:"subtotal"`
	ItemCount int               `json:"item_count"`
}

func newCartView(cart *domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		OwnerID:   cart.OwnerID,
		Items:     items,
		Subtotal:  cart.Subtotal().StringFixed(2),
		ItemCount: cart.ItemCount(),
	}
}

// GetCart 获取购物车
func (h *CartHandler) GetCart(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	cart, err := h.app.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to load cart", "owner_id", ownerID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, newCartView(cart))
}

// AddItem 添加商品到购物车
func (h *CartHandler) AddItem(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cmd := application.AddItemCommand{
		OwnerID:   ownerID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Size:      req.Size,
		Color:     req.Color,
		Price:     req.Price,
		Quantity:  req.Quantity,
	}

	if err := h.app.AddItem(c.Request.Context(), cmd); err != nil {
		if errors.Is(err, domain.ErrInvalidQuantity) || errors.Is(err, domain.ErrMissingProduct) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error(c.Request.Context(), "Failed to add cart item", "owner_id", ownerID, "product_id", req.ProductID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	cart, err := h.app.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, newCartView(cart))
}

// UpdateItem 更新行项目数量
func (h *CartHandler) UpdateItem(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	productID := c.Param("itemId")
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cmd := application.UpdateQuantityCommand{
		OwnerID:   ownerID,
		ProductID: productID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	}

	if err := h.app.UpdateQuantity(c.Request.Context(), cmd); err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			response.NotFound(c, "cart not found")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update cart item", "owner_id", ownerID, "product_id", productID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	cart, err := h.app.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, newCartView(cart))
}

// RemoveItem 移除商品（该商品的全部变体行）
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	productID := c.Param("itemId")
	cmd := application.RemoveItemCommand{OwnerID: ownerID, ProductID: productID}

	if err := h.app.RemoveItem(c.Request.Context(), cmd); err != nil {
		logger.Error(c.Request.Context(), "Failed to remove cart item", "owner_id", ownerID, "product_id", productID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	cart, err := h.app.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, newCartView(cart))
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	ownerID := middleware.OwnerID(c)
	if ownerID == "" {
		response.BadRequest(c, "session or authentication required")
		return
	}

	if err := h.app.ClearCart(c.Request.Context(), application.ClearCartCommand{OwnerID: ownerID}); err != nil {
		logger.Error(c.Request.Context(), "Failed to clear cart", "owner_id", ownerID, "error", err)
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"cleared": true})
}
