package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/wishlist/application"
	"github.com/wyfcoding/storefront/internal/wishlist/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
)

// WishlistHandler HTTP 处理器
// 负责处理与心愿单相关的 HTTP 请求，所有路由要求 Bearer Token
type WishlistHandler struct {
	app     *application.WishlistService
	metrics *metrics.Metrics
}

// 创建 HTTP 处理器实例
func NewWishlistHandler(app *application.WishlistService, m *metrics.Metrics) *WishlistHandler {
	return &WishlistHandler{app: app, metrics: m}
}

// 注册路由
func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/wishlist")
	{
		api.GET("", h.GetWishlist)              // 拉取心愿单
		api.POST("", h.AddItem)                 // 添加商品
		api.POST("/toggle", h.ToggleItem)       // 切换成员关系
		api.DELETE("/:productId", h.RemoveItem) // 移除商品
		api.GET("/check", h.CheckItem)          // 成员关系查询
	}
}

// AddWishlistRequest 添加心愿单条目请求
type AddWishlistRequest struct {
	ProductID string          `json:"product_id" binding:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Category  string          `json:"category"`
	Discount  decimal.Decimal `json:"discount"`
}

// wishlistView 心愿单响应视图
type wishlistView struct {
	Items []domain.WishlistEntry `json:"items"`
	Count int                    `json:"count"`
}

// GetWishlist 拉取心愿单
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID := middleware.UserID(c)

	entries, result := h.app.Fetch(c.Request.Context(), userID)
	if !result.Success {
		h.metrics.WishlistOpsTotal.WithLabelValues("fetch", "failed").Inc()
		writeResult(c, result)
		return
	}

	h.metrics.WishlistOpsTotal.WithLabelValues("fetch", "ok").Inc()
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	response.Success(c, wishlistView{Items: entries, Count: len(entries)})
}

// AddItem 添加商品到心愿单
func (h *WishlistHandler) AddItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result := h.app.Add(c.Request.Context(), application.AddCommand{
		UserID:    userID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Category:  req.Category,
		Discount:  req.Discount,
	})
	if !result.Success {
		h.metrics.WishlistOpsTotal.WithLabelValues("add", "failed").Inc()
		writeResult(c, result)
		return
	}

	h.metrics.WishlistOpsTotal.WithLabelValues("add", "ok").Inc()
	response.Success(c, gin.H{"added": true, "product_id": req.ProductID})
}

// ToggleItem 根据当前成员关系添加或移除
func (h *WishlistHandler) ToggleItem(c *gin.Context) {
	userID := middleware.UserID(c)

	var req AddWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	added, result := h.app.Toggle(c.Request.Context(), application.AddCommand{
		UserID:    userID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
		Category:  req.Category,
		Discount:  req.Discount,
	})
	if !result.Success {
		h.metrics.WishlistOpsTotal.WithLabelValues("toggle", "failed").Inc()
		writeResult(c, result)
		return
	}

	h.metrics.WishlistOpsTotal.WithLabelValues("toggle", "ok").Inc()
	response.Success(c, gin.H{"added": added, "product_id": req.ProductID})
}

// RemoveItem 从心愿单移除商品
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Param("productId")

	result := h.app.Remove(c.Request.Context(), userID, productID)
	if !result.Success {
		h.metrics.WishlistOpsTotal.WithLabelValues("remove", "failed").Inc()
		writeResult(c, result)
		return
	}

	h.metrics.WishlistOpsTotal.WithLabelValues("remove", "ok").Inc()
	response.Success(c, gin.H{"removed": true, "product_id": productID})
}

// CheckItem 查询商品是否在心愿单中
func (h *WishlistHandler) CheckItem(c *gin.Context) {
	userID := middleware.UserID(c)
	productID := c.Query("product_id")
	if productID == "" {
		response.BadRequest(c, "product_id is required")
		return
	}

	member, err := h.app.IsInWishlist(c.Request.Context(), userID, productID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"product_id": productID, "in_wishlist": member})
}

// writeResult 将结果标签映射为 HTTP 响应
func writeResult(c *gin.Context, result application.Result) {
	if result.LoginRequired {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":           http.StatusUnauthorized,
			"message":        result.Message,
			"login_required": true,
		})
		return
	}
	response.ErrorWithStatus(c, http.StatusInternalServerError, result.Message)
}
