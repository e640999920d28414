package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/wishlist/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Result 操作结果标签类型：失败以消息形式返回，未登录以 LoginRequired 标记，
// 调用方据此决定跳转登录还是提示错误，不向上抛异常。
type Result struct {
	Success       bool
	LoginRequired bool
	Message       string
}

func ok() Result {
	return Result{Success: true}
}

func loginRequired() Result {
	return Result{LoginRequired: true, Message: "login required"}
}

func failed(message string) Result {
	return Result{Message: message}
}

// AddCommand 添加心愿单条目命令
type AddCommand struct {
	UserID    string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Image     string
	Category  string
	Discount  decimal.Decimal
}

// WishlistService 心愿单服务：MySQL 为权威存储，Redis 成员集为快速路径缓存。
// 本地成员集只在存储确认后推进，失败时保持原状。
type WishlistService struct {
	repo      domain.WishlistRepository
	cache     domain.MembershipCache
	publisher domain.EventPublisher
}

// NewWishlistService 创建心愿单服务实例
func NewWishlistService(
	repo domain.WishlistRepository,
	cache domain.MembershipCache,
	publisher domain.EventPublisher,
) *WishlistService {
	return &WishlistService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
	}
}

// Fetch 拉取心愿单并重建成员集缓存。
// 存储失败时清空缓存（fail closed），宁可显示为空也不显示过期集合。
func (s *WishlistService) Fetch(ctx context.Context, userID string) ([]domain.WishlistEntry, Result) {
	if userID == "" {
		return nil, loginRequired()
	}

	entries, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		logger.Error(ctx, "Failed to fetch wishlist", "user_id", userID, "error", err)
		if cacheErr := s.cache.Clear(ctx, userID); cacheErr != nil {
			logger.Warn(ctx, "Failed to clear wishlist cache", "user_id", userID, "error", cacheErr)
		}
		return nil, failed("failed to load wishlist")
	}

	productIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		productIDs = append(productIDs, entry.ProductID)
	}
	if err := s.cache.Rebuild(ctx, userID, productIDs); err != nil {
		logger.Warn(ctx, "Failed to rebuild wishlist cache", "user_id", userID, "error", err)
	}

	return entries, ok()
}

// Add 添加商品到心愿单。缓存只在存储确认后更新。
func (s *WishlistService) Add(ctx context.Context, cmd AddCommand) Result {
	if cmd.UserID == "" {
		return loginRequired()
	}
	if cmd.ProductID == "" {
		return failed(domain.ErrMissingProduct.Error())
	}

	entry := domain.WishlistEntry{
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Name:      cmd.Name,
		Price:     cmd.Price,
		Image:     cmd.Image,
		Category:  cmd.Category,
		Discount:  cmd.Discount,
	}
	if err := s.repo.Add(ctx, &entry); err != nil {
		logger.Error(ctx, "Failed to add wishlist entry", "user_id", cmd.UserID, "product_id", cmd.ProductID, "error", err)
		return failed("failed to add to wishlist")
	}

	if err := s.cache.Add(ctx, cmd.UserID, cmd.ProductID); err != nil {
		logger.Warn(ctx, "Failed to update wishlist cache", "user_id", cmd.UserID, "error", err)
	}

	event := domain.WishlistItemAddedEvent{
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "wishlist.item.added", cmd.UserID, event)

	return ok()
}

// Remove 从心愿单移除商品。失败时本地成员集保持不变。
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) Result {
	if userID == "" {
		return loginRequired()
	}

	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		logger.Error(ctx, "Failed to remove wishlist entry", "user_id", userID, "product_id", productID, "error", err)
		return failed("failed to remove from wishlist")
	}

	if err := s.cache.Remove(ctx, userID, productID); err != nil {
		logger.Warn(ctx, "Failed to update wishlist cache", "user_id", userID, "error", err)
	}

	event := domain.WishlistItemRemovedEvent{
		UserID:    userID,
		ProductID: productID,
		Timestamp: time.Now(),
	}
	s.publisher.Publish(ctx, "wishlist.item.removed", userID, event)

	return ok()
}

// Toggle 根据当前成员关系在添加与移除之间分派
func (s *WishlistService) Toggle(ctx context.Context, cmd AddCommand) (added bool, result Result) {
	if cmd.UserID == "" {
		return false, loginRequired()
	}

	member, err := s.IsInWishlist(ctx, cmd.UserID, cmd.ProductID)
	if err != nil {
		logger.Error(ctx, "Failed to check wishlist membership", "user_id", cmd.UserID, "product_id", cmd.ProductID, "error", err)
		return false, failed("failed to check wishlist")
	}

	if member {
		return false, s.Remove(ctx, cmd.UserID, cmd.ProductID)
	}
	return true, s.Add(ctx, cmd)
}

// IsInWishlist 判断商品是否在心愿单中，缓存不可用时回退到存储
func (s *WishlistService) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	member, err := s.cache.Contains(ctx, userID, productID)
	if err == nil {
		return member, nil
	}
	logger.Warn(ctx, "Wishlist cache unavailable, falling back to store", "user_id", userID, "error", err)

	return s.repo.Exists(ctx, userID, productID)
}

// Count 返回心愿单条目数量，缓存不可用时回退到存储
func (s *WishlistService) Count(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, nil
	}

	n, err := s.cache.Count(ctx, userID)
	if err == nil {
		return n, nil
	}
	logger.Warn(ctx, "Wishlist cache unavailable, falling back to store", "user_id", userID, "error", err)

	return s.repo.Count(ctx, userID)
}
