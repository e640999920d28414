package redis

import (
	"context"
	"fmt"

	"github.com/wyfcoding/storefront/internal/wishlist/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

type membershipCache struct{ cache *cache.RedisCache }

// NewMembershipCache 创建基于 Redis 集合的成员集缓存
func NewMembershipCache(c *cache.RedisCache) domain.MembershipCache {
	return &membershipCache{cache: c}
}

func key(userID string) string {
	return fmt.Sprintf("wishlist:%s", userID)
}

func (m *membershipCache) Rebuild(ctx context.Context, userID string, productIDs []string) error {
	if err := m.cache.Delete(ctx, key(userID)); err != nil {
		return err
	}
	if len(productIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(productIDs))
	for i, id := range productIDs {
		members[i] = id
	}
	return m.cache.SAdd(ctx, key(userID), members...)
}

func (m *membershipCache) Add(ctx context.Context, userID, productID string) error {
	return m.cache.SAdd(ctx, key(userID), productID)
}

func (m *membershipCache) Remove(ctx context.Context, userID, productID string) error {
	return m.cache.SRem(ctx, key(userID), productID)
}

func (m *membershipCache) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return m.cache.SIsMember(ctx, key(userID), productID)
}

func (m *membershipCache) Count(ctx context.Context, userID string) (int64, error) {
	return m.cache.SCard(ctx, key(userID))
}

func (m *membershipCache) Clear(ctx context.Context, userID string) error {
	return m.cache.Delete(ctx, key(userID))
}
