package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/internal/wishlist/domain"
)

type fakeWishlistRepo struct {
	listByUserID func(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
	add          func(ctx context.Context, entry *domain.WishlistEntry) error
	remove       func(ctx context.Context, userID, productID string) error
	exists       func(ctx context.Context, userID, productID string) (bool, error)
	count        func(ctx context.Context, userID string) (int64, error)
}

func (f *fakeWishlistRepo) ListByUserID(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	return f.listByUserID(ctx, userID)
}

func (f *fakeWishlistRepo) Add(ctx context.Context, entry *domain.WishlistEntry) error {
	return f.add(ctx, entry)
}

func (f *fakeWishlistRepo) Remove(ctx context.Context, userID, productID string) error {
	return f.remove(ctx, userID, productID)
}

func (f *fakeWishlistRepo) Exists(ctx context.Context, userID, productID string) (bool, error) {
	return f.exists(ctx, userID, productID)
}

func (f *fakeWishlistRepo) Count(ctx context.Context, userID string) (int64, error) {
	return f.count(ctx, userID)
}

// fakeMembershipCache 在内存 map 上模拟 Redis 成员集
type fakeMembershipCache struct {
	members map[string]bool
	failAll bool
}

func newFakeMembershipCache() *fakeMembershipCache {
	return &fakeMembershipCache{members: make(map[string]bool)}
}

func (f *fakeMembershipCache) key(userID, productID string) string { return userID + "/" + productID }

func (f *fakeMembershipCache) Rebuild(ctx context.Context, userID string, productIDs []string) error {
	if f.failAll {
		return errors.New("cache unavailable")
	}
	for k := range f.members {
		delete(f.members, k)
	}
	for _, id := range productIDs {
		f.members[f.key(userID, id)] = true
	}
	return nil
}

func (f *fakeMembershipCache) Add(ctx context.Context, userID, productID string) error {
	if f.failAll {
		return errors.New("cache unavailable")
	}
	f.members[f.key(userID, productID)] = true
	return nil
}

func (f *fakeMembershipCache) Remove(ctx context.Context, userID, productID string) error {
	if f.failAll {
		return errors.New("cache unavailable")
	}
	delete(f.members, f.key(userID, productID))
	return nil
}

func (f *fakeMembershipCache) Contains(ctx context.Context, userID, productID string) (bool, error) {
	if f.failAll {
		return false, errors.New("cache unavailable")
	}
	return f.members[f.key(userID, productID)], nil
}

func (f *fakeMembershipCache) Count(ctx context.Context, userID string) (int64, error) {
	if f.failAll {
		return 0, errors.New("cache unavailable")
	}
	return int64(len(f.members)), nil
}

func (f *fakeMembershipCache) Clear(ctx context.Context, userID string) error {
	if f.failAll {
		return errors.New("cache unavailable")
	}
	for k := range f.members {
		delete(f.members, k)
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, topic, key string, event any) error { return nil }

func entryFor(userID, productID string) domain.WishlistEntry {
	return domain.WishlistEntry{
		UserID:    userID,
		ProductID: productID,
		Name:      "product " + productID,
		Price:     decimal.NewFromInt(10),
	}
}

func TestFetchRequiresLogin(t *testing.T) {
	svc := NewWishlistService(&fakeWishlistRepo{}, newFakeMembershipCache(), nopPublisher{})

	entries, result := svc.Fetch(context.Background(), "")
	if !result.LoginRequired {
		t.Error("expected LoginRequired result")
	}
	if entries != nil {
		t.Errorf("expected no entries, got %v", entries)
	}
}

func TestFetchRebuildsCache(t *testing.T) {
	repo := &fakeWishlistRepo{
		listByUserID: func(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
			return []domain.WishlistEntry{entryFor(userID, "p1"), entryFor(userID, "p2")}, nil
		},
	}
	cache := newFakeMembershipCache()
	svc := NewWishlistService(repo, cache, nopPublisher{})

	entries, result := svc.Fetch(context.Background(), "u1")
	if !result.Success {
		t.Fatalf("Fetch failed: %s", result.Message)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	for _, id := range []string{"p1", "p2"} {
		member, err := cache.Contains(context.Background(), "u1", id)
		if err != nil || !member {
			t.Errorf("expected %s in rebuilt cache", id)
		}
	}
}

func TestFetchStorageFailureClearsCache(t *testing.T) {
	repo := &fakeWishlistRepo{
		listByUserID: func(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
			return nil, errors.New("connection refused")
		},
	}
	cache := newFakeMembershipCache()
	cache.members["u1/p1"] = true
	svc := NewWishlistService(repo, cache, nopPublisher{})

	_, result := svc.Fetch(context.Background(), "u1")
	if result.Success {
		t.Error("expected failure result")
	}
	if result.LoginRequired {
		t.Error("storage failure is not a login problem")
	}
	// 失败时宁可清空缓存也不保留过期集合
	if len(cache.members) != 0 {
		t.Errorf("expected cache cleared, got %v", cache.members)
	}
}

func TestAddAdvancesCacheOnlyAfterStoreConfirms(t *testing.T) {
	t.Run("store confirms", func(t *testing.T) {
		repo := &fakeWishlistRepo{
			add: func(ctx context.Context, entry *domain.WishlistEntry) error { return nil },
		}
		cache := newFakeMembershipCache()
		svc := NewWishlistService(repo, cache, nopPublisher{})

		result := svc.Add(context.Background(), AddCommand{UserID: "u1", ProductID: "p1"})
		if !result.Success {
			t.Fatalf("Add failed: %s", result.Message)
		}
		if !cache.members["u1/p1"] {
			t.Error("expected cache membership after store confirmed")
		}
	})

	t.Run("store rejects", func(t *testing.T) {
		repo := &fakeWishlistRepo{
			add: func(ctx context.Context, entry *domain.WishlistEntry) error {
				return errors.New("connection refused")
			},
		}
		cache := newFakeMembershipCache()
		svc := NewWishlistService(repo, cache, nopPublisher{})

		result := svc.Add(context.Background(), AddCommand{UserID: "u1", ProductID: "p1"})
		if result.Success {
			t.Error("expected failure result")
		}
		if cache.members["u1/p1"] {
			t.Error("cache must not advance when store rejected")
		}
	})
}

func TestAddValidation(t *testing.T) {
	svc := NewWishlistService(&fakeWishlistRepo{}, newFakeMembershipCache(), nopPublisher{})

	if result := svc.Add(context.Background(), AddCommand{ProductID: "p1"}); !result.LoginRequired {
		t.Error("missing user must yield LoginRequired")
	}
	if result := svc.Add(context.Background(), AddCommand{UserID: "u1"}); result.Success || result.LoginRequired {
		t.Error("missing product must yield plain failure")
	}
}

func TestRemoveKeepsCacheOnStoreFailure(t *testing.T) {
	repo := &fakeWishlistRepo{
		remove: func(ctx context.Context, userID, productID string) error {
			return errors.New("connection refused")
		},
	}
	cache := newFakeMembershipCache()
	cache.members["u1/p1"] = true
	svc := NewWishlistService(repo, cache, nopPublisher{})

	result := svc.Remove(context.Background(), "u1", "p1")
	if result.Success {
		t.Error("expected failure result")
	}
	if !cache.members["u1/p1"] {
		t.Error("cache must keep membership when store rejected")
	}
}

func TestToggleDispatchesOnMembership(t *testing.T) {
	store := map[string]bool{"u1/p1": true}
	repo := &fakeWishlistRepo{
		add: func(ctx context.Context, entry *domain.WishlistEntry) error {
			store[entry.UserID+"/"+entry.ProductID] = true
			return nil
		},
		remove: func(ctx context.Context, userID, productID string) error {
			delete(store, userID+"/"+productID)
			return nil
		},
	}
	cache := newFakeMembershipCache()
	cache.members["u1/p1"] = true
	svc := NewWishlistService(repo, cache, nopPublisher{})
	ctx := context.Background()

	added, result := svc.Toggle(ctx, AddCommand{UserID: "u1", ProductID: "p1"})
	if !result.Success || added {
		t.Errorf("toggle on member must remove: added=%v result=%+v", added, result)
	}
	if store["u1/p1"] {
		t.Error("expected entry removed from store")
	}

	added, result = svc.Toggle(ctx, AddCommand{UserID: "u1", ProductID: "p1"})
	if !result.Success || !added {
		t.Errorf("toggle on non-member must add: added=%v result=%+v", added, result)
	}
	if !store["u1/p1"] {
		t.Error("expected entry added to store")
	}
}

func TestIsInWishlistFallsBackToStore(t *testing.T) {
	repo := &fakeWishlistRepo{
		exists: func(ctx context.Context, userID, productID string) (bool, error) {
			return true, nil
		},
	}
	cache := newFakeMembershipCache()
	cache.failAll = true
	svc := NewWishlistService(repo, cache, nopPublisher{})

	member, err := svc.IsInWishlist(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("IsInWishlist: %v", err)
	}
	if !member {
		t.Error("expected store fallback to report membership")
	}
}

func TestCountFallsBackToStore(t *testing.T) {
	repo := &fakeWishlistRepo{
		count: func(ctx context.Context, userID string) (int64, error) { return 3, nil },
	}
	cache := newFakeMembershipCache()
	cache.failAll = true
	svc := NewWishlistService(repo, cache, nopPublisher{})

	n, err := svc.Count(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}
