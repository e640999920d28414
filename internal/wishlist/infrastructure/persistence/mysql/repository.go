package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/wishlist/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type wishlistRepository struct{ db *gorm.DB }

func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListByUserID(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *wishlistRepository) Add(ctx context.Context, entry *domain.WishlistEntry) error {
	// 重复添加同一商品按 upsert 处理，保持幂等
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "image", "category", "discount"}),
	}).Create(entry).Error
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) error {
	// 物理删除：(user_id, product_id) 上的唯一索引不区分软删除行，
	// 软删除的条目会让之后的 upsert 复用死行而读不回来
	res := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *wishlistRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var entry domain.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *wishlistRepository) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&domain.WishlistEntry{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}
