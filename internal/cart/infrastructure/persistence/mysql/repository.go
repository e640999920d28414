package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByOwnerID(ctx context.Context, ownerID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("owner_id = ?", ownerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(cart).Error; err != nil {
			return err
		}

		// FullSaveAssociations 不会删除聚合中已不存在的行，单独清理
		keep := make([]uint, 0, len(cart.Items))
		for _, item := range cart.Items {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}
		q := tx.Unscoped().Where("cart_id = ?", cart.ID)
		if len(keep) > 0 {
			q = q.Where("id NOT IN ?", keep)
		}
		return q.Delete(&domain.CartItem{}).Error
	})
}

func (r *cartRepository) Delete(ctx context.Context, ownerID string) error {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// 物理删除：owner_id 上的唯一索引不区分软删除行，
	// 留下软删除的购物车会让同一归属者之后无法重建购物车
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&domain.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&cart).Error
	})
}
