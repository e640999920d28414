package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/pricing/domain"
	"gorm.io/gorm"
)

type couponRepository struct{ db *gorm.DB }

func NewCouponRepository(db *gorm.DB) domain.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ConsumeUsage 在给定事务中原子递增使用次数。并发耗尽通过条件更新兜底：
// 无行受影响时区分券不存在与限额已满，调用方据此回滚整个事务。
func ConsumeUsage(tx *gorm.DB, code string) error {
	res := tx.Model(&domain.Coupon{}).
		Where("code = ? AND (usage_limit = 0 OR used_count < usage_limit)", code).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var coupon domain.Coupon
		if err := tx.Where("code = ?", code).First(&coupon).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCouponNotFound
			}
			return err
		}
		return domain.ErrCouponExhausted
	}
	return nil
}
