package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wyfcoding/storefront/internal/checkout/domain"
	pricingmysql "github.com/wyfcoding/storefront/internal/pricing/infrastructure/persistence/mysql"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Create 在同一事务中落单并消费优惠券的使用次数。
// 券的并发耗尽通过条件更新兜底：无行受影响即回滚整个订单。
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if order.CouponCode == "" {
			return nil
		}
		return pricingmysql.ConsumeUsage(tx, order.CouponCode)
	})
}

func (r *orderRepository) GetByNumber(ctx context.Context, ownerID, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ? AND order_number = ?", ownerID, orderNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
