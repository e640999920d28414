package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrEntryNotFound  = errors.New("wishlist entry not found")
	ErrMissingProduct = errors.New("product id is required")
)

// WishlistEntry 心愿单条目，冗余存储展示字段，权威数据在远端商品服务
type WishlistEntry struct {
	gorm.Model
	UserID    string          `gorm:"column:user_id;type:varchar(64);uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID string          `gorm:"column:product_id;type:varchar(64);uniqueIndex:idx_user_product;not null" json:"product_id"`
	Name      string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,2)" json:"price"`
	Image     string          `gorm:"column:image;type:varchar(512)" json:"image"`
	Category  string          `gorm:"column:category;type:varchar(100)" json:"category"`
	Discount  decimal.Decimal `gorm:"column:discount;type:decimal(20,2)" json:"discount"`
}

func (WishlistEntry) TableName() string { return "wishlist_entries" }
