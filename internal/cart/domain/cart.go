package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrMissingProduct  = errors.New("product id is required")
)

type Cart struct {
	gorm.Model
	OwnerID string     `gorm:"column:owner_id;type:varchar(64);uniqueIndex;not null"`
	Items   []CartItem `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string { return "carts" }

// CartItem 购物车行项目，行的身份由 (product_id, size, color) 共同决定
type CartItem struct {
	gorm.Model
	CartID    uint            `gorm:"column:cart_id;index;not null" json:"-"`
	ProductID string          `gorm:"column:product_id;type:varchar(64);not null" json:"product_id"`
	Name      string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,2)" json:"price"`
	Image     string          `gorm:"column:image;type:varchar(512)" json:"image"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Size      string          `gorm:"column:size;type:varchar(32)" json:"size,omitempty"`
	Color     string          `gorm:"column:color;type:varchar(32)" json:"color,omitempty"`
}

func (CartItem) TableName() string { return "cart_items" }

// Matches 判断行项目是否匹配完整身份键
func (i *CartItem) Matches(productID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) ItemCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// AddItem 合并到相同 (product_id, size, color) 的行，否则追加新行
func (c *Cart) AddItem(item CartItem) error {
	if item.ProductID == "" {
		return ErrMissingProduct
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].Matches(item.ProductID, item.Size, item.Color) {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateQuantity 覆写指定行的数量；qty <= 0 时移除该行。
// 返回购物车是否发生变化，行不存在时为 no-op。
func (c *Cart) UpdateQuantity(productID, size, color string, qty int) bool {
	if qty <= 0 {
		return c.removeLine(productID, size, color)
	}
	for i := range c.Items {
		if c.Items[i].Matches(productID, size, color) {
			c.Items[i].Quantity = qty
			return true
		}
	}
	return false
}

// RemoveItem 按商品 ID 移除该商品的所有变体行。幂等：商品不在购物车时为 no-op。
func (c *Cart) RemoveItem(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// Clear 清空所有行项目
func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) removeLine(productID, size, color string) bool {
	for i := range c.Items {
		if c.Items[i].Matches(productID, size, color) {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}
