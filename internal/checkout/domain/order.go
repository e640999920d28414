package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrTermsNotAccepted = errors.New("terms must be accepted")
	ErrInvalidAddress   = errors.New("shipping address, city and country are required")
)

// OrderStatus 订单状态
type OrderStatus string

// 下单与券消费在同一事务内完成，失败即整体回滚，
// 因此落库的订单只有确认态。
const (
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
)

// ShippingAddress 收货地址
type ShippingAddress struct {
	Address    string `gorm:"column:ship_address;type:varchar(255)" json:"address"`
	City       string `gorm:"column:ship_city;type:varchar(100)" json:"city"`
	Country    string `gorm:"column:ship_country;type:varchar(100)" json:"country"`
	PostalCode string `gorm:"column:ship_postal_code;type:varchar(20)" json:"postal_code"`
}

// Validate 地址、城市、国家为必填项
func (a ShippingAddress) Validate() error {
	if strings.TrimSpace(a.Address) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.Country) == "" {
		return ErrInvalidAddress
	}
	return nil
}

type Order struct {
	gorm.Model
	OrderNumber   string          `gorm:"column:order_number;type:varchar(36);uniqueIndex;not null" json:"order_number"`
	OwnerID       string          `gorm:"column:owner_id;type:varchar(64);index;not null" json:"owner_id"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Shipping      ShippingAddress `gorm:"embedded" json:"shipping_address"`
	PaymentMethod string          `gorm:"column:payment_method;type:varchar(50)" json:"payment_method"`
	CouponCode    string          `gorm:"column:coupon_code;type:varchar(64)" json:"coupon_code,omitempty"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:decimal(20,2)" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"column:discount;type:decimal(20,2)" json:"discount"`
	Tax           decimal.Decimal `gorm:"column:tax;type:decimal(20,2)" json:"tax"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(20,2)" json:"total"`
	Status        OrderStatus     `gorm:"column:status;type:varchar(20);not null" json:"status"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	gorm.Model
	OrderID   uint            `gorm:"column:order_id;index;not null" json:"-"`
	ProductID string          `gorm:"column:product_id;type:varchar(64);not null" json:"product_id"`
	Name      string          `gorm:"column:name;type:varchar(255)" json:"name"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,2)" json:"price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	Size      string          `gorm:"column:size;type:varchar(32)" json:"size,omitempty"`
	Color     string          `gorm:"column:color;type:varchar(32)" json:"color,omitempty"`
}

func (OrderItem) TableName() string { return "order_items" }
