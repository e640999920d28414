package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line 参与计价的最小行项目视图
type Line struct {
	Price    decimal.Decimal
	Quantity int
}

var hundred = decimal.NewFromInt(100)

// Subtotal 计算小计 Σ price × quantity
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount 计算商品总数量 Σ quantity
func ItemCount(lines []Line) int {
	var n int
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

// DiscountAmount 计算优惠金额。百分比券按小计比例折算；
// 固定金额券以小计为上限，优惠永远不会超过小计。
func DiscountAmount(discountType DiscountType, value, subtotal decimal.Decimal) decimal.Decimal {
	switch discountType {
	case DiscountPercentage:
		return subtotal.Mul(value).Div(hundred)
	case DiscountFixed:
		if value.GreaterThan(subtotal) {
			return subtotal
		}
		return value
	default:
		return decimal.Zero
	}
}

// Total 计算应付总额：max(0, subtotal - discount) × (1 + taxRate)。
// 税统一按百分比税率作用于折后金额。
func Total(subtotal, discount, taxRate decimal.Decimal) decimal.Decimal {
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	return taxable.Mul(decimal.NewFromInt(1).Add(taxRate))
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CNY": "¥",
}

// FormatPrice 将金额格式化为带货币符号的字符串，不含业务逻辑
func FormatPrice(amount decimal.Decimal, currency string) string {
	if symbol, ok := currencySymbols[currency]; ok {
		return symbol + amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}
