package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func item(productID, size, color string, price float64, qty int) CartItem {
	return CartItem{
		ProductID: productID,
		Name:      "product " + productID,
		Price:     decimal.NewFromFloat(price),
		Quantity:  qty,
		Size:      size,
		Color:     color,
	}
}

func TestCartAddItemMergesByIdentity(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}

	if err := cart.AddItem(item("p1", "M", "red", 10, 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := cart.AddItem(item("p1", "M", "red", 10, 3)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestCartAddItemDistinctVariants(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}

	variants := []CartItem{
		item("p1", "M", "red", 10, 1),
		item("p1", "L", "red", 10, 1),
		item("p1", "M", "blue", 10, 1),
	}
	for _, v := range variants {
		if err := cart.AddItem(v); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	if len(cart.Items) != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", len(cart.Items))
	}
}

func TestCartAddItemValidation(t *testing.T) {
	tests := []struct {
		name    string
		item    CartItem
		wantErr error
	}{
		{"missing product id", item("", "M", "red", 10, 1), ErrMissingProduct},
		{"zero quantity", item("p1", "M", "red", 10, 0), ErrInvalidQuantity},
		{"negative quantity", item("p1", "M", "red", 10, -2), ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &Cart{OwnerID: "u1"}
			if err := cart.AddItem(tt.item); err != tt.wantErr {
				t.Errorf("AddItem() error = %v, want %v", err, tt.wantErr)
			}
			if len(cart.Items) != 0 {
				t.Errorf("rejected item must not be added, got %d lines", len(cart.Items))
			}
		})
	}
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}
	if err := cart.AddItem(item("p1", "M", "red", 10, 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if !cart.UpdateQuantity("p1", "M", "red", 7) {
		t.Error("expected UpdateQuantity to report a change")
	}
	if cart.Items[0].Quantity != 7 {
		t.Errorf("expected quantity 7, got %d", cart.Items[0].Quantity)
	}

	// 数量归零等价于移除该行
	if !cart.UpdateQuantity("p1", "M", "red", 0) {
		t.Error("expected removal to report a change")
	}
	if len(cart.Items) != 0 {
		t.Errorf("expected line removed, got %d lines", len(cart.Items))
	}
}

func TestCartUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}
	if err := cart.AddItem(item("p1", "M", "red", 10, 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if cart.UpdateQuantity("p2", "M", "red", 5) {
		t.Error("expected UpdateQuantity on unknown line to report no change")
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("unknown line must not change cart: %+v", cart.Items)
	}

	// 归零一个不存在的行同样是 no-op
	if cart.UpdateQuantity("p2", "M", "red", 0) {
		t.Error("expected zeroing an unknown line to report no change")
	}
}

func TestCartRemoveItemRemovesAllVariants(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}
	for _, v := range []CartItem{
		item("p1", "M", "red", 10, 1),
		item("p1", "L", "blue", 10, 1),
		item("p2", "", "", 5, 1),
	} {
		if err := cart.AddItem(v); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	cart.RemoveItem("p1")

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line after removal, got %d", len(cart.Items))
	}
	if cart.Items[0].ProductID != "p2" {
		t.Errorf("expected p2 to remain, got %s", cart.Items[0].ProductID)
	}

	// 幂等：重复移除不报错不改变状态
	cart.RemoveItem("p1")
	if len(cart.Items) != 1 {
		t.Errorf("repeated removal must be a no-op, got %d lines", len(cart.Items))
	}
}

func TestCartSubtotalAndItemCount(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}
	for _, v := range []CartItem{
		item("p1", "M", "red", 10, 2), // 20
		item("p2", "", "", 7.50, 2),   // 15
	} {
		if err := cart.AddItem(v); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	want := decimal.NewFromFloat(35)
	if got := cart.Subtotal(); !got.Equal(want) {
		t.Errorf("Subtotal() = %s, want %s", got, want)
	}
	if got := cart.ItemCount(); got != 4 {
		t.Errorf("ItemCount() = %d, want 4", got)
	}
}

func TestCartClear(t *testing.T) {
	cart := &Cart{OwnerID: "u1"}
	if err := cart.AddItem(item("p1", "M", "red", 10, 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	cart.Clear()

	if len(cart.Items) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(cart.Items))
	}
	if !cart.Subtotal().IsZero() {
		t.Errorf("expected zero subtotal, got %s", cart.Subtotal())
	}
}
