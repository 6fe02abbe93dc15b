package client

import (
	"storefront/internal/domain/model"
)

// リモートAPIのフィールド名ゆらぎ（snake_case / Goエクスポート名）を
// ここで一度だけ正規形に吸収する。下流では再チェックしない。
// 正規形のキーを先に見るので、正規化済みの入力に対しては冪等。

func NormalizeProduct(raw map[string]any) model.Product {
	return model.Product{
		ID:          pickInt(raw, "id", "ID"),
		Name:        pickString(raw, "name", "Name"),
		Description: pickString(raw, "description", "Description"),
		Price:       pickFloat(raw, "price", "Price"),
		Quantity:    pickInt(raw, "quantity", "Quantity"),
		CategoryID:  pickInt(raw, "category_id", "CategoryID"),
	}
}

func NormalizeCartItem(raw map[string]any) model.CartItem {
	item := model.CartItem{
		ID:        pickInt(raw, "id", "ID"),
		CartID:    pickInt(raw, "cart_id", "CartID"),
		ProductID: pickInt(raw, "product_id", "ProductID"),
		Quantity:  pickInt(raw, "quantity", "Quantity"),
		Price:     pickFloat(raw, "price", "Price"),
	}

	if p, ok := pickMap(raw, "product", "Product"); ok {
		np := NormalizeProduct(p)
		if np.ID != 0 {
			item.Product = &np
			if item.ProductID == 0 {
				item.ProductID = np.ID
			}
		}
	}

	return item
}

func NormalizeCart(raw map[string]any) model.Cart {
	cart := model.Cart{
		ID:         pickInt(raw, "id", "ID"),
		UserID:     pickInt(raw, "user_id", "UserID"),
		TotalPrice: pickFloat(raw, "total_price", "TotalPrice"),
	}

	if items, ok := pickSlice(raw, "items", "Items"); ok {
		for _, e := range items {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			cart.Items = append(cart.Items, NormalizeCartItem(m))
		}
	}

	return cart
}

// 最初に見つかったキーの値を返す
func pickValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func pickString(m map[string]any, keys ...string) string {
	v, ok := pickValue(m, keys...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func pickFloat(m map[string]any, keys ...string) float64 {
	v, ok := pickValue(m, keys...)
	if !ok {
		return 0
	}
	f, _ := v.(float64)
	return f
}

func pickInt(m map[string]any, keys ...string) int64 {
	return int64(pickFloat(m, keys...))
}

func pickMap(m map[string]any, keys ...string) (map[string]any, bool) {
	v, ok := pickValue(m, keys...)
	if !ok {
		return nil, false
	}
	mm, ok := v.(map[string]any)
	return mm, ok
}

func pickSlice(m map[string]any, keys ...string) ([]any, bool) {
	v, ok := pickValue(m, keys...)
	if !ok {
		return nil, false
	}
	s, ok := v.([]any)
	return s, ok
}
