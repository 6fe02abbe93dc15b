package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// 明細込みで返す（商品情報はプリロードしない）
	ListByUserID(ctx context.Context, userID int64) ([]model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)

	Create(ctx context.Context, cart model.Cart) (model.Cart, error)
	UpdateTotalPrice(ctx context.Context, cartID int64, total float64) error
}
