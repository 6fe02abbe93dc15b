package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// CartUsecase は /carts の業務ロジックです。
// Repositoryは Cart と CartItem を分離して受け取ります。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type AddItemInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateItemInput struct {
	Quantity int64
}

// ユーザーのカート一覧（明細込み、商品情報は埋めない）
func (u *CartUsecase) ListCartsByUser(ctx context.Context, userID int64) ([]model.Cart, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	carts, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return carts, nil
}

// カートを新規作成
func (u *CartUsecase) CreateCart(ctx context.Context, userID int64) (model.Cart, error) {
	if userID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	cart, err := u.cartRepo.Create(ctx, model.Cart{UserID: userID})
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return cart, nil
}

func (u *CartUsecase) GetCart(ctx context.Context, cartID int64) (model.Cart, error) {
	if cartID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	cart, err := u.cartRepo.FindByID(ctx, cartID)
	if err == repo.ErrNotFound {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return cart, nil
}

// カートに追加（同一商品は数量加算）。価格は追加時点のスナップショット。
func (u *CartUsecase) AddItem(ctx context.Context, cartID int64, in AddItemInput) (model.CartItem, error) {
	if cartID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// カートの存在チェック
	if _, err := u.cartRepo.FindByID(ctx, cartID); err != nil {
		if err == repo.ErrNotFound {
			return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart not found")
		}
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 商品チェック
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cartID, in.ProductID, in.Quantity, p.Price)
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.recomputeTotal(ctx, cartID); err != nil {
		return model.CartItem{}, err
	}

	return item, nil
}

// 数量変更。1未満は拒否。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, cartID int64, cartItemID int64, in UpdateItemInput) (model.Cart, error) {
	if cartID <= 0 || cartItemID <= 0 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.CartID != cartID {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if err == repo.ErrNotFound {
			return model.Cart{}, NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.recomputeTotal(ctx, cartID); err != nil {
		return model.Cart{}, err
	}

	return u.GetCart(ctx, cartID)
}

// 明細削除
func (u *CartUsecase) RemoveItem(ctx context.Context, cartID int64, cartItemID int64) error {
	if cartID <= 0 || cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if item.CartID != cartID {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.recomputeTotal(ctx, cartID)
}

// 明細から（価格×数量）の合計を出してcarts.total_priceに保存する。
func (u *CartUsecase) recomputeTotal(ctx context.Context, cartID int64) error {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var total float64 = 0
	for _, it := range items {
		total += it.Subtotal()
	}

	if err := u.cartRepo.UpdateTotalPrice(ctx, cartID, total); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
