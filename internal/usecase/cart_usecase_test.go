package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Cart, error) {
	args := m.Called(ctx, userID)
	carts, _ := args.Get(0).([]model.Cart)
	return carts, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	cart, _ := args.Get(0).(model.Cart)
	return cart, args.Error(1)
}

func (m *CartRepoMock) Create(ctx context.Context, cart model.Cart) (model.Cart, error) {
	args := m.Called(ctx, cart)
	created, _ := args.Get(0).(model.Cart)
	return created, args.Error(1)
}

func (m *CartRepoMock) UpdateTotalPrice(ctx context.Context, cartID int64, total float64) error {
	args := m.Called(ctx, cartID, total)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, priceSnapshot float64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, productID, addQty, priceSnapshot)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	total, _ := args.Get(1).(int64)
	return ps, total, args.Error(2)
}

func (m *ProductRepoMock) ListByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error) {
	args := m.Called(ctx, categoryID)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newCartUsecase() (*usecase.CartUsecase, *CartRepoMock, *CartItemRepoMock, *ProductRepoMock) {
	cartRepo := new(CartRepoMock)
	itemRepo := new(CartItemRepoMock)
	productRepo := new(ProductRepoMock)
	return usecase.NewCartUsecase(cartRepo, itemRepo, productRepo), cartRepo, itemRepo, productRepo
}

func assertHTTPError(t *testing.T, err error, wantStatus int, wantMsg string) {
	t.Helper()

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, wantStatus, he.Status)
		assert.Equal(t, wantMsg, he.Message)
	}
}

// =====================
// AddItem
// =====================

func TestCartUsecase_AddItem_SnapshotsPriceAndRecomputesTotal(t *testing.T) {
	u, cartRepo, itemRepo, productRepo := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("FindByID", ctx, int64(3)).Return(model.Cart{ID: 3, UserID: 1}, nil)
	productRepo.On("FindByID", ctx, int64(7)).Return(model.Product{ID: 7, Name: "Beans", Price: 9.5}, nil)

	// 価格スナップショット付きでupsertされる
	itemRepo.On("UpsertByCartAndProduct", ctx, int64(3), int64(7), int64(2), 9.5).
		Return(model.CartItem{ID: 9, CartID: 3, ProductID: 7, Quantity: 2, Price: 9.5}, nil)

	itemRepo.On("ListByCartID", ctx, int64(3)).Return([]model.CartItem{
		{ID: 9, CartID: 3, ProductID: 7, Quantity: 2, Price: 9.5},
		{ID: 10, CartID: 3, ProductID: 8, Quantity: 1, Price: 20},
	}, nil)
	cartRepo.On("UpdateTotalPrice", ctx, int64(3), 39.0).Return(nil)

	item, err := u.AddItem(ctx, 3, usecase.AddItemInput{ProductID: 7, Quantity: 2})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), item.ID)
	assert.Equal(t, 9.5, item.Price)

	cartRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestCartUsecase_AddItem_InvalidQuantity(t *testing.T) {
	u, _, itemRepo, _ := newCartUsecase()

	_, err := u.AddItem(context.Background(), 3, usecase.AddItemInput{ProductID: 7, Quantity: 0})

	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")
	itemRepo.AssertNotCalled(t, "UpsertByCartAndProduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddItem_CartNotFound(t *testing.T) {
	u, cartRepo, _, _ := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("FindByID", ctx, int64(999)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := u.AddItem(ctx, 999, usecase.AddItemInput{ProductID: 7, Quantity: 1})

	assertHTTPError(t, err, http.StatusNotFound, "cart not found")
}

func TestCartUsecase_AddItem_ProductNotFound(t *testing.T) {
	u, cartRepo, _, productRepo := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("FindByID", ctx, int64(3)).Return(model.Cart{ID: 3}, nil)
	productRepo.On("FindByID", ctx, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	_, err := u.AddItem(ctx, 3, usecase.AddItemInput{ProductID: 404, Quantity: 1})

	assertHTTPError(t, err, http.StatusNotFound, "product not found")
}

// =====================
// UpdateItemQuantity
// =====================

func TestCartUsecase_UpdateItemQuantity_RecomputesTotal(t *testing.T) {
	u, cartRepo, itemRepo, _ := newCartUsecase()
	ctx := context.Background()

	itemRepo.On("FindByID", ctx, int64(9)).
		Return(model.CartItem{ID: 9, CartID: 3, ProductID: 7, Quantity: 2, Price: 10}, nil)
	itemRepo.On("UpdateQuantity", ctx, int64(9), int64(4)).Return(nil)
	itemRepo.On("ListByCartID", ctx, int64(3)).Return([]model.CartItem{
		{ID: 9, CartID: 3, ProductID: 7, Quantity: 4, Price: 10},
	}, nil)
	cartRepo.On("UpdateTotalPrice", ctx, int64(3), 40.0).Return(nil)
	cartRepo.On("FindByID", ctx, int64(3)).
		Return(model.Cart{ID: 3, UserID: 1, TotalPrice: 40}, nil)

	cart, err := u.UpdateItemQuantity(ctx, 3, 9, usecase.UpdateItemInput{Quantity: 4})

	assert.NoError(t, err)
	assert.Equal(t, 40.0, cart.TotalPrice)
	itemRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_UpdateItemQuantity_BelowOne(t *testing.T) {
	u, _, itemRepo, _ := newCartUsecase()

	_, err := u.UpdateItemQuantity(context.Background(), 3, 9, usecase.UpdateItemInput{Quantity: 0})

	assertHTTPError(t, err, http.StatusBadRequest, "invalid quantity")
	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

// 別カートの明細は触れない
func TestCartUsecase_UpdateItemQuantity_WrongCart(t *testing.T) {
	u, _, itemRepo, _ := newCartUsecase()
	ctx := context.Background()

	itemRepo.On("FindByID", ctx, int64(9)).
		Return(model.CartItem{ID: 9, CartID: 99, ProductID: 7, Quantity: 2, Price: 10}, nil)

	_, err := u.UpdateItemQuantity(ctx, 3, 9, usecase.UpdateItemInput{Quantity: 4})

	assertHTTPError(t, err, http.StatusNotFound, "cart item not found")
	itemRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// RemoveItem
// =====================

func TestCartUsecase_RemoveItem_RecomputesTotal(t *testing.T) {
	u, cartRepo, itemRepo, _ := newCartUsecase()
	ctx := context.Background()

	itemRepo.On("FindByID", ctx, int64(9)).
		Return(model.CartItem{ID: 9, CartID: 3, ProductID: 7, Quantity: 2, Price: 10}, nil)
	itemRepo.On("DeleteByID", ctx, int64(9)).Return(nil)
	itemRepo.On("ListByCartID", ctx, int64(3)).Return([]model.CartItem{}, nil)
	cartRepo.On("UpdateTotalPrice", ctx, int64(3), 0.0).Return(nil)

	err := u.RemoveItem(ctx, 3, 9)

	assert.NoError(t, err)
	itemRepo.AssertExpectations(t)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_RemoveItem_NotFound(t *testing.T) {
	u, _, itemRepo, _ := newCartUsecase()
	ctx := context.Background()

	itemRepo.On("FindByID", ctx, int64(999)).Return(model.CartItem{}, repo.ErrNotFound)

	err := u.RemoveItem(ctx, 3, 999)

	assertHTTPError(t, err, http.StatusNotFound, "cart item not found")
	itemRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

// =====================
// ListCartsByUser / CreateCart / GetCart
// =====================

func TestCartUsecase_ListCartsByUser_InvalidUser(t *testing.T) {
	u, _, _, _ := newCartUsecase()

	_, err := u.ListCartsByUser(context.Background(), 0)

	assertHTTPError(t, err, http.StatusBadRequest, "invalid user id")
}

func TestCartUsecase_CreateCart(t *testing.T) {
	u, cartRepo, _, _ := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("Create", ctx, model.Cart{UserID: 1}).
		Return(model.Cart{ID: 11, UserID: 1}, nil)

	cart, err := u.CreateCart(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), cart.ID)
}

func TestCartUsecase_GetCart_NotFound(t *testing.T) {
	u, cartRepo, _, _ := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("FindByID", ctx, int64(999)).Return(model.Cart{}, repo.ErrNotFound)

	_, err := u.GetCart(ctx, 999)

	assertHTTPError(t, err, http.StatusNotFound, "cart not found")
}

func TestCartUsecase_GetCart_DBError(t *testing.T) {
	u, cartRepo, _, _ := newCartUsecase()
	ctx := context.Background()

	cartRepo.On("FindByID", ctx, int64(3)).Return(model.Cart{}, errors.New("connection reset"))

	_, err := u.GetCart(ctx, 3)

	assertHTTPError(t, err, http.StatusInternalServerError, "db error")
}
