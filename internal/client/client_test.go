package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/client"

	"github.com/stretchr/testify/assert"
)

// Goエクスポート名のまま返すサーバでも正規形で受け取れることを確認する
func TestClient_CartsByUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/carts/user/1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"ID": 3, "UserID": 1, "TotalPrice": 30,
			"Items": [{"ID": 9, "CartID": 3, "ProductID": 7, "Quantity": 2, "Price": 15}]
		}]`))
	}))
	defer srv.Close()

	carts, err := client.New(srv.URL).CartsByUser(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, len(carts))
	assert.Equal(t, int64(3), carts[0].ID)
	assert.Equal(t, 30.0, carts[0].TotalPrice)
	assert.Equal(t, 1, len(carts[0].Items))
	assert.Equal(t, int64(7), carts[0].Items[0].ProductID)
}

func TestClient_CreateCart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["user_id"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 11, "user_id": 1, "total_price": 0, "items": []}`))
	}))
	defer srv.Close()

	cart, err := client.New(srv.URL).CreateCart(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), cart.ID)
	assert.Equal(t, int64(1), cart.UserID)
}

func TestClient_AddItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts/3/items", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["product_id"])
		assert.Equal(t, float64(2), body["quantity"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 9, "cart_id": 3, "product_id": 7, "quantity": 2, "price": 15}`))
	}))
	defer srv.Close()

	item, err := client.New(srv.URL).AddItem(context.Background(), 3, 7, 2)

	assert.NoError(t, err)
	assert.Equal(t, int64(9), item.ID)
	assert.Equal(t, 15.0, item.Price)
}

func TestClient_UpdateItemQuantity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/carts/3/items/9", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(4), body["quantity"])

		_, _ = w.Write([]byte(`{"id": 3, "user_id": 1, "total_price": 60, "items": []}`))
	}))
	defer srv.Close()

	err := client.New(srv.URL).UpdateItemQuantity(context.Background(), 3, 9, 4)
	assert.NoError(t, err)
}

func TestClient_RemoveItem_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/carts/3/items/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := client.New(srv.URL).RemoveItem(context.Background(), 3, 9)
	assert.NoError(t, err)
}

func TestClient_ProductByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"ID": 7, "Name": "Beans", "Price": 15.5, "CategoryID": 3}`))
	}))
	defer srv.Close()

	p, err := client.New(srv.URL).ProductByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Beans", p.Name)
	assert.Equal(t, 15.5, p.Price)
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL).ProductByID(context.Background(), 7)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
