package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
)

// Client はリモートのカート/商品APIを呼ぶHTTPクライアント。
// 応答は必ずNormalize*を通して正規形で返す。
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ユーザーのカート一覧を取得
func (c *Client) CartsByUser(ctx context.Context, userID int64) ([]model.Cart, error) {
	body, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/carts/user/%d", userID), nil)
	if err != nil {
		return nil, err
	}

	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode carts: %w", err)
	}

	carts := make([]model.Cart, 0, len(raw))
	for _, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		carts = append(carts, NormalizeCart(m))
	}
	return carts, nil
}

func (c *Client) CreateCart(ctx context.Context, userID int64) (model.Cart, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/carts", map[string]any{"user_id": userID})
	if err != nil {
		return model.Cart{}, err
	}
	return c.decodeCart(body)
}

func (c *Client) CartByID(ctx context.Context, cartID int64) (model.Cart, error) {
	body, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/carts/%d", cartID), nil)
	if err != nil {
		return model.Cart{}, err
	}
	return c.decodeCart(body)
}

func (c *Client) AddItem(ctx context.Context, cartID int64, productID int64, quantity int64) (model.CartItem, error) {
	body, err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/carts/%d/items", cartID), map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	})
	if err != nil {
		return model.CartItem{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.CartItem{}, fmt.Errorf("decode cart item: %w", err)
	}
	return NormalizeCartItem(raw), nil
}

func (c *Client) UpdateItemQuantity(ctx context.Context, cartID int64, itemID int64, quantity int64) error {
	_, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/carts/%d/items/%d", cartID, itemID), map[string]any{
		"quantity": quantity,
	})
	return err
}

func (c *Client) RemoveItem(ctx context.Context, cartID int64, itemID int64) error {
	_, err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/carts/%d/items/%d", cartID, itemID), nil)
	return err
}

func (c *Client) ProductByID(ctx context.Context, productID int64) (model.Product, error) {
	body, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil)
	if err != nil {
		return model.Product{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.Product{}, fmt.Errorf("decode product: %w", err)
	}
	return NormalizeProduct(raw), nil
}

func (c *Client) decodeCart(body []byte) (model.Cart, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return NormalizeCart(raw), nil
}

// JSONでリクエストして本文を返す。2xx以外はエラー。
func (c *Client) doJSON(ctx context.Context, method string, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	return body, nil
}
