package cartstate

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RemoteAPI はカート/商品APIのうちManagerが使う操作。
// 実装は internal/client（応答は正規化済みで返ること）。
type RemoteAPI interface {
	CartsByUser(ctx context.Context, userID int64) ([]model.Cart, error)
	CreateCart(ctx context.Context, userID int64) (model.Cart, error)
	CartByID(ctx context.Context, cartID int64) (model.Cart, error)
	AddItem(ctx context.Context, cartID int64, productID int64, quantity int64) (model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, cartID int64, itemID int64, quantity int64) error
	RemoveItem(ctx context.Context, cartID int64, itemID int64) error
	ProductByID(ctx context.Context, productID int64) (model.Product, error)
}

type ProductCache interface {
	Get(productID int64) (model.Product, bool)
	Put(p model.Product)
}

const remoteSyncTimeout = 10 * time.Second

// Manager は1ユーザー分のカート状態の正を持つ。
// リモートAPIと同期しつつ、失敗時はローカルだけで動き続ける。
// どの操作もリモートのエラーを呼び出し側へは返さない。
//
// genは操作ごとに進む世代カウンタ。リモートから取り直したカートは
// 取得を始めた世代がまだ最新のときだけ反映する（遅れて届いた応答で
// 新しい状態を上書きしないため）。
type Manager struct {
	api   RemoteAPI
	cache ProductCache
	log   *logrus.Logger

	mu          sync.Mutex
	cart        model.Cart
	items       []model.CartItem
	total       float64
	loading     bool
	initialized bool
	gen         uint64
}

func NewManager(api RemoteAPI, cache ProductCache, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.New()
	}
	return &Manager{
		api:   api,
		cache: cache,
		log:   log,
	}
}

// Initialize はユーザーの既存カートを取得し、無ければ作成する。
// どちらも失敗したらローカル専用の空カートで開始する。
// 完了までの間、読み取りは空のロード中カートを見る。
func (m *Manager) Initialize(ctx context.Context, userID int64) {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	logf := m.opLog("initialize").WithField("user_id", userID)

	cart, items, err := m.fetchInitialCart(ctx, userID)
	if err != nil {
		logf.WithError(err).Warn("remote cart unavailable, starting with local cart")
		cart = model.Cart{UserID: userID, Local: true}
		items = nil
	}

	m.mu.Lock()
	m.cart = cart
	m.items = items
	m.total = sumTotal(items)
	m.loading = false
	m.initialized = true
	m.mu.Unlock()
}

func (m *Manager) fetchInitialCart(ctx context.Context, userID int64) (model.Cart, []model.CartItem, error) {
	carts, err := m.api.CartsByUser(ctx, userID)
	if err != nil {
		return model.Cart{}, nil, err
	}

	if len(carts) > 0 {
		cart := carts[0]
		items := m.enrichItems(ctx, cart.Items)
		cart.Items = nil
		return cart, items, nil
	}

	cart, err := m.api.CreateCart(ctx, userID)
	if err != nil {
		return model.Cart{}, nil, err
	}
	cart.Items = nil
	return cart, nil, nil
}

// AddItem は商品をカートへ追加する。
// 商品の表示データはリモートの成否に関わらず先にキャッシュする。
// リモート追加に成功したらカートを取り直して状態を丸ごと置き換え、
// 失敗したらローカルへマージする（同一商品は数量加算）。
func (m *Manager) AddItem(ctx context.Context, product model.Product, quantity int64) {
	if quantity < 1 {
		quantity = 1
	}

	m.cache.Put(product)

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return
	}
	m.gen++
	gen := m.gen
	cart := m.cart
	m.mu.Unlock()

	logf := m.opLog("add_item").WithField("product_id", product.ID)

	if !cart.Local {
		if _, err := m.api.AddItem(ctx, cart.ID, product.ID, quantity); err != nil {
			logf.WithError(err).Warn("remote add failed, merging locally")
		} else if err := m.refresh(ctx, cart.ID, gen); err != nil {
			logf.WithError(err).Warn("cart refresh failed after add, merging locally")
		} else {
			return
		}
	}

	//ローカルフォールバック
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		// もっと新しい操作が走っている
		return
	}

	merged := false
	for i := range m.items {
		if m.items[i].ProductID == product.ID {
			m.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		p := product
		m.items = append(m.items, model.CartItem{
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price,
			Product:   &p,
		})
	}

	m.total = sumTotal(m.items)
}

// UpdateQuantity は明細の数量を変更する。1未満は何もしない。
// ローカルの変更が正であり、リモート同期はベストエフォート
// （結果は状態に反映しない。失敗してもロールバックしない）。
func (m *Manager) UpdateQuantity(ctx context.Context, itemID int64, quantity int64) {
	if quantity < 1 {
		return
	}

	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return
	}

	idx := m.indexOf(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}

	m.items[idx].Quantity = quantity
	m.total = sumTotal(m.items)
	m.gen++
	cart := m.cart
	m.mu.Unlock()

	if cart.Local {
		return
	}

	logf := m.opLog("update_quantity").WithField("item_id", itemID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteSyncTimeout)
		defer cancel()

		if err := m.api.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
			logf.WithError(err).Warn("remote quantity sync failed, keeping local state")
		}
	}()
}

// RemoveItem は明細を先にローカルから外し（楽観的削除）、
// リモート削除に成功したら正のカートを取り直す。
// リモートが失敗しても楽観的削除はそのまま残す。存在しないIDは何もしない。
func (m *Manager) RemoveItem(ctx context.Context, itemID int64) {
	m.mu.Lock()
	if !m.initialized {
		m.mu.Unlock()
		return
	}

	idx := m.indexOf(itemID)
	if idx < 0 {
		m.mu.Unlock()
		return
	}

	m.items = append(m.items[:idx], m.items[idx+1:]...)
	m.total = sumTotal(m.items)
	m.gen++
	gen := m.gen
	cart := m.cart
	m.mu.Unlock()

	if cart.Local {
		return
	}

	logf := m.opLog("remove_item").WithField("item_id", itemID)

	if err := m.api.RemoveItem(ctx, cart.ID, itemID); err != nil {
		logf.WithError(err).Warn("remote remove failed, keeping optimistic state")
		return
	}
	if err := m.refresh(ctx, cart.ID, gen); err != nil {
		logf.WithError(err).Warn("cart refresh failed after remove")
	}
}

// ClearCart はローカルの明細と合計だけを空に戻す。リモートは呼ばない。
func (m *Manager) ClearCart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}

	m.items = nil
	m.total = 0
	m.gen++
}

// refresh はリモートの最新カートを取り直してローカル状態を置き換える。
// 取得中に世代が進んでいたら何もしない（古い応答は捨てる）。
func (m *Manager) refresh(ctx context.Context, cartID int64, gen uint64) error {
	cart, err := m.api.CartByID(ctx, cartID)
	if err != nil {
		return err
	}

	items := m.enrichItems(ctx, cart.Items)
	cart.Items = nil

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return nil
	}

	m.cart = cart
	m.items = items
	m.total = sumTotal(items)
	return nil
}

func (m *Manager) Cart() model.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cart
}

func (m *Manager) Items() []model.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.CartItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) TotalPrice() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.total
}

func (m *Manager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.loading
}

// 呼び出し側はロックを持っていること
func (m *Manager) indexOf(itemID int64) int {
	for i := range m.items {
		if m.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (m *Manager) opLog(op string) *logrus.Entry {
	return m.log.WithFields(logrus.Fields{
		"op":         op,
		"request_id": uuid.NewString(),
	})
}

func sumTotal(items []model.CartItem) float64 {
	var total float64 = 0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
