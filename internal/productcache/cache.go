package productcache

import (
	"sync"

	"storefront/internal/domain/model"

	"github.com/sirupsen/logrus"
)

// Store はキャッシュ全体を1つのドキュメントとして永続化する。
type Store interface {
	Load() (map[int64]model.Product, error)
	Save(map[int64]model.Product) error
}

// Cache は商品の表示用メタデータをIDで引けるようにする追記専用のキャッシュ。
// メモリ上のmapが常に正であり、永続化の失敗はログに残して無視する。
type Cache struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	store    Store
	log      *logrus.Logger
}

// storeはnilでもよい（その場合はメモリのみ）
func New(store Store, log *logrus.Logger) *Cache {
	if log == nil {
		log = logrus.New()
	}

	c := &Cache{
		products: map[int64]model.Product{},
		store:    store,
		log:      log,
	}

	if store != nil {
		saved, err := store.Load()
		if err != nil {
			log.WithError(err).Warn("product cache load failed, starting empty")
			return c
		}
		for id, p := range saved {
			c.products[id] = p
		}
	}

	return c
}

func (c *Cache) Get(productID int64) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[productID]
	return p, ok
}

// Put は既存エントリを上書きし、map全体を永続化する。
// 入力は正規化済みであること（正規化は取り込み境界で一度だけ行う）。
func (c *Cache) Put(p model.Product) {
	if p.ID == 0 {
		return
	}

	c.mu.Lock()
	c.products[p.ID] = p
	snapshot := make(map[int64]model.Product, len(c.products))
	for id, v := range c.products {
		snapshot[id] = v
	}
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Save(snapshot); err != nil {
		//メモリ上の状態はそのまま使い続ける
		c.log.WithError(err).Warn("product cache persist failed")
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.products)
}
