package cartstate

import (
	"context"

	"storefront/internal/domain/model"

	"golang.org/x/sync/errgroup"
)

// enrichItems は明細ごとの商品情報を埋める。
// 明細ごとの解決は並行に走らせるが、全件出揃ってからまとめて返す
// （途中の状態を読み取り側に見せない）。
func (m *Manager) enrichItems(ctx context.Context, raw []model.CartItem) []model.CartItem {
	if len(raw) == 0 {
		return nil
	}

	items := make([]model.CartItem, len(raw))

	eg, ctx := errgroup.WithContext(ctx)
	for i := range raw {
		i := i
		eg.Go(func() error {
			items[i] = m.enrichItem(ctx, raw[i])
			return nil
		})
	}

	//enrichItemは失敗を返さない（埋められない明細はそのまま残す）
	_ = eg.Wait()

	return items
}

// 埋め込み済み→キャッシュ→リモートの順で解決する。
// どれも駄目なら商品情報なしのまま返す（表示はDisplayNameのフォールバック）。
func (m *Manager) enrichItem(ctx context.Context, item model.CartItem) model.CartItem {
	if item.Product != nil {
		m.cache.Put(*item.Product)
		return item
	}

	if p, ok := m.cache.Get(item.ProductID); ok {
		item.Product = &p
		return item
	}

	p, err := m.api.ProductByID(ctx, item.ProductID)
	if err != nil {
		m.log.WithError(err).WithField("product_id", item.ProductID).
			Debug("product fetch failed, keeping item without detail")
		return item
	}

	m.cache.Put(p)
	item.Product = &p
	return item
}
