package model

import "time"

// 1ユーザーの買い物カート。
// total_priceは明細の（価格×数量）の合計。明細の変更ごとに再計算して保存する。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64      `gorm:"not null;index" json:"user_id"`
	TotalPrice float64    `gorm:"not null" json:"total_price"`
	Items      []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// リモートAPIに到達できなかったときにクライアント側だけで使うカートの印。
	// 永続化もシリアライズもしない。
	Local bool `gorm:"-" json:"-"`
}
