package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品のカタログ情報。priceは現在価格（カート明細には追加時点のスナップショットを持つ）。
type Product struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Quantity    int64          `gorm:"not null" json:"quantity"`
	CategoryID  int64          `gorm:"index" json:"category_id"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
