package models

import "github.com/angelmondragon/cartkeeper/pkg/types"

// Cart is the persisted cart row. Timestamps are epoch milliseconds.
type Cart struct {
	CartID      string          `gorm:"column:cart_id;primaryKey"`
	Items       types.LineItems `gorm:"column:items;type:text;not null"`
	LastUpdated int64           `gorm:"column:last_updated;not null;index:idx_carts_last_updated"`
	CreatedAt   int64           `gorm:"column:created_at;not null;autoCreateTime:milli"`
	ItemCount   int             `gorm:"column:item_count;not null"`
	Version     int64           `gorm:"column:version;not null;default:1"`
}

func (Cart) TableName() string {
	return "carts"
}
