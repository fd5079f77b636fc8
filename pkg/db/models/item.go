package models

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// Item is a physical asset tracked by the stockroom. Barcode is the printable
// concatenation of type_code and serial_code. Status mirrors the latest ledger
// action and is refreshed inside the same transaction that appends the action.
type Item struct {
	ID         int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TypeName   string           `gorm:"column:type_name;not null;index" json:"type_name"`
	TypeCode   string           `gorm:"column:type_code;not null;index" json:"type_code"`
	SerialCode string           `gorm:"column:serial_code;not null" json:"serial_code"`
	Barcode    string           `gorm:"column:barcode;not null;uniqueIndex" json:"barcode"`
	Status     enums.ItemStatus `gorm:"column:status;not null;default:available" json:"status"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Item) TableName() string { return "items" }
