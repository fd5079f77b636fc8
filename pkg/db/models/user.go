package models

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// User is a borrower identity. BorrowedItems is a JSON array snapshot kept for
// compatibility with older clients; holdings are always derivable from the
// action ledger and the derivation wins on read.
type User struct {
	ID            int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name          string           `gorm:"column:name;not null" json:"name"`
	Permission    enums.Permission `gorm:"column:permission;not null;default:User" json:"permission"`
	BorrowedItems string           `gorm:"column:borrowed_items;not null;default:'[]'" json:"borrowed_items"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
