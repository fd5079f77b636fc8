package models

import (
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// Action is one append-only ledger row. Rows are never updated or deleted;
// item state is derived from the most recent action per item, ordered by
// timestamp with the row id breaking ties.
type Action struct {
	ID        int64            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ItemID    int64            `gorm:"column:item_id;not null;index" json:"item_id"`
	UserID    int64            `gorm:"column:user_id;not null;index" json:"user_id"`
	Action    enums.ActionType `gorm:"column:action;not null" json:"action_type"`
	Timestamp time.Time        `gorm:"column:timestamp;not null;index" json:"timestamp"`
}

func (Action) TableName() string { return "actions" }
