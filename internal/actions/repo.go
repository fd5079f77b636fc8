package actions

import (
	"context"
	"errors"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"gorm.io/gorm"
)

// EnrichedAction is one ledger row joined with its user and item. The joined
// sides are pointers because referents may have been deleted; history rows
// outlive both.
type EnrichedAction struct {
	ID           int64            `gorm:"column:id" json:"id"`
	UserID       int64            `gorm:"column:user_id" json:"user_id"`
	ItemID       int64            `gorm:"column:item_id" json:"item_id"`
	Action       enums.ActionType `gorm:"column:action" json:"action_type"`
	Timestamp    time.Time        `gorm:"column:timestamp" json:"timestamp"`
	UserName     *string          `gorm:"column:user_name" json:"user_name"`
	ItemTypeName *string          `gorm:"column:item_type_name" json:"item_type_name"`
	ItemBarcode  *string          `gorm:"column:item_barcode" json:"item_barcode"`
}

// Holding is one item currently held by a user, derived from the ledger.
type Holding struct {
	UserID     int64     `gorm:"column:user_id" json:"user_id"`
	ItemID     int64     `gorm:"column:item_id" json:"item_id"`
	TypeName   string    `gorm:"column:type_name" json:"type_name"`
	Barcode    string    `gorm:"column:barcode" json:"barcode"`
	BorrowedAt time.Time `gorm:"column:borrowed_at" json:"borrowed_at"`
}

// ListParams filters the enriched ledger listing.
type ListParams struct {
	Limit           int
	CursorTimestamp *time.Time
	CursorID        int64
}

// Repository manages persistence for the action ledger. Rows are append-only;
// the only destructive operation is the explicit admin delete.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, action *models.Action) error
	List(ctx context.Context, params ListParams) ([]EnrichedAction, error)
	ListRecent(ctx context.Context, limit int) ([]EnrichedAction, error)
	GetByID(ctx context.Context, id int64) (*models.Action, error)
	Delete(ctx context.Context, id int64) (int64, error)
	LastForItem(ctx context.Context, itemID int64) (*models.Action, error)
	CountBorrowed(ctx context.Context) (int64, error)
	Holdings(ctx context.Context, userID int64) ([]Holding, error)
	AllHoldings(ctx context.Context) ([]Holding, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	SetItemStatus(ctx context.Context, itemID int64, status enums.ItemStatus) error
	SetUserBorrowedItems(ctx context.Context, userID int64, snapshot string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, action *models.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

const enrichedSelect = `
	SELECT a.id, a.user_id, a.item_id, a.action, a.timestamp,
	       u.name AS user_name,
	       i.type_name AS item_type_name,
	       i.barcode AS item_barcode
	FROM actions a
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN items i ON i.id = a.item_id`

func (r *repository) List(ctx context.Context, params ListParams) ([]EnrichedAction, error) {
	query := enrichedSelect
	args := []any{}
	if params.CursorTimestamp != nil {
		query += `
	WHERE (a.timestamp < ? OR (a.timestamp = ? AND a.id < ?))`
		args = append(args, *params.CursorTimestamp, *params.CursorTimestamp, params.CursorID)
	}
	query += `
	ORDER BY a.timestamp DESC, a.id DESC
	LIMIT ?`
	args = append(args, params.Limit)

	var rows []EnrichedAction
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]EnrichedAction, error) {
	return r.List(ctx, ListParams{Limit: limit})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).First(&action, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Action{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// LastForItem returns the chronologically last action for an item, with the
// row id breaking timestamp ties.
func (r *repository) LastForItem(ctx context.Context, itemID int64) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("timestamp DESC").
		Order("id DESC").
		First(&action).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func (r *repository) CountBorrowed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM items i
		WHERE (
			SELECT a.action FROM actions a
			WHERE a.item_id = i.id
			ORDER BY a.timestamp DESC, a.id DESC
			LIMIT 1
		) = 'borrow'`).Scan(&count).Error
	return count, err
}

const holdingsSelect = `
	SELECT b.user_id, b.item_id,
	       COALESCE(i.type_name, '') AS type_name,
	       COALESCE(i.barcode, '') AS barcode,
	       b.timestamp AS borrowed_at
	FROM actions b
	LEFT JOIN items i ON i.id = b.item_id
	WHERE b.action = 'borrow'
	  AND NOT EXISTS (
	      SELECT 1 FROM actions later
	      WHERE later.item_id = b.item_id
	        AND (later.timestamp > b.timestamp
	             OR (later.timestamp = b.timestamp AND later.id > b.id))
	  )`

func (r *repository) Holdings(ctx context.Context, userID int64) ([]Holding, error) {
	var rows []Holding
	err := r.db.WithContext(ctx).
		Raw(holdingsSelect+`
	  AND b.user_id = ?
	ORDER BY b.timestamp ASC, b.id ASC`, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AllHoldings(ctx context.Context) ([]Holding, error) {
	var rows []Holding
	err := r.db.WithContext(ctx).
		Raw(holdingsSelect + `
	ORDER BY b.timestamp ASC, b.id ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UserExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) ItemExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *repository) SetItemStatus(ctx context.Context, itemID int64, status enums.ItemStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", itemID).
		Update("status", status).Error
}

func (r *repository) SetUserBorrowedItems(ctx context.Context, userID int64, snapshot string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("borrowed_items", snapshot).Error
}
