package items

import (
	"context"
	"errors"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"gorm.io/gorm"
)

// ItemWithStatus carries an item plus the status derived from the ledger.
type ItemWithStatus struct {
	models.Item
	DerivedStatus enums.ItemStatus `gorm:"column:derived_status"`
}

// Repository manages persistence for items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Item, error)
	List(ctx context.Context) ([]ItemWithStatus, error)
	CountByTypeName(ctx context.Context, typeName string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ItemStatus) (int64, error)
	DeleteByTypeCode(ctx context.Context, typeCode string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an item repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) GetByBarcode(ctx context.Context, barcode string) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List annotates every item with the status derived from its last ledger
// action. The stored status column is a snapshot; the subquery wins.
func (r *repository) List(ctx context.Context) ([]ItemWithStatus, error) {
	var rows []ItemWithStatus
	err := r.db.WithContext(ctx).Raw(`
		SELECT i.*,
		       CASE WHEN (
		           SELECT a.action FROM actions a
		           WHERE a.item_id = i.id
		           ORDER BY a.timestamp DESC, a.id DESC
		           LIMIT 1
		       ) = 'borrow' THEN 'borrowed' ELSE 'available' END AS derived_status
		FROM items i
		ORDER BY i.id`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CountByTypeName(ctx context.Context, typeName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("type_name = ?", typeName).
		Count(&count).Error
	return count, err
}

func (r *repository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error
	return count, err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status enums.ItemStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteByTypeCode(ctx context.Context, typeCode string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("type_code = ?", typeCode).
		Delete(&models.Item{})
	return res.RowsAffected, res.Error
}
