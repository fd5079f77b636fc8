package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
	"gorm.io/gorm"
)

// TxRunner executes fn inside a database transaction. db.Client satisfies it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines operations over the action ledger and the state derived
// from it.
type Service interface {
	Record(ctx context.Context, input RecordActionInput) (*models.Action, error)
	RecordBorrow(ctx context.Context, userID, itemID int64) (*models.Action, error)
	List(ctx context.Context, params pagination.Params) ([]EnrichedAction, string, error)
	ListRecent(ctx context.Context, limit int) ([]EnrichedAction, error)
	Delete(ctx context.Context, id int64) error
	DerivedStatus(ctx context.Context, itemID int64) (enums.ItemStatus, error)
	Holdings(ctx context.Context, userID int64) ([]Holding, error)
	AllHoldings(ctx context.Context) (map[int64][]Holding, error)
	CountBorrowed(ctx context.Context) (int64, error)
}

// RecordActionInput captures the immutable data a ledger row requires. The
// timestamp is always assigned server-side.
type RecordActionInput struct {
	UserID int64            `json:"user_id"`
	ItemID int64            `json:"item_id"`
	Action enums.ActionType `json:"action_type"`
}

type service struct {
	repo Repository
	tx   TxRunner
	inv  *metrics.InventoryMetrics
}

// NewService wires a ledger service. The metrics handle may be nil.
func NewService(repo Repository, tx TxRunner, inv *metrics.InventoryMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("action repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, inv: inv}, nil
}

// Record validates referents, guards borrows against the derived state and
// appends the row. Guard, append and the status/holdings snapshots commit in
// one transaction so concurrent borrows serialize at the database.
func (s *service) Record(ctx context.Context, input RecordActionInput) (*models.Action, error) {
	if input.UserID <= 0 {
		return nil, errors.New(errors.CodeValidation, "user_id is required")
	}
	if input.ItemID <= 0 {
		return nil, errors.New(errors.CodeValidation, "item_id is required")
	}
	if !input.Action.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("invalid action type %q", input.Action))
	}

	action := &models.Action{
		UserID:    input.UserID,
		ItemID:    input.ItemID,
		Action:    input.Action,
		Timestamp: time.Now().UTC(),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ok, err := repo.UserExists(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(errors.CodeDependency, err, "checking user")
		}
		if !ok {
			return errors.New(errors.CodeNotFound, "user not found")
		}

		ok, err = repo.ItemExists(ctx, input.ItemID)
		if err != nil {
			return errors.Wrap(errors.CodeDependency, err, "checking item")
		}
		if !ok {
			return errors.New(errors.CodeNotFound, "item not found")
		}

		last, err := repo.LastForItem(ctx, input.ItemID)
		if err != nil {
			return errors.Wrap(errors.CodeDependency, err, "deriving item state")
		}
		if input.Action == enums.ActionTypeBorrow && last != nil && last.Action == enums.ActionTypeBorrow {
			return errors.New(errors.CodeStateConflict, "item is already borrowed").
				WithDetails(map[string]any{"item_id": input.ItemID})
		}

		if err := repo.Create(ctx, action); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "appending action")
		}

		return s.refreshSnapshots(ctx, repo, input.ItemID, input.UserID)
	})
	if err != nil {
		return nil, err
	}

	s.inv.IncAction(string(input.Action))
	return action, nil
}

func (s *service) RecordBorrow(ctx context.Context, userID, itemID int64) (*models.Action, error) {
	return s.Record(ctx, RecordActionInput{
		UserID: userID,
		ItemID: itemID,
		Action: enums.ActionTypeBorrow,
	})
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]EnrichedAction, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", errors.New(errors.CodeValidation, err.Error())
	}

	limit := pagination.NormalizeLimit(params.Limit)
	// fetch one extra row to detect whether a next page exists
	listParams := ListParams{Limit: pagination.LimitWithBuffer(params.Limit)}
	if cursor != nil {
		ts := cursor.Timestamp
		listParams.CursorTimestamp = &ts
		listParams.CursorID = cursor.ID
	}

	rows, err := s.repo.List(ctx, listParams)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "listing actions")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		tail := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{Timestamp: tail.Timestamp, ID: tail.ID})
	}
	return rows, next, nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]EnrichedAction, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing recent actions")
	}
	return rows, nil
}

// Delete removes a ledger row. This rewrites history and can flip the derived
// state of the touched item, so the snapshots are re-derived in the same
// transaction.
func (s *service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		action, err := repo.GetByID(ctx, id)
		if err != nil {
			return errors.Wrap(errors.CodeDependency, err, "fetching action")
		}
		if action == nil {
			return errors.New(errors.CodeNotFound, "action not found")
		}

		if _, err := repo.Delete(ctx, id); err != nil {
			return errors.Wrap(errors.CodeDependency, err, "deleting action")
		}

		return s.refreshSnapshots(ctx, repo, action.ItemID, action.UserID)
	})
}

// DerivedStatus recomputes an item's state from the ledger.
func (s *service) DerivedStatus(ctx context.Context, itemID int64) (enums.ItemStatus, error) {
	last, err := s.repo.LastForItem(ctx, itemID)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "deriving item state")
	}
	return statusFromLast(last), nil
}

func (s *service) Holdings(ctx context.Context, userID int64) ([]Holding, error) {
	rows, err := s.repo.Holdings(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "deriving holdings")
	}
	return rows, nil
}

func (s *service) AllHoldings(ctx context.Context) (map[int64][]Holding, error) {
	rows, err := s.repo.AllHoldings(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "deriving holdings")
	}
	byUser := make(map[int64][]Holding, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row)
	}
	return byUser, nil
}

func (s *service) CountBorrowed(ctx context.Context) (int64, error) {
	count, err := s.repo.CountBorrowed(ctx)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "counting borrowed items")
	}
	return count, nil
}

// refreshSnapshots re-derives the item status column and the user's
// borrowed_items column inside the caller's transaction.
func (s *service) refreshSnapshots(ctx context.Context, repo Repository, itemID, userID int64) error {
	last, err := repo.LastForItem(ctx, itemID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "re-deriving item state")
	}
	if err := repo.SetItemStatus(ctx, itemID, statusFromLast(last)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating item snapshot")
	}

	holdings, err := repo.Holdings(ctx, userID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "re-deriving holdings")
	}
	// the snapshot column holds type names, mirroring what holdings expose
	typeNames := make([]string, 0, len(holdings))
	for _, h := range holdings {
		typeNames = append(typeNames, h.TypeName)
	}
	snapshot, err := json.Marshal(typeNames)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding holdings snapshot")
	}
	if err := repo.SetUserBorrowedItems(ctx, userID, string(snapshot)); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "updating user snapshot")
	}
	return nil
}

func statusFromLast(last *models.Action) enums.ItemStatus {
	if last != nil && last.Action == enums.ActionTypeBorrow {
		return enums.ItemStatusBorrowed
	}
	return enums.ItemStatusAvailable
}
