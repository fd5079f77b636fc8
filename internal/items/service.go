package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/errors"
)

// BorrowRecorder appends a borrow action for an item through the ledger.
// Implemented by the actions service; the scan path must never flip status
// without a ledger row behind it.
type BorrowRecorder interface {
	RecordBorrow(ctx context.Context, userID, itemID int64) (*models.Action, error)
}

// Service defines operations over the item catalog.
type Service interface {
	List(ctx context.Context) ([]ItemWithStatus, error)
	Create(ctx context.Context, input CreateItemInput) (*models.Item, error)
	OverrideStatus(ctx context.Context, id int64, status string) (*models.Item, error)
	DeleteType(ctx context.Context, typeCode string) (int64, error)
	Scan(ctx context.Context, input ScanInput) (*ScanResult, error)
}

// CreateItemInput registers one item. Codes are generated from the type name
// when omitted and validated for consistency when supplied.
type CreateItemInput struct {
	TypeName   string `json:"type_name"`
	TypeCode   string `json:"type_code"`
	SerialCode string `json:"serial_code"`
	Barcode    string `json:"barcode"`
}

// ScanInput borrows an item by its printed barcode.
type ScanInput struct {
	Barcode string `json:"barcode"`
	UserID  int64  `json:"user_id"`
}

// ScanResult confirms the borrow recorded by a scan.
type ScanResult struct {
	ItemID   int64  `json:"item_id"`
	Barcode  string `json:"barcode"`
	TypeName string `json:"type_name"`
	ActionID int64  `json:"action_id"`
}

type service struct {
	repo     Repository
	recorder BorrowRecorder
}

// NewService wires an item service with the provided repository. The recorder
// may be attached later to break the construction cycle with actions.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

// AttachRecorder binds the ledger recorder used by Scan.
func AttachRecorder(svc Service, recorder BorrowRecorder) {
	if impl, ok := svc.(*service); ok {
		impl.recorder = recorder
	}
}

func (s *service) List(ctx context.Context) ([]ItemWithStatus, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing items")
	}
	return rows, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	typeName := strings.TrimSpace(input.TypeName)
	if typeName == "" {
		return nil, errors.New(errors.CodeValidation, "type_name is required")
	}

	typeCode := strings.TrimSpace(input.TypeCode)
	serialCode := strings.TrimSpace(input.SerialCode)
	barcode := strings.TrimSpace(input.Barcode)

	if typeCode == "" || serialCode == "" {
		count, err := s.repo.CountByTypeName(ctx, typeName)
		if err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "counting items for code generation")
		}
		genType, genSerial, _ := GenerateCode(typeName, int(count)+1)
		if typeCode == "" {
			typeCode = genType
		}
		if serialCode == "" {
			serialCode = genSerial
		}
	}
	if barcode == "" {
		barcode = typeCode + serialCode
	} else if barcode != typeCode+serialCode {
		return nil, errors.New(errors.CodeValidation, "barcode does not match type_code and serial_code").
			WithDetails(map[string]any{"expected": typeCode + serialCode, "got": barcode})
	}

	item := &models.Item{
		TypeName:   typeName,
		TypeCode:   typeCode,
		SerialCode: serialCode,
		Barcode:    barcode,
		Status:     enums.ItemStatusAvailable,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, errors.New(errors.CodeConflict, "barcode already exists").
				WithDetails(map[string]any{"barcode": barcode})
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "creating item")
	}
	return item, nil
}

func (s *service) OverrideStatus(ctx context.Context, id int64, status string) (*models.Item, error) {
	parsed, err := enums.ParseItemStatus(status)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, err.Error())
	}

	rows, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating item status")
	}
	if rows == 0 {
		return nil, errors.New(errors.CodeNotFound, "item not found")
	}
	return s.getByID(ctx, id)
}

func (s *service) DeleteType(ctx context.Context, typeCode string) (int64, error) {
	typeCode = strings.TrimSpace(typeCode)
	if typeCode == "" {
		return 0, errors.New(errors.CodeValidation, "type code is required")
	}
	rows, err := s.repo.DeleteByTypeCode(ctx, typeCode)
	if err != nil {
		return 0, errors.Wrap(errors.CodeDependency, err, "deleting items by type")
	}
	if rows == 0 {
		return 0, errors.New(errors.CodeNotFound, "no items with that type code")
	}
	return rows, nil
}

// Scan borrows an item by barcode. The availability guard here is a fast
// pre-check; the recorder re-derives inside its transaction.
func (s *service) Scan(ctx context.Context, input ScanInput) (*ScanResult, error) {
	barcode := strings.TrimSpace(input.Barcode)
	if barcode == "" {
		return nil, errors.New(errors.CodeValidation, "barcode is required")
	}
	if input.UserID <= 0 {
		return nil, errors.New(errors.CodeValidation, "user_id is required")
	}
	if s.recorder == nil {
		return nil, errors.New(errors.CodeInternal, "scan recorder not configured")
	}

	item, err := s.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "looking up barcode")
	}
	if item == nil {
		return nil, errors.New(errors.CodeNotFound, "item not found")
	}

	action, err := s.recorder.RecordBorrow(ctx, input.UserID, item.ID)
	if err != nil {
		if typed := errors.As(err); typed != nil && typed.Code() == errors.CodeStateConflict {
			return nil, errors.New(errors.CodeNotFound, "item not available")
		}
		return nil, err
	}

	return &ScanResult{
		ItemID:   item.ID,
		Barcode:  item.Barcode,
		TypeName: item.TypeName,
		ActionID: action.ID,
	}, nil
}

func (s *service) getByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "fetching item")
	}
	if item == nil {
		return nil, errors.New(errors.CodeNotFound, "item not found")
	}
	return item, nil
}
