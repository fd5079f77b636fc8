package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stockroomhq/stockroom-backend/internal/actions"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/errors"
)

// HoldingsProvider derives current holdings from the action ledger.
// Implemented by the actions service.
type HoldingsProvider interface {
	Holdings(ctx context.Context, userID int64) ([]actions.Holding, error)
	AllHoldings(ctx context.Context) (map[int64][]actions.Holding, error)
}

// UserWithHoldings is a user annotated with ledger-derived holdings. The
// stored borrowed_items snapshot is not consulted on reads.
type UserWithHoldings struct {
	models.User
	Holdings []actions.Holding `json:"holdings"`
}

// Service defines operations over registered users.
type Service interface {
	List(ctx context.Context) ([]UserWithHoldings, error)
	Get(ctx context.Context, id int64) (*UserWithHoldings, error)
	Create(ctx context.Context, input UpsertUserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input UpsertUserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UpsertUserInput carries the writable user fields. BorrowedItems seeds the
// compatibility snapshot; the ledger remains authoritative afterwards.
type UpsertUserInput struct {
	Name          string   `json:"name"`
	Permission    string   `json:"permission"`
	BorrowedItems []string `json:"borrowed_items"`
}

type service struct {
	repo     Repository
	holdings HoldingsProvider
}

// NewService wires a user service with the provided repository and ledger
// derivation.
func NewService(repo Repository, holdings HoldingsProvider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if holdings == nil {
		return nil, fmt.Errorf("holdings provider required")
	}
	return &service{repo: repo, holdings: holdings}, nil
}

func (s *service) List(ctx context.Context) ([]UserWithHoldings, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing users")
	}
	byUser, err := s.holdings.AllHoldings(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserWithHoldings, 0, len(rows))
	for _, user := range rows {
		held := byUser[user.ID]
		if held == nil {
			held = []actions.Holding{}
		}
		out = append(out, UserWithHoldings{User: user, Holdings: held})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id int64) (*UserWithHoldings, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "fetching user")
	}
	if user == nil {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}
	held, err := s.holdings.Holdings(ctx, id)
	if err != nil {
		return nil, err
	}
	if held == nil {
		held = []actions.Holding{}
	}
	return &UserWithHoldings{User: *user, Holdings: held}, nil
}

func (s *service) Create(ctx context.Context, input UpsertUserInput) (*models.User, error) {
	user, err := userFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "creating user")
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpsertUserInput) (*models.User, error) {
	user, err := userFromInput(input)
	if err != nil {
		return nil, err
	}
	user.ID = id

	rows, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "updating user")
	}
	if rows == 0 {
		return nil, errors.New(errors.CodeNotFound, "user not found")
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "fetching user")
	}
	return updated, nil
}

// Delete removes a user unconditionally. Ledger rows referencing the user
// survive and list with a null user side.
func (s *service) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting user")
	}
	if rows == 0 {
		return errors.New(errors.CodeNotFound, "user not found")
	}
	return nil
}

func userFromInput(input UpsertUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New(errors.CodeValidation, "name is required")
	}
	permission, err := enums.ParsePermission(input.Permission)
	if err != nil {
		return nil, errors.New(errors.CodeValidation, err.Error())
	}

	snapshot := "[]"
	if len(input.BorrowedItems) > 0 {
		encoded, err := json.Marshal(input.BorrowedItems)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, err, "encoding borrowed items")
		}
		snapshot = string(encoded)
	}

	return &models.User{
		Name:          name,
		Permission:    permission,
		BorrowedItems: snapshot,
	}, nil
}
