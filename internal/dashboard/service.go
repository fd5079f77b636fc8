package dashboard

import (
	"context"
	"fmt"

	"github.com/stockroomhq/stockroom-backend/internal/actions"
	"github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

// ItemCounter exposes the item totals the summary needs.
type ItemCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// UserCounter exposes the user totals the summary needs.
type UserCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

// LedgerReader derives borrow counts and recent activity from the ledger.
type LedgerReader interface {
	CountBorrowed(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]actions.EnrichedAction, error)
}

// Summary is the aggregate the admin dashboard polls for.
type Summary struct {
	TotalItems     int64                    `json:"total_items"`
	TotalUsers     int64                    `json:"total_users"`
	BorrowedItems  int64                    `json:"borrowed_items"`
	AvailableItems int64                    `json:"available_items"`
	RecentActions  []actions.EnrichedAction `json:"recent_actions"`
}

// Service assembles the dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	items         ItemCounter
	users         UserCounter
	ledger        LedgerReader
	inv           *metrics.InventoryMetrics
	recentActions int
}

// NewService wires a dashboard service. recentActions caps the activity feed;
// the metrics handle may be nil.
func NewService(items ItemCounter, users UserCounter, ledger LedgerReader, inv *metrics.InventoryMetrics, recentActions int) (Service, error) {
	if items == nil || users == nil || ledger == nil {
		return nil, fmt.Errorf("dashboard dependencies required")
	}
	if recentActions <= 0 {
		recentActions = 5
	}
	return &service{
		items:         items,
		users:         users,
		ledger:        ledger,
		inv:           inv,
		recentActions: recentActions,
	}, nil
}

// Summary derives every figure from the database on each call. Clients poll
// this endpoint; the inventory gauges refresh as a side effect.
func (s *service) Summary(ctx context.Context) (*Summary, error) {
	totalItems, err := s.items.CountAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "counting items")
	}
	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "counting users")
	}
	borrowed, err := s.ledger.CountBorrowed(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.ledger.ListRecent(ctx, s.recentActions)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []actions.EnrichedAction{}
	}

	s.inv.SetTotals(totalItems, borrowed)

	return &Summary{
		TotalItems:     totalItems,
		TotalUsers:     totalUsers,
		BorrowedItems:  borrowed,
		AvailableItems: totalItems - borrowed,
		RecentActions:  recent,
	}, nil
}
