package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stockroomhq/stockroom-backend/internal/actions"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter struct {
	count int64
	err   error
}

func (s stubCounter) CountAll(ctx context.Context) (int64, error) {
	return s.count, s.err
}

type stubLedger struct {
	borrowed int64
	recent   []actions.EnrichedAction
	gotLimit int
}

func (s *stubLedger) CountBorrowed(ctx context.Context) (int64, error) {
	return s.borrowed, nil
}

func (s *stubLedger) ListRecent(ctx context.Context, limit int) ([]actions.EnrichedAction, error) {
	s.gotLimit = limit
	return s.recent, nil
}

func TestSummaryAggregates(t *testing.T) {
	name := "Ada"
	ledger := &stubLedger{
		borrowed: 3,
		recent: []actions.EnrichedAction{
			{ID: 9, UserID: 1, ItemID: 2, Action: enums.ActionTypeBorrow, Timestamp: time.Now().UTC(), UserName: &name},
		},
	}
	svc, err := NewService(stubCounter{count: 10}, stubCounter{count: 4}, ledger, nil, 5)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalItems)
	assert.Equal(t, int64(4), summary.TotalUsers)
	assert.Equal(t, int64(3), summary.BorrowedItems)
	assert.Equal(t, int64(7), summary.AvailableItems)
	require.Len(t, summary.RecentActions, 1)
	assert.Equal(t, 5, ledger.gotLimit)
}

func TestSummaryDefaultsRecentWindow(t *testing.T) {
	ledger := &stubLedger{}
	svc, err := NewService(stubCounter{}, stubCounter{}, ledger, nil, 0)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ledger.gotLimit)
	assert.NotNil(t, summary.RecentActions)
	assert.Empty(t, summary.RecentActions)
}

func TestSummaryRefreshesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	inv := metrics.NewInventoryMetrics(reg)

	svc, err := NewService(stubCounter{count: 8}, stubCounter{count: 2}, &stubLedger{borrowed: 5}, inv, 5)
	require.NoError(t, err)

	_, err = svc.Summary(context.Background())
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, fam := range families {
		if fam.GetName() == "inventory_items_borrowed" {
			found = true
			assert.Equal(t, float64(5), fam.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found)
}
