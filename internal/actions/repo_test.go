package actions

import (
	"context"
	"testing"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastForItemBreaksTimestampTiesByID(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := mustCreateTestUser(t, db, "Ada")
	item := mustCreateTestItem(t, db, "laptop", 1)

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mustAppendAction(t, db, user.ID, item.ID, enums.ActionTypeBorrow, ts)
	mustAppendAction(t, db, user.ID, item.ID, enums.ActionTypeReturn, ts)

	last, err := repo.LastForItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, enums.ActionTypeReturn, last.Action)
}

func TestLastForItemNoActions(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)

	item := mustCreateTestItem(t, db, "laptop", 1)

	last, err := repo.LastForItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestListEnrichesAndNullsOrphans(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := mustCreateTestUser(t, db, "Ada")
	item := mustCreateTestItem(t, db, "laptop", 1)
	mustAppendAction(t, db, user.ID, item.ID, enums.ActionTypeBorrow, time.Now().UTC())

	rows, err := repo.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserName)
	assert.Equal(t, "Ada", *rows[0].UserName)
	require.NotNil(t, rows[0].ItemTypeName)
	assert.Equal(t, "laptop", *rows[0].ItemTypeName)

	// delete the item; the ledger row must survive with a null item side
	require.NoError(t, db.Exec("DELETE FROM items WHERE id = ?", item.ID).Error)

	rows, err = repo.List(ctx, ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ItemTypeName)
	assert.Nil(t, rows[0].ItemBarcode)
	require.NotNil(t, rows[0].UserName)
}

func TestListCursorWindow(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := mustCreateTestUser(t, db, "Ada")
	item := mustCreateTestItem(t, db, "laptop", 1)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		action := enums.ActionTypeBorrow
		if i%2 == 1 {
			action = enums.ActionTypeReturn
		}
		mustAppendAction(t, db, user.ID, item.ID, action, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(ctx, ListParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	// newest first
	assert.True(t, first[0].Timestamp.After(first[1].Timestamp))

	ts := first[1].Timestamp
	rest, err := repo.List(ctx, ListParams{Limit: 10, CursorTimestamp: &ts, CursorID: first[1].ID})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.True(t, rest[0].Timestamp.Before(ts) || rest[0].Timestamp.Equal(ts))
}

func TestHoldingsDerivation(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	ada := mustCreateTestUser(t, db, "Ada")
	bob := mustCreateTestUser(t, db, "Bob")
	laptop := mustCreateTestItem(t, db, "laptop", 1)
	monitor := mustCreateTestItem(t, db, "monitor", 1)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	// Ada borrows the laptop and returns it; Bob then borrows it.
	mustAppendAction(t, db, ada.ID, laptop.ID, enums.ActionTypeBorrow, base)
	mustAppendAction(t, db, ada.ID, laptop.ID, enums.ActionTypeReturn, base.Add(time.Minute))
	mustAppendAction(t, db, bob.ID, laptop.ID, enums.ActionTypeBorrow, base.Add(2*time.Minute))
	// Ada still holds the monitor.
	mustAppendAction(t, db, ada.ID, monitor.ID, enums.ActionTypeBorrow, base.Add(3*time.Minute))

	adaHoldings, err := repo.Holdings(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, adaHoldings, 1)
	assert.Equal(t, "monitor", adaHoldings[0].TypeName)

	bobHoldings, err := repo.Holdings(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobHoldings, 1)
	assert.Equal(t, "laptop", bobHoldings[0].TypeName)

	all, err := repo.AllHoldings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCountBorrowed(t *testing.T) {
	db := setupActionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user := mustCreateTestUser(t, db, "Ada")
	laptop := mustCreateTestItem(t, db, "laptop", 1)
	monitor := mustCreateTestItem(t, db, "monitor", 1)
	mustCreateTestItem(t, db, "keyboard", 1)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mustAppendAction(t, db, user.ID, laptop.ID, enums.ActionTypeBorrow, base)
	mustAppendAction(t, db, user.ID, monitor.ID, enums.ActionTypeBorrow, base.Add(time.Minute))
	mustAppendAction(t, db, user.ID, monitor.ID, enums.ActionTypeReturn, base.Add(2*time.Minute))

	count, err := repo.CountBorrowed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
