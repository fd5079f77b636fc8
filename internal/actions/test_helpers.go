package actions

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)

	items := `
CREATE TABLE IF NOT EXISTS items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  type_name TEXT NOT NULL,
  type_code TEXT NOT NULL,
  serial_code TEXT NOT NULL,
  barcode TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'available',
  created_at DATETIME,
  updated_at DATETIME
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  permission TEXT NOT NULL DEFAULT 'User',
  borrowed_items TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`
	actions := `
CREATE TABLE IF NOT EXISTS actions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_id INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  action TEXT NOT NULL,
  timestamp DATETIME NOT NULL
);`
	for _, ddl := range []string{items, users, actions} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func mustCreateTestItem(t *testing.T, db *gorm.DB, typeName string, ordinal int) *models.Item {
	t.Helper()
	item := &models.Item{
		TypeName:   typeName,
		TypeCode:   strings.ToUpper(typeName[:2]),
		SerialCode: fmt.Sprintf("%03d", ordinal),
		Barcode:    fmt.Sprintf("%s%03d", strings.ToUpper(typeName[:2]), ordinal),
		Status:     enums.ItemStatusAvailable,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func mustCreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:          name,
		Permission:    enums.PermissionUser,
		BorrowedItems: "[]",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustAppendAction(t *testing.T, db *gorm.DB, userID, itemID int64, action enums.ActionType, ts time.Time) *models.Action {
	t.Helper()
	row := &models.Action{
		UserID:    userID,
		ItemID:    itemID,
		Action:    action,
		Timestamp: ts,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
