package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	actionsvc "github.com/stockroomhq/stockroom-backend/internal/actions"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

type testActionsService struct {
	recordFn func(ctx context.Context, input actionsvc.RecordActionInput) (*models.Action, error)
	listFn   func(ctx context.Context, params pagination.Params) ([]actionsvc.EnrichedAction, string, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *testActionsService) Record(ctx context.Context, input actionsvc.RecordActionInput) (*models.Action, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return nil, nil
}

func (s *testActionsService) RecordBorrow(ctx context.Context, userID, itemID int64) (*models.Action, error) {
	return s.Record(ctx, actionsvc.RecordActionInput{UserID: userID, ItemID: itemID, Action: enums.ActionTypeBorrow})
}

func (s *testActionsService) List(ctx context.Context, params pagination.Params) ([]actionsvc.EnrichedAction, string, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return nil, "", nil
}

func (s *testActionsService) ListRecent(ctx context.Context, limit int) ([]actionsvc.EnrichedAction, error) {
	return nil, nil
}

func (s *testActionsService) Delete(ctx context.Context, id int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testActionsService) DerivedStatus(ctx context.Context, itemID int64) (enums.ItemStatus, error) {
	return enums.ItemStatusAvailable, nil
}

func (s *testActionsService) Holdings(ctx context.Context, userID int64) ([]actionsvc.Holding, error) {
	return nil, nil
}

func (s *testActionsService) AllHoldings(ctx context.Context) (map[int64][]actionsvc.Holding, error) {
	return nil, nil
}

func (s *testActionsService) CountBorrowed(ctx context.Context) (int64, error) {
	return 0, nil
}

func TestRecordActionSuccess(t *testing.T) {
	svc := &testActionsService{
		recordFn: func(ctx context.Context, input actionsvc.RecordActionInput) (*models.Action, error) {
			if input.Action != enums.ActionTypeBorrow {
				t.Fatalf("unexpected action %q", input.Action)
			}
			return &models.Action{ID: 7, UserID: input.UserID, ItemID: input.ItemID, Action: input.Action, Timestamp: time.Now().UTC()}, nil
		},
	}

	body := `{"user_id":1,"item_id":2,"action_type":"borrow"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordAction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var raw struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &raw); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if raw.Data["action_type"] != "borrow" {
		t.Fatalf("expected action_type key in response body %s", resp.Body.String())
	}
	for _, key := range []string{"id", "user_id", "item_id", "timestamp"} {
		if _, ok := raw.Data[key]; !ok {
			t.Fatalf("missing %q in response body %s", key, resp.Body.String())
		}
	}
}

func TestRecordActionBorrowConflict(t *testing.T) {
	svc := &testActionsService{
		recordFn: func(ctx context.Context, input actionsvc.RecordActionInput) (*models.Action, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "item is already borrowed")
		},
	}

	body := `{"user_id":1,"item_id":2,"action_type":"borrow"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordAction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "STATE_CONFLICT" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestRecordActionRejectsUnknownType(t *testing.T) {
	svc := &testActionsService{}
	body := `{"user_id":1,"item_id":2,"action_type":"steal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", strings.NewReader(body))
	resp := httptest.NewRecorder()
	RecordAction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}

func TestListActionsPassesPagination(t *testing.T) {
	var got pagination.Params
	name := "Ada"
	svc := &testActionsService{
		listFn: func(ctx context.Context, params pagination.Params) ([]actionsvc.EnrichedAction, string, error) {
			got = params
			return []actionsvc.EnrichedAction{
				{ID: 1, UserID: 1, ItemID: 2, Action: enums.ActionTypeBorrow, Timestamp: time.Now().UTC(), UserName: &name},
			}, "next-token", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/actions?limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()
	ListActions(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if got.Limit != 10 || got.Cursor != "abc" {
		t.Fatalf("pagination params not forwarded: %+v", got)
	}
	var envelope struct {
		Data struct {
			Actions    []actionsvc.EnrichedAction `json:"actions"`
			NextCursor string                     `json:"next_cursor"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.NextCursor != "next-token" {
		t.Fatalf("unexpected cursor %q", envelope.Data.NextCursor)
	}
	if len(envelope.Data.Actions) != 1 || envelope.Data.Actions[0].UserName == nil {
		t.Fatalf("expected enriched action in response")
	}
}

func TestDeleteActionNotFound(t *testing.T) {
	svc := &testActionsService{
		deleteFn: func(ctx context.Context, id int64) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "action not found")
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/actions/9", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", "9")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	DeleteAction(svc, testLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
