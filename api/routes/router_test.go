package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	actionsvc "github.com/stockroomhq/stockroom-backend/internal/actions"
	dashsvc "github.com/stockroomhq/stockroom-backend/internal/dashboard"
	itemsvc "github.com/stockroomhq/stockroom-backend/internal/items"
	usersvc "github.com/stockroomhq/stockroom-backend/internal/users"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubItemsService struct{}

func (stubItemsService) List(ctx context.Context) ([]itemsvc.ItemWithStatus, error) {
	return []itemsvc.ItemWithStatus{}, nil
}

func (stubItemsService) Create(ctx context.Context, input itemsvc.CreateItemInput) (*models.Item, error) {
	return &models.Item{ID: 1, TypeName: input.TypeName, TypeCode: "LA", SerialCode: "001", Barcode: "LA001", Status: enums.ItemStatusAvailable}, nil
}

func (stubItemsService) OverrideStatus(ctx context.Context, id int64, status string) (*models.Item, error) {
	return &models.Item{ID: id}, nil
}

func (stubItemsService) DeleteType(ctx context.Context, typeCode string) (int64, error) {
	return 1, nil
}

func (stubItemsService) Scan(ctx context.Context, input itemsvc.ScanInput) (*itemsvc.ScanResult, error) {
	return &itemsvc.ScanResult{ItemID: 1, Barcode: input.Barcode}, nil
}

type stubUsersService struct{}

func (stubUsersService) List(ctx context.Context) ([]usersvc.UserWithHoldings, error) {
	return []usersvc.UserWithHoldings{}, nil
}

func (stubUsersService) Get(ctx context.Context, id int64) (*usersvc.UserWithHoldings, error) {
	return &usersvc.UserWithHoldings{User: models.User{ID: id}}, nil
}

func (stubUsersService) Create(ctx context.Context, input usersvc.UpsertUserInput) (*models.User, error) {
	return &models.User{ID: 1, Name: input.Name}, nil
}

func (stubUsersService) Update(ctx context.Context, id int64, input usersvc.UpsertUserInput) (*models.User, error) {
	return &models.User{ID: id, Name: input.Name}, nil
}

func (stubUsersService) Delete(ctx context.Context, id int64) error {
	return nil
}

type stubActionsService struct{}

func (stubActionsService) Record(ctx context.Context, input actionsvc.RecordActionInput) (*models.Action, error) {
	return &models.Action{ID: 1}, nil
}

func (stubActionsService) RecordBorrow(ctx context.Context, userID, itemID int64) (*models.Action, error) {
	return &models.Action{ID: 1}, nil
}

func (stubActionsService) List(ctx context.Context, params pagination.Params) ([]actionsvc.EnrichedAction, string, error) {
	return []actionsvc.EnrichedAction{}, "", nil
}

func (stubActionsService) ListRecent(ctx context.Context, limit int) ([]actionsvc.EnrichedAction, error) {
	return []actionsvc.EnrichedAction{}, nil
}

func (stubActionsService) Delete(ctx context.Context, id int64) error {
	return nil
}

func (stubActionsService) DerivedStatus(ctx context.Context, itemID int64) (enums.ItemStatus, error) {
	return enums.ItemStatusAvailable, nil
}

func (stubActionsService) Holdings(ctx context.Context, userID int64) ([]actionsvc.Holding, error) {
	return []actionsvc.Holding{}, nil
}

func (stubActionsService) AllHoldings(ctx context.Context) (map[int64][]actionsvc.Holding, error) {
	return map[int64][]actionsvc.Holding{}, nil
}

func (stubActionsService) CountBorrowed(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubDashboardService struct{}

func (stubDashboardService) Summary(ctx context.Context) (*dashsvc.Summary, error) {
	return &dashsvc.Summary{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "stockroom-backend",
			Env:         "test",
			CORSOrigins: []string{"*"},
		},
	}
}

func newTestRouter(registry *prometheus.Registry) http.Handler {
	return NewRouter(Deps{
		Config:      testConfig(),
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:          stubPinger{},
		HTTPMetrics: metrics.NewHTTPMetrics(nil),
		Registry:    registry,

		Items:     stubItemsService{},
		Users:     stubUsersService{},
		Actions:   stubActionsService{},
		Dashboard: stubDashboardService{},
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if resp.Header().Get("X-Stockroom-Env") != "test" {
			t.Fatalf("%s: env header missing", path)
		}
	}
}

func TestRouterMountsAPIRoutes(t *testing.T) {
	router := newTestRouter(nil)

	cases := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/v1/items", "", http.StatusOK},
		{http.MethodPost, "/api/v1/items", `{"type_name":"laptop"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/items/scan", `{"barcode":"LA001","user_id":1}`, http.StatusOK},
		{http.MethodGet, "/api/v1/users", "", http.StatusOK},
		{http.MethodGet, "/api/v1/users/1", "", http.StatusOK},
		{http.MethodGet, "/api/v1/actions", "", http.StatusOK},
		{http.MethodPost, "/api/v1/actions", `{"user_id":1,"item_id":1,"action_type":"borrow"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/dashboard", "", http.StatusOK},
		{http.MethodDelete, "/api/v1/users/1", "", http.StatusNoContent},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		var body io.Reader
		if tc.body != "" {
			body = strings.NewReader(tc.body)
		}
		req := httptest.NewRequest(tc.method, tc.path, body)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d got %d (%s)", tc.method, tc.path, tc.want, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Header().Get("X-Request-Id") != "fixed-id" {
		t.Fatal("expected supplied request id to be echoed")
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := newTestRouter(registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
