package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dashsvc "github.com/stockroomhq/stockroom-backend/internal/dashboard"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

type testDashboardService struct {
	summaryFn func(ctx context.Context) (*dashsvc.Summary, error)
}

func (s *testDashboardService) Summary(ctx context.Context) (*dashsvc.Summary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx)
	}
	return nil, nil
}

func TestDashboardSummary(t *testing.T) {
	svc := &testDashboardService{
		summaryFn: func(ctx context.Context) (*dashsvc.Summary, error) {
			return &dashsvc.Summary{TotalItems: 4, TotalUsers: 2, BorrowedItems: 1, AvailableItems: 3}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := httptest.NewRecorder()
	Dashboard(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data dashsvc.Summary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.AvailableItems != 3 {
		t.Fatalf("unexpected available count %d", envelope.Data.AvailableItems)
	}
}

func TestDashboardDependencyFailure(t *testing.T) {
	svc := &testDashboardService{
		summaryFn: func(ctx context.Context) (*dashsvc.Summary, error) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := httptest.NewRecorder()
	Dashboard(svc, testLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
