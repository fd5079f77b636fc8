package controllers

import (
	"net/http"

	"github.com/stockroomhq/stockroom-backend/api/responses"
	"github.com/stockroomhq/stockroom-backend/api/validators"
	actionsvc "github.com/stockroomhq/stockroom-backend/internal/actions"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

type actionPage struct {
	Actions    []actionsvc.EnrichedAction `json:"actions"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

// ListActions returns the enriched ledger, newest first, cursor-paginated.
func ListActions(svc actionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "action service unavailable"))
			return
		}

		limit, err := validators.QueryInt(r, "limit", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, next, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []actionsvc.EnrichedAction{}
		}
		responses.WriteSuccess(w, actionPage{Actions: rows, NextCursor: next})
	}
}

type recordActionRequest struct {
	UserID     int64  `json:"user_id" validate:"required,min=1"`
	ItemID     int64  `json:"item_id" validate:"required,min=1"`
	ActionType string `json:"action_type" validate:"required,oneof=borrow return"`
}

// RecordAction appends a borrow or return to the ledger.
func RecordAction(svc actionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "action service unavailable"))
			return
		}

		var payload recordActionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actionType, err := enums.ParseActionType(payload.ActionType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		action, err := svc.Record(r.Context(), actionsvc.RecordActionInput{
			UserID: payload.UserID,
			ItemID: payload.ItemID,
			Action: actionType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, action)
	}
}

// DeleteAction removes a single ledger row. Admin escape hatch; this rewrites
// history.
func DeleteAction(svc actionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "action service unavailable"))
			return
		}

		id, err := validators.IDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
