package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/audit"
	apperrors "storefront/pkg/errors"
)

// recordOutcome audits a mutation. Authorization refusals are recorded as
// denied, every other error as a failure.
func recordOutcome(rec AuditRecorder, c echo.Context, resourceType audit.ResourceType, resourceID *int64, action audit.Action, metadata map[string]any, err error) {
	switch {
	case err == nil:
		rec.Record(c, resourceType, resourceID, action, audit.StatusSuccess, metadata)
	case errors.Is(err, apperrors.ErrForbidden):
		rec.Record(c, resourceType, resourceID, action, audit.StatusDenied, metadata)
	default:
		rec.RecordError(c, resourceType, resourceID, action, err)
	}
}

type AuditHandler struct {
	events AuditQuerier
}

func NewAuditHandler(events AuditQuerier) *AuditHandler {
	return &AuditHandler{events: events}
}

func (h *AuditHandler) ListEvents(c echo.Context) error {
	limit, offset, err := parsePage(c, defaultPageLimit, maxPageLimit)
	if err != nil {
		return err
	}

	actorID, err := parseOptionalInt64(c, queryActorID)
	if err != nil {
		return err
	}

	filter := audit.QueryFilter{ActorID: actorID, Limit: limit, Offset: offset}
	if v := c.QueryParam(queryResourceType); v != "" {
		rt := audit.ResourceType(v)
		filter.ResourceType = &rt
	}
	if v := c.QueryParam(queryAction); v != "" {
		a := audit.Action(v)
		filter.Action = &a
	}
	if v := c.QueryParam(queryStatus); v != "" {
		s := audit.Status(v)
		filter.Status = &s
	}

	events, err := h.events.Query(c.Request().Context(), filter)
	if err != nil {
		return apperrors.Internal(msgQueryAuditFailed, err)
	}

	return respondItems(c, http.StatusOK, events)
}
