package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/auth"
)

type StaffHandler struct {
	staff StaffService
	audit AuditRecorder
}

func NewStaffHandler(staff StaffService, auditLogger AuditRecorder) *StaffHandler {
	return &StaffHandler{staff: staff, audit: auditLogger}
}

type CreateStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *StaffHandler) CreateStaff(c echo.Context) error {
	actor, err := auth.GetStaff(c)
	if err != nil {
		return err
	}

	var req CreateStaffRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	m, err := h.staff.CreateStaff(c.Request().Context(), actor, app.NewStaffInput{
		Name:   req.Name,
		Email:  req.Email,
		Secret: req.Password,
		Role:   req.Role,
	})

	var memberID *int64
	if m != nil {
		memberID = &m.ID
	}
	recordOutcome(h.audit, c, audit.ResourceStaff, memberID, audit.ActionCreate, map[string]any{"role": req.Role}, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, m)
}

func (h *StaffHandler) ListStaff(c echo.Context) error {
	actor, err := auth.GetStaff(c)
	if err != nil {
		return err
	}

	members, err := h.staff.ListStaff(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	return respondItems(c, http.StatusOK, members)
}

func (h *StaffHandler) DeleteStaff(c echo.Context) error {
	actor, err := auth.GetStaff(c)
	if err != nil {
		return err
	}

	targetID, err := parseIDParam(c, "staff id")
	if err != nil {
		return err
	}

	err = h.staff.DeleteStaff(c.Request().Context(), actor, targetID)
	recordOutcome(h.audit, c, audit.ResourceStaff, &targetID, audit.ActionDelete, nil, err)
	if err != nil {
		return err
	}

	return respondMessage(c, http.StatusOK, msgStaffDeleted)
}
