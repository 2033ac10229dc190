package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/app"
	"storefront/internal/audit"
	"storefront/internal/rbac"
)

type AuthHandler struct {
	accounts AccountService
	audit    AuditRecorder
}

func NewAuthHandler(accounts AccountService, auditLogger AuditRecorder) *AuthHandler {
	return &AuthHandler{accounts: accounts, audit: auditLogger}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	b, err := h.accounts.RegisterBuyer(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.audit.Record(c, audit.ResourceBuyer, &b.ID, audit.ActionCreate, audit.StatusSuccess, nil)
	return c.JSON(http.StatusCreated, b)
}

func (h *AuthHandler) BuyerLogin(c echo.Context) error {
	return h.login(c, rbac.KindBuyer, h.accounts.AuthenticateBuyer)
}

func (h *AuthHandler) StaffLogin(c echo.Context) error {
	return h.login(c, rbac.KindStaff, h.accounts.AuthenticateStaff)
}

type authenticateFunc func(ctx context.Context, email, secret string) (*app.Session, error)

func (h *AuthHandler) login(c echo.Context, kind rbac.Kind, authenticate authenticateFunc) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return err
	}

	session, err := authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.audit.RecordError(c, audit.ResourceSession, nil, audit.ActionLogin, err)
		return err
	}

	var principalID int64
	if session.Buyer != nil {
		principalID = session.Buyer.ID
	} else if session.Staff != nil {
		principalID = session.Staff.ID
	}
	h.audit.Record(c, audit.ResourceSession, &principalID, audit.ActionLogin, audit.StatusSuccess,
		map[string]any{"kind": string(kind)})

	return c.JSON(http.StatusOK, session)
}
