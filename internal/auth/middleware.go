package auth

import (
	"fmt"
	"strings"

	"storefront/internal/rbac"
	apperrors "storefront/pkg/errors"

	"github.com/labstack/echo/v4"
)

// RoleChecker is satisfied by *rbac.Checker.
type RoleChecker interface {
	RequireRole(subject *rbac.AuthSubject, minRole rbac.Role) error
}

// Middleware authenticates bearer tokens and gates routes by principal kind
// and staff role. Failures are returned as errors for the central handler.
type Middleware struct {
	tokens  *JWTService
	revoker TokenRevoker
	checker RoleChecker
}

func NewMiddleware(tokens *JWTService, revoker TokenRevoker, checker RoleChecker) *Middleware {
	return &Middleware{
		tokens:  tokens,
		revoker: revoker,
		checker: checker,
	}
}

// RequireBuyer admits buyer tokens only.
func (m *Middleware) RequireBuyer() echo.MiddlewareFunc {
	return m.require(func(subject *rbac.AuthSubject) error {
		if subject.Kind != rbac.KindBuyer {
			return apperrors.Forbidden(msgBuyerRequired)
		}
		return nil
	})
}

// RequireStaffRole admits staff whose role ranks at or above minRole.
func (m *Middleware) RequireStaffRole(minRole rbac.Role) echo.MiddlewareFunc {
	return m.require(func(subject *rbac.AuthSubject) error {
		if err := m.checker.RequireRole(subject, minRole); err != nil {
			return &apperrors.AppError{Code: "FORBIDDEN", Message: msgInsufficientRole, Err: fmt.Errorf("%w: %w", apperrors.ErrForbidden, err)}
		}
		return nil
	})
}

func (m *Middleware) require(gate func(*rbac.AuthSubject) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := m.authenticate(c)
			if err != nil {
				return err
			}

			subject := claims.AuthSubject()
			if err := gate(subject); err != nil {
				return err
			}

			c.Set(ContextKeySubject, subject)

			return next(c)
		}
	}
}

func (m *Middleware) authenticate(c echo.Context) (*Claims, error) {
	token := extractBearerToken(c)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Kind == rbac.KindStaff && m.revoker != nil {
		cutoff, err := m.revoker.RevokedAfter(c.Request().Context(), claims.PrincipalID())
		if err != nil {
			return nil, apperrors.Internal(msgRevocationCheckFailed, err)
		}
		if !cutoff.IsZero() && !claims.IssuedAt.Time.After(cutoff) {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

// GetSubject returns the principal stored by one of the Require* middlewares.
func GetSubject(c echo.Context) (*rbac.AuthSubject, error) {
	raw := c.Get(ContextKeySubject)
	if raw == nil {
		return nil, apperrors.Unauthenticated(msgSubjectNotInContext)
	}

	subject, ok := raw.(*rbac.AuthSubject)
	if !ok || subject == nil {
		return nil, apperrors.Internal(msgInvalidSubjectCtx, nil)
	}

	return subject, nil
}

// GetBuyerID returns the authenticated buyer's id.
func GetBuyerID(c echo.Context) (int64, error) {
	subject, err := GetSubject(c)
	if err != nil {
		return 0, err
	}
	if subject.Kind != rbac.KindBuyer {
		return 0, apperrors.Forbidden(msgBuyerRequired)
	}
	return subject.ID, nil
}

// GetStaff returns the authenticated staff member's subject.
func GetStaff(c echo.Context) (*rbac.AuthSubject, error) {
	subject, err := GetSubject(c)
	if err != nil {
		return nil, err
	}
	if subject.Kind != rbac.KindStaff {
		return nil, apperrors.Forbidden(msgStaffRequired)
	}
	return subject, nil
}
