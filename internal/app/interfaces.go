package app

import (
	"context"
	"io"
	"time"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
)

// PasswordHasher is satisfied by *password.Hasher.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hash string) bool
	VerifyDummy(secret string)
}

// TokenIssuer is satisfied by *auth.JWTService.
type TokenIssuer interface {
	IssueBuyer(b *buyer.Buyer) (string, error)
	IssueStaff(m *staff.Member) (string, error)
}

// RoleAuthority is satisfied by *rbac.Checker.
type RoleAuthority interface {
	RequireRole(subject *rbac.AuthSubject, minRole rbac.Role) error
	CanGrant(actor, target rbac.Role) bool
	ValidateRole(role string) (rbac.Role, error)
	IsTopRole(role rbac.Role) bool
}

// TokenRevoker is satisfied by the auth revokers.
type TokenRevoker interface {
	RevokePrincipal(ctx context.Context, principalID int64, cutoff time.Time) error
}

// ImageStore is satisfied by *s3.Client.
type ImageStore interface {
	PutObject(ctx context.Context, objectKey string, body io.ReadSeeker, contentType string) error
	DeleteObjects(ctx context.Context, objectKeys []string) error
	PublicURL(objectKey string) string
	NewObjectKey(productID int64, filename string) string
}
