package auth

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
	"storefront/internal/rbac/presets"
	apperrors "storefront/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k9Vq2Lx7Rm4Tz8Wb3Nc6Yh1Pd5Gf0Js$"

func newTestJWTService(now time.Time) *JWTService {
	s := NewJWTService(testSecret, 72*time.Hour, time.Hour, rbac.MustNew(presets.Storefront()))
	s.now = func() time.Time { return now }
	return s
}

func signRaw(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func rawClaims(now time.Time, subject string, kind rbac.Kind, role rbac.Role) Claims {
	return Claims{
		Kind: kind,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

func TestIssueAndVerifyBuyer(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)

	token, err := s.IssueBuyer(&buyer.Buyer{ID: 42, Email: "ana@example.com"})
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, rbac.KindBuyer, claims.Kind)
	assert.Equal(t, int64(42), claims.PrincipalID())
	assert.Empty(t, claims.Role)
	assert.Equal(t, "ana@example.com", claims.Email)
}

func TestIssueAndVerifyStaff(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)

	token, err := s.IssueStaff(&staff.Member{ID: 7, Email: "boss@example.com", Role: presets.RoleManager})
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, rbac.KindStaff, claims.Kind)
	assert.Equal(t, presets.RoleManager, claims.Role)
	assert.Equal(t, &rbac.AuthSubject{ID: 7, Kind: rbac.KindStaff, Role: presets.RoleManager}, claims.AuthSubject())
}

func TestStaffTokensExpireBeforeBuyerTokens(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)

	buyerToken, err := s.IssueBuyer(&buyer.Buyer{ID: 1})
	require.NoError(t, err)
	staffToken, err := s.IssueStaff(&staff.Member{ID: 1, Role: presets.RoleOwner})
	require.NoError(t, err)

	buyerClaims, err := s.Verify(buyerToken)
	require.NoError(t, err)
	staffClaims, err := s.Verify(staffToken)
	require.NoError(t, err)

	assert.True(t, staffClaims.ExpiresAt.Before(buyerClaims.ExpiresAt.Time))

	// Two hours on: the staff token is dead, the buyer token is not.
	s.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = s.Verify(staffToken)
	assert.Same(t, ErrInvalidToken, err)
	_, err = s.Verify(buyerToken)
	assert.NoError(t, err)
}

func TestIssueRejectsNonPositiveID(t *testing.T) {
	s := newTestJWTService(time.Now())
	_, err := s.IssueBuyer(&buyer.Buyer{ID: 0})
	assert.Error(t, err)
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	now := time.Now()
	s := newTestJWTService(now)

	valid, err := s.IssueBuyer(&buyer.Buyer{ID: 5})
	require.NoError(t, err)

	expired := newTestJWTService(now.Add(-100 * time.Hour))
	expiredToken, err := expired.IssueBuyer(&buyer.Buyer{ID: 5})
	require.NoError(t, err)

	otherKey := NewJWTService("a-completely-different-signing-secret!", 72*time.Hour, time.Hour, rbac.MustNew(presets.Storefront()))
	forged, err := otherKey.IssueStaff(&staff.Member{ID: 5, Role: presets.RoleOwner})
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	swapped := rawClaims(now, "5", rbac.KindStaff, presets.RoleOwner)
	swappedParts := strings.Split(signRaw(t, swapped), ".")
	tamperedPayload := parts[0] + "." + swappedParts[1] + "." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, rawClaims(now, "5", rbac.KindBuyer, "")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry := rawClaims(now, "5", rbac.KindBuyer, "")
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"expired", expiredToken},
		{"wrong key", forged},
		{"tampered payload", tamperedPayload},
		{"alg none", none},
		{"missing expiry", signRaw(t, noExpiry)},
		{"unknown kind", signRaw(t, rawClaims(now, "5", "admin", ""))},
		{"unknown staff role", signRaw(t, rawClaims(now, "5", rbac.KindStaff, "superuser"))},
		{"staff without role", signRaw(t, rawClaims(now, "5", rbac.KindStaff, ""))},
		{"buyer with role", signRaw(t, rawClaims(now, "5", rbac.KindBuyer, presets.RoleOwner))},
		{"non numeric subject", signRaw(t, rawClaims(now, "abc", rbac.KindBuyer, ""))},
		{"zero subject", signRaw(t, rawClaims(now, "0", rbac.KindBuyer, ""))},
		{"negative subject", signRaw(t, rawClaims(now, "-3", rbac.KindBuyer, ""))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := s.Verify(tt.token)
			assert.Nil(t, claims)
			assert.Same(t, ErrInvalidToken, err)
			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		})
	}
}
