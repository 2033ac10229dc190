package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
	apperrors "storefront/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the single outcome of every failed verification. Callers
// cannot tell a bad signature from an expired or malformed token.
var ErrInvalidToken = apperrors.Unauthenticated(msgInvalidOrExpiredToken)

// Claims carries the principal kind next to the registered claims. Subject
// holds the decimal principal id.
type Claims struct {
	Kind  rbac.Kind `json:"kind"`
	Role  rbac.Role `json:"role,omitempty"`
	Email string    `json:"email"`
	jwt.RegisteredClaims
}

// PrincipalID returns the numeric id encoded in the subject claim.
func (c *Claims) PrincipalID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// AuthSubject converts verified claims into the form the rbac checker takes.
func (c *Claims) AuthSubject() *rbac.AuthSubject {
	return &rbac.AuthSubject{ID: c.PrincipalID(), Kind: c.Kind, Role: c.Role}
}

// RoleValidator is the part of the rbac checker the token service needs.
type RoleValidator interface {
	ValidateRole(role string) (rbac.Role, error)
}

type JWTService struct {
	secret   []byte
	buyerTTL time.Duration
	staffTTL time.Duration
	roles    RoleValidator
	now      func() time.Time
}

func NewJWTService(secret string, buyerTTL, staffTTL time.Duration, roles RoleValidator) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		buyerTTL: buyerTTL,
		staffTTL: staffTTL,
		roles:    roles,
		now:      time.Now,
	}
}

// IssueBuyer signs a long-lived token for a buyer.
func (s *JWTService) IssueBuyer(b *buyer.Buyer) (string, error) {
	return s.issue(b.ID, rbac.KindBuyer, "", b.Email, s.buyerTTL)
}

// IssueStaff signs a short-lived token carrying the member's role.
func (s *JWTService) IssueStaff(m *staff.Member) (string, error) {
	return s.issue(m.ID, rbac.KindStaff, m.Role, m.Email, s.staffTTL)
}

func (s *JWTService) issue(id int64, kind rbac.Kind, role rbac.Role, email string, ttl time.Duration) (string, error) {
	if id <= 0 {
		return "", errors.New(msgInvalidPrincipalID)
	}

	now := s.now()
	claims := Claims{
		Kind:  kind,
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(id, 10),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf(msgIssueTokenFailed, err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and claim shape. Any failure is
// reported as ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !s.wellFormed(claims) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *JWTService) wellFormed(c *Claims) bool {
	if c.PrincipalID() <= 0 || c.IssuedAt == nil {
		return false
	}

	switch c.Kind {
	case rbac.KindBuyer:
		return c.Role == ""
	case rbac.KindStaff:
		_, err := s.roles.ValidateRole(string(c.Role))
		return err == nil
	default:
		return false
	}
}
