package app

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/buyer"
	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
	"storefront/internal/rbac/presets"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/validator"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token string        `json:"token"`
	Kind  rbac.Kind     `json:"kind"`
	Buyer *buyer.Buyer  `json:"buyer,omitempty"`
	Staff *staff.Member `json:"staff,omitempty"`
}

// Accounts is the credential store for both principal kinds.
type Accounts struct {
	buyers repository.BuyerRepository
	staff  repository.StaffRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAccounts(buyers repository.BuyerRepository, staffRepo repository.StaffRepository, hasher PasswordHasher, tokens TokenIssuer) *Accounts {
	return &Accounts{
		buyers: buyers,
		staff:  staffRepo,
		hasher: hasher,
		tokens: tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(name, email, secret string) error {
	if err := validator.Name(name); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := validator.Email(email); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := validator.Password(secret); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	return nil
}

// RegisterBuyer creates a buyer account. The secret is hashed before it
// reaches the repository.
func (a *Accounts) RegisterBuyer(ctx context.Context, name, email, secret string) (*buyer.Buyer, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateCredentials(name, email, secret); err != nil {
		return nil, err
	}

	hash, err := a.hasher.Hash(secret)
	if err != nil {
		return nil, apperrors.Internal(msgHashSecretFailed, err)
	}

	return a.buyers.Create(ctx, buyer.CreateBuyerInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
}

// AuthenticateBuyer exchanges buyer credentials for a long-lived token.
func (a *Accounts) AuthenticateBuyer(ctx context.Context, email, secret string) (*Session, error) {
	email = normalizeEmail(email)

	b, lookupErr := a.buyers.GetByEmail(ctx, email)
	if err := a.checkSecret(lookupErr, secret, func() string { return b.PasswordHash }); err != nil {
		return nil, err
	}

	token, err := a.tokens.IssueBuyer(b)
	if err != nil {
		return nil, apperrors.Internal(msgIssueTokenFailed, err)
	}

	return &Session{Token: token, Kind: rbac.KindBuyer, Buyer: b}, nil
}

// AuthenticateStaff exchanges staff credentials for a short-lived token.
func (a *Accounts) AuthenticateStaff(ctx context.Context, email, secret string) (*Session, error) {
	email = normalizeEmail(email)

	m, lookupErr := a.staff.GetByEmail(ctx, email)
	if err := a.checkSecret(lookupErr, secret, func() string { return m.PasswordHash }); err != nil {
		return nil, err
	}

	token, err := a.tokens.IssueStaff(m)
	if err != nil {
		return nil, apperrors.Internal(msgIssueTokenFailed, err)
	}

	return &Session{Token: token, Kind: rbac.KindStaff, Staff: m}, nil
}

// checkSecret makes unknown accounts and wrong secrets indistinguishable,
// including in timing.
func (a *Accounts) checkSecret(lookupErr error, secret string, hash func() string) error {
	if lookupErr != nil {
		a.hasher.VerifyDummy(secret)
		if errors.Is(lookupErr, apperrors.ErrNotFound) {
			return apperrors.Unauthenticated(msgInvalidCredentials)
		}
		return apperrors.Internal(msgLookupAccountFailed, lookupErr)
	}

	if secret == "" || !a.hasher.Verify(secret, hash()) {
		return apperrors.Unauthenticated(msgInvalidCredentials)
	}
	return nil
}

// EnsureOwner seeds an owner account when no staff exist yet. It reports
// whether an account was created.
func (a *Accounts) EnsureOwner(ctx context.Context, name, email, secret string) (bool, error) {
	count, err := a.staff.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateCredentials(name, email, secret); err != nil {
		return false, err
	}

	hash, err := a.hasher.Hash(secret)
	if err != nil {
		return false, apperrors.Internal(msgHashSecretFailed, err)
	}

	_, err = a.staff.Create(ctx, staff.CreateMemberInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         presets.RoleOwner,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
