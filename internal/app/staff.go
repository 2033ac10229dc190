package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
	"storefront/internal/rbac/presets"
	"storefront/internal/repository"
	apperrors "storefront/pkg/errors"
)

// NewStaffInput is a request to create a staff account.
type NewStaffInput struct {
	Name   string
	Email  string
	Secret string
	Role   string
}

// StaffManagement creates, lists and removes staff accounts.
type StaffManagement struct {
	staff   repository.StaffRepository
	hasher  PasswordHasher
	roles   RoleAuthority
	revoker TokenRevoker
	now     func() time.Time
}

func NewStaffManagement(staffRepo repository.StaffRepository, hasher PasswordHasher, roles RoleAuthority, revoker TokenRevoker) *StaffManagement {
	return &StaffManagement{
		staff:   staffRepo,
		hasher:  hasher,
		roles:   roles,
		revoker: revoker,
		now:     time.Now,
	}
}

// CreateStaff lets managers hire employees and owners hire anyone.
func (s *StaffManagement) CreateStaff(ctx context.Context, actor *rbac.AuthSubject, in NewStaffInput) (*staff.Member, error) {
	if err := s.roles.RequireRole(actor, presets.RoleManager); err != nil {
		return nil, apperrors.Forbidden(msgManagerRequired)
	}

	role, err := s.roles.ValidateRole(in.Role)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf(msgInvalidRoleFmt, in.Role))
	}

	if !s.roles.CanGrant(actor.Role, role) {
		return nil, apperrors.Forbidden(fmt.Sprintf(msgGrantNotAllowedFmt, actor.Role, role))
	}

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if err := validateCredentials(name, email, in.Secret); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Secret)
	if err != nil {
		return nil, apperrors.Internal(msgHashSecretFailed, err)
	}

	return s.staff.Create(ctx, staff.CreateMemberInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
}

// DeleteStaff lets an owner remove any non-owner account other than their
// own. Tokens already issued to the removed account stop working.
func (s *StaffManagement) DeleteStaff(ctx context.Context, actor *rbac.AuthSubject, targetID int64) error {
	if actor == nil || actor.Kind != rbac.KindStaff || !s.roles.IsTopRole(actor.Role) {
		return apperrors.Forbidden(msgOwnerRequired)
	}

	if actor.ID == targetID {
		return apperrors.Forbidden(msgCannotDeleteSelf)
	}

	target, err := s.staff.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if s.roles.IsTopRole(target.Role) {
		return apperrors.Forbidden(msgCannotDeleteOwner)
	}

	if err := s.revoker.RevokePrincipal(ctx, target.ID, s.now()); err != nil {
		return apperrors.Internal(msgRevokeTokensFailed, err)
	}

	return s.staff.Delete(ctx, target.ID)
}

// ListStaff is available to managers and owners.
func (s *StaffManagement) ListStaff(ctx context.Context, actor *rbac.AuthSubject) ([]*staff.Member, error) {
	if err := s.roles.RequireRole(actor, presets.RoleManager); err != nil {
		return nil, apperrors.Forbidden(msgManagerRequired)
	}
	return s.staff.List(ctx)
}
