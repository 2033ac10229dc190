package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain/staff"
	"storefront/internal/rbac"
	"storefront/internal/rbac/presets"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/password"
)

type staffFixture struct {
	svc     *StaffManagement
	store   *memStore
	revoker *fakeRevoker
	owner   *staff.Member
	manager *staff.Member
	worker  *staff.Member
}

func newStaffFixture(t *testing.T) *staffFixture {
	t.Helper()
	s := newMemStore()
	hasher, err := password.NewHasher(password.MinCost)
	require.NoError(t, err)
	revoker := &fakeRevoker{}

	svc := NewStaffManagement(staffRepo{s}, hasher, rbac.MustNew(presets.Storefront()), revoker)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	repo := staffRepo{s}
	mk := func(email string, role rbac.Role) *staff.Member {
		m, err := repo.Create(context.Background(), staff.CreateMemberInput{Name: string(role), Email: email, PasswordHash: "x", Role: role})
		require.NoError(t, err)
		return m
	}

	return &staffFixture{
		svc:     svc,
		store:   s,
		revoker: revoker,
		owner:   mk("owner@shop.test", presets.RoleOwner),
		manager: mk("manager@shop.test", presets.RoleManager),
		worker:  mk("worker@shop.test", presets.RoleEmployee),
	}
}

func subjectOf(m *staff.Member) *rbac.AuthSubject {
	return &rbac.AuthSubject{ID: m.ID, Kind: rbac.KindStaff, Role: m.Role}
}

func newStaffInput(email, role string) NewStaffInput {
	return NewStaffInput{Name: "New Hire", Email: email, Secret: "correct-horse-1", Role: role}
}

func TestCreateStaffGrantRules(t *testing.T) {
	f := newStaffFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   *rbac.AuthSubject
		role    string
		wantErr error
	}{
		{"manager hires employee", subjectOf(f.manager), "employee", nil},
		{"manager hires manager", subjectOf(f.manager), "manager", apperrors.ErrForbidden},
		{"manager hires owner", subjectOf(f.manager), "owner", apperrors.ErrForbidden},
		{"owner hires manager", subjectOf(f.owner), "manager", nil},
		{"owner hires owner", subjectOf(f.owner), "owner", nil},
		{"employee hires employee", subjectOf(f.worker), "employee", apperrors.ErrForbidden},
		{"buyer hires employee", &rbac.AuthSubject{ID: 50, Kind: rbac.KindBuyer}, "employee", apperrors.ErrForbidden},
		{"no actor", nil, "employee", apperrors.ErrForbidden},
		{"unknown role", subjectOf(f.owner), "janitor", apperrors.ErrInvalidInput},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := string(rune('a'+i)) + "-hire@shop.test"
			m, err := f.svc.CreateStaff(ctx, tt.actor, newStaffInput(email, tt.role))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, rbac.Role(tt.role), m.Role)
			assert.NotEqual(t, "correct-horse-1", m.PasswordHash)
		})
	}
}

func TestCreateStaffValidation(t *testing.T) {
	f := newStaffFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateStaff(ctx, subjectOf(f.owner), NewStaffInput{Name: "X", Email: "not-an-email", Secret: "correct-horse-1", Role: "employee"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.svc.CreateStaff(ctx, subjectOf(f.owner), NewStaffInput{Name: "X", Email: "x@shop.test", Secret: "short", Role: "employee"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = f.svc.CreateStaff(ctx, subjectOf(f.owner), newStaffInput("WORKER@shop.test", "employee"))
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestDeleteStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("only owners", func(t *testing.T) {
		f := newStaffFixture(t)
		err := f.svc.DeleteStaff(ctx, subjectOf(f.manager), f.worker.ID)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		assert.Empty(t, f.revoker.revoked)
	})

	t.Run("not yourself", func(t *testing.T) {
		f := newStaffFixture(t)
		err := f.svc.DeleteStaff(ctx, subjectOf(f.owner), f.owner.ID)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("not another owner", func(t *testing.T) {
		f := newStaffFixture(t)
		other, err := f.svc.CreateStaff(ctx, subjectOf(f.owner), newStaffInput("second-owner@shop.test", "owner"))
		require.NoError(t, err)

		err = f.svc.DeleteStaff(ctx, subjectOf(f.owner), other.ID)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
		_, err = staffRepo{f.store}.GetByID(ctx, other.ID)
		assert.NoError(t, err)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newStaffFixture(t)
		err := f.svc.DeleteStaff(ctx, subjectOf(f.owner), 9999)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("revokes and removes", func(t *testing.T) {
		f := newStaffFixture(t)
		require.NoError(t, f.svc.DeleteStaff(ctx, subjectOf(f.owner), f.manager.ID))

		assert.Equal(t, time.Unix(1700000000, 0), f.revoker.revoked[f.manager.ID])
		_, err := staffRepo{f.store}.GetByID(ctx, f.manager.ID)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("revocation failure keeps the account", func(t *testing.T) {
		f := newStaffFixture(t)
		f.revoker.err = errors.New("redis down")

		err := f.svc.DeleteStaff(ctx, subjectOf(f.owner), f.worker.ID)
		assert.True(t, errors.Is(err, apperrors.ErrInternal))
		_, err = staffRepo{f.store}.GetByID(ctx, f.worker.ID)
		assert.NoError(t, err)
	})
}

func TestListStaff(t *testing.T) {
	f := newStaffFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListStaff(ctx, subjectOf(f.worker))
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	members, err := f.svc.ListStaff(ctx, subjectOf(f.manager))
	require.NoError(t, err)
	assert.Len(t, members, 3)
}
