package postgres

import (
	"context"

	"storefront/internal/domain/staff"
	apperrors "storefront/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type StaffRepository struct {
	db *DB
}

func NewStaffRepository(db *DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, name, email, password_hash, role, created_at`

func scanMember(row pgx.Row) (*staff.Member, error) {
	m := &staff.Member{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.CreatedAt,
	)
	return m, err
}

func (r *StaffRepository) Create(ctx context.Context, input staff.CreateMemberInput) (*staff.Member, error) {
	query := `
		INSERT INTO staff_members (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + staffColumns

	m, err := scanMember(r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.PasswordHash, string(input.Role)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errStaffEmailExists)
		}
		return nil, errFailedCreateStaff(err)
	}

	return m, nil
}

func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*staff.Member, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE id = $1`, id)
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*staff.Member, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff_members WHERE email = $1`, email)
}

func (r *StaffRepository) getOne(ctx context.Context, query string, arg any) (*staff.Member, error) {
	m, err := scanMember(r.db.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errStaffNotFound)
		}
		return nil, errFailedGetStaff(err)
	}
	return m, nil
}

func (r *StaffRepository) List(ctx context.Context) ([]*staff.Member, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff_members
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListStaff(err)
	}
	defer rows.Close()

	members := []*staff.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, errFailedScanStaff(err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListStaff(err)
	}

	return members, nil
}

func (r *StaffRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff_members`).Scan(&n); err != nil {
		return 0, errFailedCountStaff(err)
	}
	return n, nil
}

func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM staff_members WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteStaff(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errStaffNotFound)
	}

	return nil
}
