package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/auth"
	"storefront/internal/rbac"
)

type fakeDB struct {
	mu       sync.Mutex
	execArgs [][]any
	execErr  error
	queryErr error
	queries  []string
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execArgs = append(f.execArgs, args)
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	return nil, f.queryErr
}

func newContext(subject *rbac.AuthSubject) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/staff", nil)
	req.Header.Set("User-Agent", "audit-test")
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-1")
	c := e.NewContext(req, rec)
	if subject != nil {
		c.Set(auth.ContextKeySubject, subject)
	}
	return c
}

func TestRecordCapturesStaffActor(t *testing.T) {
	db := &fakeDB{}
	logger := NewLogger(db)

	target := int64(42)
	logger.Record(newContext(&rbac.AuthSubject{ID: 7, Kind: rbac.KindStaff, Role: "owner"}),
		ResourceStaff, &target, ActionDelete, StatusSuccess, map[string]any{"role": "employee"})
	logger.Wait()

	require.Len(t, db.execArgs, 1)
	args := db.execArgs[0]
	assert.Equal(t, "delete_staff", args[1])
	assert.Equal(t, ActorStaff, args[2])
	assert.Equal(t, int64(7), *args[3].(*int64))
	assert.Equal(t, int64(42), *args[5].(*int64))
	assert.Equal(t, "audit-test", args[9])
	assert.Equal(t, "req-1", args[10])
	assert.JSONEq(t, `{"role":"employee"}`, string(args[11].([]byte)))
}

func TestRecordErrorWithoutPrincipal(t *testing.T) {
	db := &fakeDB{}
	logger := NewLogger(db)

	logger.RecordError(newContext(nil), ResourceSession, nil, ActionLogin, errors.New("invalid email or password"))
	logger.Wait()

	require.Len(t, db.execArgs, 1)
	args := db.execArgs[0]
	assert.Equal(t, ActorSystem, args[2])
	assert.Nil(t, args[3].(*int64))
	assert.Equal(t, StatusFailure, args[7])
	assert.Equal(t, "invalid email or password", args[12])
}

func TestLogFillsDefaults(t *testing.T) {
	db := &fakeDB{}
	event := &Event{EventType: "create_order", ActorKind: ActorBuyer}

	require.NoError(t, NewLogger(db).Log(context.Background(), event))
	assert.NotZero(t, event.ID)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, time.Minute)
	assert.Nil(t, db.execArgs[0][11])
}

func TestBuildQuery(t *testing.T) {
	actor := int64(3)
	resource := ResourceOrder
	status := StatusDenied

	query, args := buildQuery(QueryFilter{ActorID: &actor, ResourceType: &resource, Status: &status, Offset: 20})

	assert.Contains(t, query, "actor_id = $1")
	assert.Contains(t, query, "resource_type = $2")
	assert.Contains(t, query, "status = $3")
	assert.Contains(t, query, "LIMIT $4")
	assert.Contains(t, query, "OFFSET $5")
	assert.Equal(t, []any{int64(3), "order", "denied", defaultLimit, 20}, args)
	assert.True(t, strings.Index(query, "ORDER BY") < strings.Index(query, "LIMIT"))
}

func TestBuildQueryCapsLimit(t *testing.T) {
	_, args := buildQuery(QueryFilter{Limit: 10_000})
	assert.Equal(t, []any{maxLimit}, args)
}

func TestQueryPropagatesErrors(t *testing.T) {
	db := &fakeDB{queryErr: errors.New("connection refused")}
	_, err := NewLogger(db).Query(context.Background(), QueryFilter{})
	assert.EqualError(t, err, "connection refused")
}
