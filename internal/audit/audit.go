package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/rbac"
	"storefront/pkg/logger"
)

// ActorKind represents the type of principal performing an action
type ActorKind string

const (
	ActorBuyer  ActorKind = "buyer"
	ActorStaff  ActorKind = "staff"
	ActorSystem ActorKind = "system"
)

// ResourceType represents the type of resource being acted upon
type ResourceType string

const (
	ResourceOrder   ResourceType = "order"
	ResourceProduct ResourceType = "product"
	ResourceStaff   ResourceType = "staff"
	ResourceBuyer   ResourceType = "buyer"
	ResourceSession ResourceType = "session"
)

// Action represents the action being performed
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionLogin        Action = "login"
	ActionChangeStatus Action = "change_status"
	ActionUpload       Action = "upload"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusDenied  Status = "denied"
)

const (
	writeTimeout = 2 * time.Second
	defaultLimit = 100
	maxLimit     = 500
)

// Event represents an audit event
type Event struct {
	ID           uuid.UUID      `json:"id"`
	EventType    string         `json:"event_type"`
	ActorKind    ActorKind      `json:"actor_kind"`
	ActorID      *int64         `json:"actor_id,omitempty"`
	ResourceType ResourceType   `json:"resource_type"`
	ResourceID   *int64         `json:"resource_id,omitempty"`
	Action       Action         `json:"action"`
	Status       Status         `json:"status"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	RequestID    string         `json:"request_id"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Logger writes audit events without blocking the request that caused them.
type Logger struct {
	db DB
	wg sync.WaitGroup
}

func NewLogger(db DB) *Logger {
	return &Logger{db: db}
}

// Log records an audit event
func (l *Logger) Log(ctx context.Context, event *Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var metadataJSON []byte
	var err error
	if event.Metadata != nil {
		metadataJSON, err = json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_events (
			id, event_type, actor_kind, actor_id, resource_type, resource_id,
			action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = l.db.Exec(ctx, query,
		event.ID,
		event.EventType,
		event.ActorKind,
		event.ActorID,
		event.ResourceType,
		event.ResourceID,
		event.Action,
		event.Status,
		event.IPAddress,
		event.UserAgent,
		event.RequestID,
		metadataJSON,
		event.ErrorMessage,
		event.CreatedAt,
	)

	return err
}

// Record logs the outcome of a request asynchronously. The actor is taken
// from the authenticated principal, if any.
func (l *Logger) Record(c echo.Context, resourceType ResourceType, resourceID *int64, action Action, status Status, metadata map[string]any) {
	l.dispatch(c, newEvent(c, resourceType, resourceID, action, status, metadata))
}

// RecordError logs a failed action with error details asynchronously
func (l *Logger) RecordError(c echo.Context, resourceType ResourceType, resourceID *int64, action Action, err error) {
	event := newEvent(c, resourceType, resourceID, action, StatusFailure, nil)
	event.ErrorMessage = logger.SanitizeLogMessage(err.Error())
	l.dispatch(c, event)
}

func newEvent(c echo.Context, resourceType ResourceType, resourceID *int64, action Action, status Status, metadata map[string]any) *Event {
	event := &Event{
		EventType:    string(action) + "_" + string(resourceType),
		ActorKind:    ActorSystem,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Status:       status,
		IPAddress:    c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Metadata:     logger.SanitizeMap(metadata),
	}

	if subject, err := auth.GetSubject(c); err == nil {
		id := subject.ID
		event.ActorID = &id
		if subject.Kind == rbac.KindStaff {
			event.ActorKind = ActorStaff
		} else {
			event.ActorKind = ActorBuyer
		}
	}
	return event
}

func (l *Logger) dispatch(c echo.Context, event *Event) {
	echoLogger := c.Logger()
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := l.Log(ctx, event); err != nil {
			echoLogger.Errorf("audit log failed: %v", err)
		}
	}()
}

// Wait blocks until every pending write has finished.
func (l *Logger) Wait() {
	l.wg.Wait()
}

// QueryFilter narrows an audit query
type QueryFilter struct {
	ActorID      *int64
	ResourceType *ResourceType
	ResourceID   *int64
	Action       *Action
	Status       *Status
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Offset       int
}

func buildQuery(filter QueryFilter) (string, []any) {
	query := `
		SELECT id, event_type, actor_kind, actor_id, resource_type, resource_id,
		       action, status, ip_address, user_agent, request_id, metadata, error_message, created_at
		FROM audit_events
		WHERE 1=1
	`
	args := []any{}

	add := func(clause string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.ActorID != nil {
		add(" AND actor_id = $%d", *filter.ActorID)
	}
	if filter.ResourceType != nil {
		add(" AND resource_type = $%d", string(*filter.ResourceType))
	}
	if filter.ResourceID != nil {
		add(" AND resource_id = $%d", *filter.ResourceID)
	}
	if filter.Action != nil {
		add(" AND action = $%d", string(*filter.Action))
	}
	if filter.Status != nil {
		add(" AND status = $%d", string(*filter.Status))
	}
	if filter.StartTime != nil {
		add(" AND created_at >= $%d", *filter.StartTime)
	}
	if filter.EndTime != nil {
		add(" AND created_at <= $%d", *filter.EndTime)
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	add(" LIMIT $%d", limit)

	if filter.Offset > 0 {
		add(" OFFSET $%d", filter.Offset)
	}

	return query, args
}

// Query retrieves audit events, newest first
func (l *Logger) Query(ctx context.Context, filter QueryFilter) ([]*Event, error) {
	query, args := buildQuery(filter)

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.ActorKind,
			&event.ActorID,
			&event.ResourceType,
			&event.ResourceID,
			&event.Action,
			&event.Status,
			&event.IPAddress,
			&event.UserAgent,
			&event.RequestID,
			&metadataJSON,
			&event.ErrorMessage,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, err
			}
		}

		events = append(events, event)
	}

	return events, rows.Err()
}
