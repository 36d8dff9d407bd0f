package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitment-platform/internal/models"
	"fitment-platform/pkg/database"
	"fitment-platform/pkg/logging"
	"fitment-platform/pkg/metrics"
)

// SessionRepository provides data access for stored fitment sessions.
// Sessions persist raw input fields only; geometry is recomputed by the
// service layer on every read.
type SessionRepository interface {
	// CreateSession stores a session header and its setup rows atomically.
	CreateSession(ctx context.Context, session *models.SessionRecord, setups []*models.SetupRecord) error

	// GetSession retrieves one session and its setups, baseline first and
	// candidates in saved order.
	GetSession(ctx context.Context, id string) (*models.SessionRecord, []*models.SetupRecord, error)

	// ListSessions retrieves session headers newest first.
	ListSessions(ctx context.Context, limit, offset int) ([]*models.SessionRecord, int, error)

	// DeleteSession removes a session and, via the schema, its setups.
	DeleteSession(ctx context.Context, id string) error

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// sessionRepository implements SessionRepository
type sessionRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) SessionRepository {
	return &sessionRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateSession stores the session header and all setup rows in a single
// transaction, so a session can never be observed without its setups.
func (r *sessionRepository) CreateSession(ctx context.Context, session *models.SessionRecord, setups []*models.SetupRecord) error {
	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.metrics.SessionSetupCount.Observe(float64(len(setups)))
		r.logger.Debug(ctx, "[REPO_CREATE_SESSION] Session stored", logging.Fields{
			"session_id":  session.ID,
			"setup_count": len(setups),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fitment_sessions (
			id, name, unit_mode, selected_token,
			inner_clearance_mm, outer_clearance_mm,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		session.ID,
		session.Name,
		session.UnitMode,
		session.SelectedToken,
		session.InnerClearanceMM,
		session.OuterClearanceMM,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fitment_setups (
			id, session_id, role, position, token, tire_size,
			rim_diameter_in, rim_width_in, offset_mm, spacer_mm, width_correction_pct,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare setup insert: %w", err)
	}
	defer stmt.Close()

	for _, setup := range setups {
		_, err := stmt.ExecContext(ctx,
			setup.ID,
			setup.SessionID,
			setup.Role,
			setup.Position,
			setup.Token,
			setup.TireSize,
			setup.RimDiameterIn,
			setup.RimWidthIn,
			setup.OffsetMM,
			setup.SpacerMM,
			setup.WidthCorrectionPct,
			setup.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert setup %s: %w", setup.Token, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSession retrieves a session and its setup rows by ID
func (r *sessionRepository) GetSession(ctx context.Context, id string) (*models.SessionRecord, []*models.SetupRecord, error) {
	query := `
		SELECT id, name, unit_mode, selected_token,
		       inner_clearance_mm, outer_clearance_mm,
		       created_at, updated_at
		FROM fitment_sessions
		WHERE id = $1
	`

	var session models.SessionRecord
	err := r.db.GetContext(ctx, "get_session", &session, query, id)

	if err == sql.ErrNoRows {
		return nil, nil, &NotFoundError{
			Resource: "fitment_session",
			ID:       id,
		}
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session: %w", err)
	}

	setupQuery := `
		SELECT id, session_id, role, position, token, tire_size,
		       rim_diameter_in, rim_width_in, offset_mm, spacer_mm, width_correction_pct,
		       created_at
		FROM fitment_setups
		WHERE session_id = $1
		ORDER BY CASE role WHEN 'baseline' THEN 0 ELSE 1 END, position
	`

	var setups []*models.SetupRecord
	err = r.db.SelectContext(ctx, "get_session_setups", &setups, setupQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get session setups: %w", err)
	}

	return &session, setups, nil
}

// ListSessions retrieves session headers with pagination, newest first
func (r *sessionRepository) ListSessions(ctx context.Context, limit, offset int) ([]*models.SessionRecord, int, error) {
	var totalCount int
	err := r.db.GetContext(ctx, "count_sessions", &totalCount, "SELECT COUNT(*) FROM fitment_sessions")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `
		SELECT id, name, unit_mode, selected_token,
		       inner_clearance_mm, outer_clearance_mm,
		       created_at, updated_at
		FROM fitment_sessions
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	var sessions []*models.SessionRecord
	err = r.db.SelectContext(ctx, "list_sessions", &sessions, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, totalCount, nil
}

// DeleteSession removes a session; setups go with it via ON DELETE CASCADE
func (r *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "delete_session", "DELETE FROM fitment_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm delete: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{
			Resource: "fitment_session",
			ID:       id,
		}
	}

	r.logger.Debug(ctx, "[REPO_DELETE_SESSION] Session deleted", logging.Fields{
		"session_id": id,
	})

	return nil
}

// HealthCheck performs a repository health check
func (r *sessionRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
