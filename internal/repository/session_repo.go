package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

const sessionColumns = `id, mentee_id, mentor_id, title, description, scheduled_start, scheduled_end,
	   duration_minutes, status, meeting_room_id, payment_amount, payment_currency, payment_status,
	   cancelled_by, cancelled_at, cancellation_reason, refund_amount,
	   rescheduled_at, previous_scheduled_start, previous_scheduled_end, reschedule_count,
	   created_at, updated_at`

type CreateSessionInput struct {
	MenteeID        int64
	MentorID        int64
	Title           string
	Description     *string
	ScheduledStart  time.Time
	ScheduledEnd    time.Time
	DurationMinutes int
	MeetingRoomID   string
	PaymentAmount   float64
	PaymentCurrency string
}

type SessionListFilter struct {
	ActorID int64
	Role    string
	Status  string
	From    time.Time
	To      time.Time
	Limit   int
	Offset  int
}

type CancelSessionInput struct {
	CancelledBy  int64
	CancelledAt  time.Time
	Reason       *string
	RefundAmount float64
	MarkRefunded bool
}

type RescheduleSessionInput struct {
	NewScheduledStart time.Time
	NewScheduledEnd   time.Time
	RescheduledAt     time.Time
}

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(
	ctx context.Context,
	input CreateSessionInput,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		INSERT INTO sessions (
			mentee_id, mentor_id, title, description, scheduled_start, scheduled_end,
			duration_minutes, status, meeting_room_id, payment_amount, payment_currency, payment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled', $8, $9, $10, 'pending')
		RETURNING %s
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		input.MenteeID,
		input.MentorID,
		input.Title,
		input.Description,
		input.ScheduledStart,
		input.ScheduledEnd,
		input.DurationMinutes,
		input.MeetingRoomID,
		input.PaymentAmount,
		input.PaymentCurrency,
	))
}

func (r *SessionRepository) GetByID(ctx context.Context, sessionID int64) (*models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE id = $1
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) GetByIDForUpdate(
	ctx context.Context,
	sessionID int64,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, sessionID))
}

func (r *SessionRepository) List(
	ctx context.Context,
	filter SessionListFilter,
) ([]models.Session, int, error) {
	actorColumn := "mentee_id"
	if filter.Role == models.RoleMentor {
		actorColumn = "mentor_id"
	}

	args := []any{filter.ActorID}
	whereParts := []string{fmt.Sprintf("%s = $1", actorColumn)}

	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		whereParts = append(whereParts, fmt.Sprintf("scheduled_start >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		whereParts = append(whereParts, fmt.Sprintf("scheduled_start < $%d", len(args)))
	}

	where := strings.Join(whereParts, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM sessions WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM sessions
		WHERE %s
		ORDER BY scheduled_start ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, sessionColumns, where, limitPos, offsetPos)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

// FindConflicts returns the owner's active sessions whose windows intersect
// [start, end). Half-open on both sides: a session ending exactly at start,
// or starting exactly at end, is not a conflict. excludedSessionID of 0
// excludes nothing.
func (r *SessionRepository) FindConflicts(
	ctx context.Context,
	ownerID int64,
	start time.Time,
	end time.Time,
	excludedSessionID int64,
) ([]models.ConflictingSession, error) {
	query := `
		SELECT id, title, scheduled_start, scheduled_end
		FROM sessions
		WHERE mentee_id = $1
		  AND id <> $4
		  AND status = ANY($5)
		  AND scheduled_start < $3
		  AND scheduled_end > $2
		ORDER BY scheduled_start ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, ownerID, start, end, excludedSessionID, models.ActiveSessionStatuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conflicts := make([]models.ConflictingSession, 0)
	for rows.Next() {
		var conflict models.ConflictingSession
		if err := rows.Scan(
			&conflict.ID,
			&conflict.Title,
			&conflict.ScheduledStart,
			&conflict.ScheduledEnd,
		); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, conflict)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return conflicts, nil
}

func (r *SessionRepository) Cancel(
	ctx context.Context,
	sessionID int64,
	input CancelSessionInput,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET status = 'cancelled',
			cancelled_by = $2,
			cancelled_at = $3,
			cancellation_reason = $4,
			refund_amount = $5,
			payment_status = CASE WHEN $6 THEN 'refunded' ELSE payment_status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		sessionID,
		input.CancelledBy,
		input.CancelledAt,
		input.Reason,
		input.RefundAmount,
		input.MarkRefunded,
	))
}

func (r *SessionRepository) Reschedule(
	ctx context.Context,
	sessionID int64,
	input RescheduleSessionInput,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET previous_scheduled_start = scheduled_start,
			previous_scheduled_end = scheduled_end,
			scheduled_start = $2,
			scheduled_end = $3,
			rescheduled_at = $4,
			reschedule_count = reschedule_count + 1,
			status = 'rescheduled',
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(
		ctx,
		query,
		sessionID,
		input.NewScheduledStart,
		input.NewScheduledEnd,
		input.RescheduledAt,
	))
}

func (r *SessionRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	sessionID int64,
	currentStatus string,
	nextStatus string,
) (*models.Session, error) {
	query := fmt.Sprintf(`
		UPDATE sessions
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING %s
	`, sessionColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, sessionID, currentStatus, nextStatus))
}

func (r *SessionRepository) CreateFeedback(
	ctx context.Context,
	sessionID int64,
	authorID int64,
	role string,
	rating int,
	review *string,
) (*models.SessionFeedback, error) {
	query := `
		INSERT INTO session_feedback (session_id, author_id, role, rating, review)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, session_id, author_id, role, rating, review, created_at
	`

	var feedback models.SessionFeedback
	err := r.db.QueryRow(ctx, query, sessionID, authorID, role, rating, review).Scan(
		&feedback.ID,
		&feedback.SessionID,
		&feedback.AuthorID,
		&feedback.Role,
		&feedback.Rating,
		&feedback.Review,
		&feedback.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *SessionRepository) ListFeedback(
	ctx context.Context,
	sessionID int64,
) ([]models.SessionFeedback, error) {
	query := `
		SELECT id, session_id, author_id, role, rating, review, created_at
		FROM session_feedback
		WHERE session_id = $1
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feedback := make([]models.SessionFeedback, 0)
	for rows.Next() {
		var entry models.SessionFeedback
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.AuthorID,
			&entry.Role,
			&entry.Rating,
			&entry.Review,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		feedback = append(feedback, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return feedback, nil
}

func (r *SessionRepository) HasFeedbackFrom(
	ctx context.Context,
	sessionID int64,
	authorID int64,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM session_feedback
			WHERE session_id = $1 AND author_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, sessionID, authorID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SessionRepository) scanOne(row rowScanner) (*models.Session, error) {
	var (
		session         models.Session
		cancelledBy     *int64
		cancelledAt     *time.Time
		cancelReason    *string
		refundAmount    *float64
		rescheduledAt   *time.Time
		prevStart       *time.Time
		prevEnd         *time.Time
		rescheduleCount int
	)

	err := row.Scan(
		&session.ID,
		&session.MenteeID,
		&session.MentorID,
		&session.Title,
		&session.Description,
		&session.ScheduledStart,
		&session.ScheduledEnd,
		&session.DurationMinutes,
		&session.Status,
		&session.MeetingRoomID,
		&session.Payment.Amount,
		&session.Payment.Currency,
		&session.Payment.Status,
		&cancelledBy,
		&cancelledAt,
		&cancelReason,
		&refundAmount,
		&rescheduledAt,
		&prevStart,
		&prevEnd,
		&rescheduleCount,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy != nil && cancelledAt != nil {
		session.Cancellation = &models.Cancellation{
			CancelledBy: *cancelledBy,
			CancelledAt: *cancelledAt,
			Reason:      cancelReason,
		}
		if refundAmount != nil {
			session.Cancellation.RefundAmount = *refundAmount
		}
	}

	if rescheduledAt != nil && prevStart != nil && prevEnd != nil {
		session.Rescheduling = &models.Rescheduling{
			RescheduledAt:          *rescheduledAt,
			PreviousScheduledStart: *prevStart,
			PreviousScheduledEnd:   *prevEnd,
			RescheduleCount:        rescheduleCount,
		}
	} else if rescheduleCount > 0 {
		session.Rescheduling = &models.Rescheduling{RescheduleCount: rescheduleCount}
	}

	return &session, nil
}
