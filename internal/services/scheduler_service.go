package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/repository"
)

const (
	minSessionMinutes = 15
	maxSessionMinutes = 480

	maxTitleLength       = 200
	maxDescriptionLength = 2000

	cancelWindowHours     = 24
	fullRefundWindowHours = 48
	rescheduleWindowHours = 48
	maxReschedules        = 3

	defaultCurrency = "usd"
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type profileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	IncrementTotalSessions(ctx context.Context, userID int64) error
}

// SchedulerService owns the session lifecycle: booking with conflict
// detection, cancellation with refund tiers, bounded rescheduling, status
// transitions and feedback. It keeps no session state between calls; the
// database is the single source of truth, and booking/reschedule serialize
// per owner on an advisory lock inside their transaction.
type SchedulerService struct {
	db          *pgxpool.Pool
	sessionRepo *repository.SessionRepository
	profileRepo profileReader
	userRepo    userReader
	log         zerolog.Logger
	now         func() time.Time
}

func NewSchedulerService(
	db *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	profileRepo profileReader,
	userRepo userReader,
	log zerolog.Logger,
) *SchedulerService {
	return &SchedulerService{
		db:          db,
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		userRepo:    userRepo,
		log:         log,
		now:         time.Now,
	}
}

type BookSessionInput struct {
	MentorID        int64
	Title           string
	Description     *string
	ScheduledStart  time.Time
	DurationMinutes int
}

func (s *SchedulerService) BookSession(
	ctx context.Context,
	menteeID int64,
	input BookSessionInput,
) (*models.SessionDetail, error) {
	if err := validateBookingInput(menteeID, input, s.now().UTC()); err != nil {
		return nil, err
	}

	mentor, err := s.userRepo.GetByID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}
	if mentor.Role != models.RoleMentor {
		return nil, &ValidationError{Field: "mentor_id", Message: "must reference a mentor"}
	}

	mentorProfile, err := s.profileRepo.GetByUserID(ctx, input.MentorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMentorNotFound
		}
		return nil, err
	}
	if !mentorProfile.OnboardingComplete || mentorProfile.HourlyRate == nil ||
		*mentorProfile.HourlyRate <= 0 {
		return nil, &ValidationError{Field: "mentor_id", Message: "mentor is not accepting bookings"}
	}

	start := input.ScheduledStart.UTC()
	end := start.Add(time.Duration(input.DurationMinutes) * time.Minute)
	amount := *mentorProfile.HourlyRate * float64(input.DurationMinutes) / 60
	currency := defaultCurrency
	if mentorProfile.Currency != nil && *mentorProfile.Currency != "" {
		currency = *mentorProfile.Currency
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", menteeID); err != nil {
		return nil, err
	}

	conflicts, err := txSessionRepo.FindConflicts(ctx, menteeID, start, end, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	session, err := txSessionRepo.Create(ctx, repository.CreateSessionInput{
		MenteeID:        menteeID,
		MentorID:        input.MentorID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		ScheduledStart:  start,
		ScheduledEnd:    end,
		DurationMinutes: input.DurationMinutes,
		MeetingRoomID:   uuid.NewString(),
		PaymentAmount:   amount,
		PaymentCurrency: currency,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	// Best effort: the session is committed either way, but a silently
	// stale counter is not acceptable, so failures go to the operator log.
	if err := s.profileRepo.IncrementTotalSessions(ctx, menteeID); err != nil {
		s.log.Error().
			Err(err).
			Int64("session_id", session.ID).
			Int64("mentee_id", menteeID).
			Msg("failed to increment total_sessions counter")
	}

	return &models.SessionDetail{Session: *session}, nil
}

type CancelResult struct {
	Session      *models.SessionDetail
	RefundAmount float64
}

func (s *SchedulerService) CancelSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
	reason *string,
) (*CancelResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(role, actorID, session) {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	hours := hoursUntilStart(now, session.ScheduledStart)
	if policyErr := cancellationPolicyError(session.Status, hours); policyErr != nil {
		return nil, policyErr
	}

	refund := refundForCancellation(hours, session.Payment.Amount)

	updated, err := txSessionRepo.Cancel(ctx, sessionID, repository.CancelSessionInput{
		CancelledBy:  actorID,
		CancelledAt:  now,
		Reason:       reason,
		RefundAmount: refund,
		MarkRefunded: refund > 0,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CancelResult{
		Session:      &models.SessionDetail{Session: *updated},
		RefundAmount: refund,
	}, nil
}

type RescheduleSessionInput struct {
	NewScheduledStart time.Time
	Reason            *string
}

func (s *SchedulerService) RescheduleSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
	input RescheduleSessionInput,
) (*models.SessionDetail, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSessionRepo := repository.NewSessionRepository(tx)

	session, err := txSessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(role, actorID, session) {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	hours := hoursUntilStart(now, session.ScheduledStart)
	if policyErr := reschedulePolicyError(session.Status, hours, rescheduleCount(session)); policyErr != nil {
		return nil, policyErr
	}

	newStart := input.NewScheduledStart.UTC()
	if !newStart.After(now) {
		return nil, &ValidationError{Field: "new_scheduled_start", Message: "must be in the future"}
	}
	// Duration is preserved across a reschedule.
	newEnd := newStart.Add(time.Duration(session.DurationMinutes) * time.Minute)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", session.MenteeID); err != nil {
		return nil, err
	}

	conflicts, err := txSessionRepo.FindConflicts(ctx, session.MenteeID, newStart, newEnd, sessionID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	updated, err := txSessionRepo.Reschedule(ctx, sessionID, repository.RescheduleSessionInput{
		NewScheduledStart: newStart,
		NewScheduledEnd:   newEnd,
		RescheduledAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &models.SessionDetail{Session: *updated}, nil
}

func (s *SchedulerService) ListSessions(
	ctx context.Context,
	actorID int64,
	role string,
	filter repository.SessionListFilter,
) ([]models.SessionDetail, int, error) {
	filter.ActorID = actorID
	filter.Role = role

	sessions, total, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	details := make([]models.SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		details = append(details, models.SessionDetail{Session: session})
	}

	return details, total, nil
}

func (s *SchedulerService) GetSession(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(role, actorID, session) {
		return nil, ErrForbidden
	}

	feedback, err := s.sessionRepo.ListFeedback(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.SessionDetail{Session: *session, Feedback: feedback}, nil
}

func (s *SchedulerService) SubmitFeedback(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
	rating int,
	review *string,
) (*models.SessionFeedback, error) {
	if rating < 1 || rating > 5 {
		return nil, &ValidationError{Field: "rating", Message: "must be between 1 and 5"}
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(role, actorID, session) {
		return nil, ErrForbidden
	}
	if session.Status != models.SessionStatusCompleted {
		return nil, &PolicyError{Reason: "feedback is only accepted on completed sessions"}
	}

	exists, err := s.sessionRepo.HasFeedbackFrom(ctx, sessionID, actorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &PolicyError{Reason: "feedback already submitted for this session"}
	}

	return s.sessionRepo.CreateFeedback(ctx, sessionID, actorID, role, rating, review)
}

// UpdateStatus handles the mentor-driven workflow transitions (confirm,
// in-progress, complete, no-show). Cancellation has its own operation.
func (s *SchedulerService) UpdateStatus(
	ctx context.Context,
	actorID int64,
	role string,
	sessionID int64,
	requestedStatus string,
) (*models.SessionDetail, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if role != models.RoleMentor || session.MentorID != actorID {
		return nil, ErrForbidden
	}

	nextStatus, err := normalizeRequestedStatus(requestedStatus)
	if err != nil {
		return nil, err
	}
	if policyErr := statusTransitionPolicyError(session, nextStatus, s.now().UTC()); policyErr != nil {
		return nil, policyErr
	}

	updated, err := s.sessionRepo.UpdateStatusIfCurrent(ctx, sessionID, session.Status, nextStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &PolicyError{Reason: "session changed concurrently, retry"}
		}
		return nil, err
	}

	return &models.SessionDetail{Session: *updated}, nil
}

func validateBookingInput(menteeID int64, input BookSessionInput, now time.Time) error {
	if input.MentorID <= 0 {
		return &ValidationError{Field: "mentor_id", Message: "is required"}
	}
	if input.MentorID == menteeID {
		return &ValidationError{Field: "mentor_id", Message: "cannot book a session with yourself"}
	}
	if title := strings.TrimSpace(input.Title); title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	} else if len(title) > maxTitleLength {
		return &ValidationError{Field: "title", Message: "must be at most 200 characters"}
	}
	if input.Description == nil || strings.TrimSpace(*input.Description) == "" {
		return &ValidationError{Field: "description", Message: "is required"}
	}
	if len(*input.Description) > maxDescriptionLength {
		return &ValidationError{Field: "description", Message: "must be at most 2000 characters"}
	}
	if input.DurationMinutes < minSessionMinutes || input.DurationMinutes > maxSessionMinutes {
		return &ValidationError{Field: "duration_minutes", Message: "must be between 15 and 480"}
	}
	if !input.ScheduledStart.UTC().After(now) {
		return &ValidationError{Field: "scheduled_start", Message: "must be in the future"}
	}
	return nil
}

func isParticipant(role string, actorID int64, session *models.Session) bool {
	if role == models.RoleMentee {
		return session.MenteeID == actorID
	}
	if role == models.RoleMentor {
		return session.MentorID == actorID
	}
	return false
}

func hoursUntilStart(now, start time.Time) float64 {
	return start.Sub(now).Hours()
}

// refundForCancellation implements the refund tiers. The sub-24h branch is
// unreachable through CancelSession, which rejects those first; it exists so
// the function is total.
func refundForCancellation(hoursUntil float64, amount float64) float64 {
	switch {
	case hoursUntil >= fullRefundWindowHours:
		return amount
	case hoursUntil >= cancelWindowHours:
		return amount / 2
	default:
		return 0
	}
}

func cancellationPolicyError(status string, hoursUntil float64) *PolicyError {
	if status != models.SessionStatusScheduled && status != models.SessionStatusRescheduled {
		return &PolicyError{Reason: "only upcoming sessions can be cancelled"}
	}
	if hoursUntil < cancelWindowHours {
		return &PolicyError{Reason: "sessions must be cancelled at least 24 hours in advance"}
	}
	return nil
}

func reschedulePolicyError(status string, hoursUntil float64, count int) *PolicyError {
	switch status {
	case models.SessionStatusScheduled, models.SessionStatusConfirmed, models.SessionStatusRescheduled:
	default:
		return &PolicyError{Reason: "only upcoming sessions can be rescheduled"}
	}
	if hoursUntil < rescheduleWindowHours {
		return &PolicyError{Reason: "sessions must be rescheduled at least 48 hours in advance"}
	}
	if count >= maxReschedules {
		return &PolicyError{Reason: "reschedule limit reached"}
	}
	return nil
}

func rescheduleCount(session *models.Session) int {
	if session.Rescheduling == nil {
		return 0
	}
	return session.Rescheduling.RescheduleCount
}

func normalizeRequestedStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "confirm", "confirmed":
		return models.SessionStatusConfirmed, nil
	case "in-progress", "in_progress", "start":
		return models.SessionStatusInProgress, nil
	case "complete", "completed":
		return models.SessionStatusCompleted, nil
	case "no-show", "no_show":
		return models.SessionStatusNoShow, nil
	default:
		return "", ErrInvalidStatus
	}
}

func statusTransitionPolicyError(session *models.Session, nextStatus string, now time.Time) *PolicyError {
	switch nextStatus {
	case models.SessionStatusConfirmed:
		if session.Status != models.SessionStatusScheduled &&
			session.Status != models.SessionStatusRescheduled {
			return &PolicyError{Reason: "only scheduled sessions can be confirmed"}
		}
	case models.SessionStatusInProgress:
		if session.Status != models.SessionStatusConfirmed {
			return &PolicyError{Reason: "only confirmed sessions can be started"}
		}
	case models.SessionStatusCompleted:
		if session.Status != models.SessionStatusInProgress &&
			session.Status != models.SessionStatusConfirmed {
			return &PolicyError{Reason: "only confirmed or in-progress sessions can be completed"}
		}
		if session.ScheduledEnd.After(now) {
			return &PolicyError{Reason: "sessions cannot be completed before they end"}
		}
	case models.SessionStatusNoShow:
		switch session.Status {
		case models.SessionStatusScheduled, models.SessionStatusConfirmed, models.SessionStatusRescheduled:
		default:
			return &PolicyError{Reason: "only upcoming sessions can be marked no-show"}
		}
		if session.ScheduledStart.After(now) {
			return &PolicyError{Reason: "sessions cannot be marked no-show before they start"}
		}
	}
	return nil
}
