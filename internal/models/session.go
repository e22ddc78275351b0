package models

import "time"

const (
	SessionStatusScheduled   = "scheduled"
	SessionStatusConfirmed   = "confirmed"
	SessionStatusInProgress  = "in-progress"
	SessionStatusCompleted   = "completed"
	SessionStatusCancelled   = "cancelled"
	SessionStatusNoShow      = "no-show"
	SessionStatusRescheduled = "rescheduled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

type Payment struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// Cancellation is populated only once a session has been cancelled.
type Cancellation struct {
	CancelledBy  int64     `json:"cancelled_by"`
	CancelledAt  time.Time `json:"cancelled_at"`
	Reason       *string   `json:"reason,omitempty"`
	RefundAmount float64   `json:"refund_amount"`
}

// Rescheduling carries the previous window of the most recent reschedule.
type Rescheduling struct {
	RescheduledAt          time.Time `json:"rescheduled_at"`
	PreviousScheduledStart time.Time `json:"previous_scheduled_start"`
	PreviousScheduledEnd   time.Time `json:"previous_scheduled_end"`
	RescheduleCount        int       `json:"reschedule_count"`
}

type Session struct {
	ID              int64         `json:"id"`
	MenteeID        int64         `json:"mentee_id"`
	MentorID        int64         `json:"mentor_id"`
	Title           string        `json:"title"`
	Description     *string       `json:"description,omitempty"`
	ScheduledStart  time.Time     `json:"scheduled_start"`
	ScheduledEnd    time.Time     `json:"scheduled_end"`
	DurationMinutes int           `json:"duration_minutes"`
	Status          string        `json:"status"`
	MeetingRoomID   string        `json:"meeting_room_id"`
	Payment         Payment       `json:"payment"`
	Cancellation    *Cancellation `json:"cancellation,omitempty"`
	Rescheduling    *Rescheduling `json:"rescheduling,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type SessionFeedback struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	AuthorID  int64     `json:"author_id"`
	Role      string    `json:"role"`
	Rating    int       `json:"rating"`
	Review    *string   `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionDetail struct {
	Session
	Feedback []SessionFeedback `json:"feedback,omitempty"`
}

// ConflictingSession is the slice of an existing session returned to a
// caller whose requested window overlaps it.
type ConflictingSession struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
}

// ActiveSessionStatuses are the statuses that occupy a time window for
// conflict purposes. Completed, cancelled and no-show sessions never block.
var ActiveSessionStatuses = []string{
	SessionStatusScheduled,
	SessionStatusConfirmed,
	SessionStatusInProgress,
	SessionStatusRescheduled,
}
