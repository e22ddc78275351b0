package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

func TestRefundForCancellation(t *testing.T) {
	const amount = 120.0

	tests := []struct {
		name       string
		hoursUntil float64
		want       float64
	}{
		{"well before full refund window", 100, amount},
		{"exactly 48 hours", 48, amount},
		{"just inside half refund window", 47.9, amount / 2},
		{"exactly 24 hours", 24, amount / 2},
		{"just under 24 hours", 23.9, 0},
		{"already started", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refundForCancellation(tt.hoursUntil, amount)
			if got != tt.want {
				t.Errorf("refundForCancellation(%v, %v) = %v, want %v", tt.hoursUntil, amount, got, tt.want)
			}
		})
	}
}

func TestRefundForCancellationNeverDecreasesWithNotice(t *testing.T) {
	const amount = 80.0

	previous := refundForCancellation(0, amount)
	for hours := 0.5; hours <= 96; hours += 0.5 {
		refund := refundForCancellation(hours, amount)
		if refund < previous {
			t.Fatalf("refund dropped from %v to %v at %v hours notice", previous, refund, hours)
		}
		previous = refund
	}
}

func TestCancellationPolicyError(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		hoursUntil float64
		wantReason string
	}{
		{"scheduled with notice", models.SessionStatusScheduled, 30, ""},
		{"rescheduled with notice", models.SessionStatusRescheduled, 50, ""},
		{"scheduled at exactly 24 hours", models.SessionStatusScheduled, 24, ""},
		{"scheduled too late", models.SessionStatusScheduled, 23.5, "24 hours"},
		{"completed session", models.SessionStatusCompleted, 100, "upcoming"},
		{"cancelled session", models.SessionStatusCancelled, 100, "upcoming"},
		{"confirmed session", models.SessionStatusConfirmed, 100, "upcoming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cancellationPolicyError(tt.status, tt.hoursUntil)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("expected no policy error, got %q", err.Reason)
				}
				return
			}
			if err == nil {
				t.Fatal("expected policy error, got nil")
			}
			if !strings.Contains(err.Reason, tt.wantReason) {
				t.Errorf("reason %q does not mention %q", err.Reason, tt.wantReason)
			}
		})
	}
}

func TestReschedulePolicyError(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		hoursUntil float64
		count      int
		wantReason string
	}{
		{"scheduled with notice", models.SessionStatusScheduled, 72, 0, ""},
		{"confirmed with notice", models.SessionStatusConfirmed, 72, 1, ""},
		{"rescheduled again", models.SessionStatusRescheduled, 72, 2, ""},
		{"at exactly 48 hours", models.SessionStatusScheduled, 48, 0, ""},
		{"too close to start", models.SessionStatusScheduled, 47, 0, "48 hours"},
		{"limit reached", models.SessionStatusScheduled, 72, 3, "limit"},
		{"over the limit", models.SessionStatusRescheduled, 72, 4, "limit"},
		{"cancelled session", models.SessionStatusCancelled, 72, 0, "upcoming"},
		{"completed session", models.SessionStatusCompleted, 72, 0, "upcoming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reschedulePolicyError(tt.status, tt.hoursUntil, tt.count)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("expected no policy error, got %q", err.Reason)
				}
				return
			}
			if err == nil {
				t.Fatal("expected policy error, got nil")
			}
			if !strings.Contains(err.Reason, tt.wantReason) {
				t.Errorf("reason %q does not mention %q", err.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidateBookingInput(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)

	valid := BookSessionInput{
		MentorID:        2,
		Title:           "Systems design review",
		Description:     strPtr("Walk through the cache layer design"),
		ScheduledStart:  future,
		DurationMinutes: 60,
	}

	if err := validateBookingInput(1, valid, now); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	longDescription := strings.Repeat("a", 2001)

	tests := []struct {
		name      string
		mutate    func(input *BookSessionInput)
		wantField string
	}{
		{"missing mentor", func(in *BookSessionInput) { in.MentorID = 0 }, "mentor_id"},
		{"self booking", func(in *BookSessionInput) { in.MentorID = 1 }, "mentor_id"},
		{"blank title", func(in *BookSessionInput) { in.Title = "   " }, "title"},
		{"title too long", func(in *BookSessionInput) { in.Title = strings.Repeat("t", 201) }, "title"},
		{"missing description", func(in *BookSessionInput) { in.Description = nil }, "description"},
		{"blank description", func(in *BookSessionInput) { in.Description = strPtr("   ") }, "description"},
		{"description too long", func(in *BookSessionInput) { in.Description = &longDescription }, "description"},
		{"duration too short", func(in *BookSessionInput) { in.DurationMinutes = 10 }, "duration_minutes"},
		{"duration too long", func(in *BookSessionInput) { in.DurationMinutes = 481 }, "duration_minutes"},
		{"start in the past", func(in *BookSessionInput) { in.ScheduledStart = now.Add(-time.Hour) }, "scheduled_start"},
		{"start exactly now", func(in *BookSessionInput) { in.ScheduledStart = now }, "scheduled_start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			err := validateBookingInput(1, input, now)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			validationErr, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestNormalizeRequestedStatus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"confirm", models.SessionStatusConfirmed},
		{"confirmed", models.SessionStatusConfirmed},
		{"CONFIRMED", models.SessionStatusConfirmed},
		{"in-progress", models.SessionStatusInProgress},
		{"in_progress", models.SessionStatusInProgress},
		{"start", models.SessionStatusInProgress},
		{"complete", models.SessionStatusCompleted},
		{"completed", models.SessionStatusCompleted},
		{"no-show", models.SessionStatusNoShow},
		{"no_show", models.SessionStatusNoShow},
	}

	for _, tt := range tests {
		got, err := normalizeRequestedStatus(tt.input)
		if err != nil {
			t.Errorf("normalizeRequestedStatus(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("normalizeRequestedStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	for _, invalid := range []string{"", "cancelled", "scheduled", "done"} {
		if _, err := normalizeRequestedStatus(invalid); err == nil {
			t.Errorf("normalizeRequestedStatus(%q) accepted an invalid status", invalid)
		}
	}
}

func TestStatusTransitionPolicyError(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	session := func(status string, start, end time.Time) *models.Session {
		return &models.Session{
			Status:         status,
			ScheduledStart: start,
			ScheduledEnd:   end,
		}
	}

	upcoming := session(models.SessionStatusScheduled, now.Add(48*time.Hour), now.Add(49*time.Hour))
	finished := session(models.SessionStatusInProgress, now.Add(-2*time.Hour), now.Add(-time.Hour))
	started := session(models.SessionStatusConfirmed, now.Add(-time.Hour), now.Add(time.Hour))

	if err := statusTransitionPolicyError(upcoming, models.SessionStatusConfirmed, now); err != nil {
		t.Errorf("confirming a scheduled session should pass, got %q", err.Reason)
	}
	if err := statusTransitionPolicyError(upcoming, models.SessionStatusInProgress, now); err == nil {
		t.Error("starting a session that was never confirmed should fail")
	}
	if err := statusTransitionPolicyError(finished, models.SessionStatusCompleted, now); err != nil {
		t.Errorf("completing a finished in-progress session should pass, got %q", err.Reason)
	}
	if err := statusTransitionPolicyError(started, models.SessionStatusCompleted, now); err == nil {
		t.Error("completing a session before its end should fail")
	}
	if err := statusTransitionPolicyError(upcoming, models.SessionStatusNoShow, now); err == nil {
		t.Error("marking no-show before the start should fail")
	}
	if err := statusTransitionPolicyError(started, models.SessionStatusNoShow, now); err != nil {
		t.Errorf("marking no-show after the start should pass, got %q", err.Reason)
	}

	cancelled := session(models.SessionStatusCancelled, now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err := statusTransitionPolicyError(cancelled, models.SessionStatusNoShow, now); err == nil {
		t.Error("marking a cancelled session no-show should fail")
	}
}

func TestIsParticipant(t *testing.T) {
	session := &models.Session{MenteeID: 10, MentorID: 20}

	if !isParticipant(models.RoleMentee, 10, session) {
		t.Error("owning mentee rejected")
	}
	if !isParticipant(models.RoleMentor, 20, session) {
		t.Error("owning mentor rejected")
	}
	if isParticipant(models.RoleMentee, 20, session) {
		t.Error("mentor id accepted under mentee role")
	}
	if isParticipant(models.RoleMentor, 10, session) {
		t.Error("mentee id accepted under mentor role")
	}
	if isParticipant("admin", 10, session) {
		t.Error("unknown role accepted")
	}
}

func TestHoursUntilStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := hoursUntilStart(now, now.Add(30*time.Hour)); got != 30 {
		t.Errorf("hoursUntilStart = %v, want 30", got)
	}
	if got := hoursUntilStart(now, now.Add(-time.Hour)); got != -1 {
		t.Errorf("hoursUntilStart = %v, want -1", got)
	}
}
