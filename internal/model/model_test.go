package model

import (
	"testing"
	"time"

	"rollcall-backend/internal/apperr"
)

func TestAttendanceTransitions(t *testing.T) {
	now := time.Now()
	resp := SurveyResponse{AttendanceStatus: AttendanceRegistered}

	if err := resp.MarkAsExited(now, nil); err == nil {
		t.Fatalf("exit before entry must fail")
	}

	if err := resp.MarkAsEntered(now); err != nil {
		t.Fatalf("MarkAsEntered: %v", err)
	}
	if resp.AttendanceStatus != AttendanceEntered || resp.EnteredAt == nil {
		t.Fatalf("entry not recorded: %+v", resp)
	}

	if err := resp.MarkAsEntered(now); err == nil {
		t.Fatalf("double entry must fail")
	}

	adminID := uint(3)
	if err := resp.MarkAsExited(now, &adminID); err != nil {
		t.Fatalf("MarkAsExited: %v", err)
	}
	if resp.AttendanceStatus != AttendanceExited || resp.ExitedAt == nil {
		t.Fatalf("exit not recorded: %+v", resp)
	}
	if resp.ExitedBy == nil || *resp.ExitedBy != adminID {
		t.Fatalf("exited_by = %v, want %d", resp.ExitedBy, adminID)
	}

	// Exited is terminal.
	if err := resp.MarkAsEntered(now); err == nil {
		t.Fatalf("re-entry after exit must fail")
	}
	err := resp.MarkAsExited(now, nil)
	if e, isApp := apperr.As(err); !isApp || e.Code != "ALREADY_EXITED" {
		t.Fatalf("err = %v, want ALREADY_EXITED", err)
	}
}

func TestTrainingStatusMachine(t *testing.T) {
	training := Training{Status: TrainingScheduled, PurgeDays: 3}

	if !training.IsOpen() {
		t.Fatalf("scheduled training should accept submissions")
	}
	if err := training.Pause(); err == nil {
		t.Fatalf("pause of scheduled training must fail")
	}

	if err := training.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !training.IsOpen() {
		t.Fatalf("active training should accept submissions")
	}

	if err := training.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if training.Status != TrainingScheduled {
		t.Fatalf("status = %s, want scheduled after pause", training.Status)
	}

	if err := training.Activate(); err != nil {
		t.Fatalf("re-activate: %v", err)
	}

	now := time.Date(2026, 9, 9, 18, 0, 0, 0, time.UTC)
	if err := training.Complete(now); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if training.IsOpen() {
		t.Fatalf("completed training must reject submissions")
	}
	if training.AutoPurgeAt == nil || !training.AutoPurgeAt.Equal(now.AddDate(0, 0, 3)) {
		t.Fatalf("auto_purge_at = %v, want %v", training.AutoPurgeAt, now.AddDate(0, 0, 3))
	}

	if err := training.Activate(); err == nil {
		t.Fatalf("completed training must not reactivate")
	}
}

func TestOptionForValueFirstMatchWins(t *testing.T) {
	q := Question{
		Options: AnswerOptions{
			{Label: "예", Value: "yes", IsDanger: true},
			{Label: "중복", Value: "yes", IsDanger: false},
			{Label: "아니오", Value: "no"},
		},
	}

	opt, found := q.OptionForValue("yes")
	if !found || opt.Label != "예" || !opt.IsDanger {
		t.Fatalf("got %+v, want the first matching option", opt)
	}

	if _, found := q.OptionForValue("maybe"); found {
		t.Fatalf("unexpected match for unknown value")
	}
}

func TestLunchImageForDay(t *testing.T) {
	training := Training{LunchImageMon: "lunch_images/a.jpg", LunchImageFri: "lunch_images/b.jpg"}

	if got := training.LunchImageForDay("MON"); got != "lunch_images/a.jpg" {
		t.Fatalf("mon = %q", got)
	}
	if got := training.LunchImageForDay("fri"); got != "lunch_images/b.jpg" {
		t.Fatalf("fri = %q", got)
	}
	if got := training.LunchImageForDay("sun"); got != "" {
		t.Fatalf("sun = %q, want empty", got)
	}
}
