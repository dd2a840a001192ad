package service

import (
	"strings"
	"testing"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
)

func trainingFixture(settings ...*model.Setting) (TrainingService, *stubTrainingRepo) {
	trainings := newStubTrainingRepo()
	svc := NewTrainingService(trainings, newStubResponseRepo(), NewSettingService(newStubSettingRepo(settings...)))
	return svc, trainings
}

func createInput() CreateTrainingInput {
	return CreateTrainingInput{
		Name:      "2026년 1차 동원훈련",
		StartDate: "2026-09-07",
		EndDate:   "2026-09-09",
	}
}

func TestCreateTrainingDefaults(t *testing.T) {
	svc, _ := trainingFixture(&model.Setting{Key: SettingDefaultPurgeDays, Value: "5", Type: "integer"})

	training, err := svc.Create(createInput(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if training.Status != model.TrainingScheduled {
		t.Fatalf("status = %s, want scheduled", training.Status)
	}
	if training.ExitMode != model.ExitModeAuto {
		t.Fatalf("exit_mode = %s, want auto", training.ExitMode)
	}
	if training.PurgeDays != 5 {
		t.Fatalf("purge_days = %d, want 5 from settings", training.PurgeDays)
	}
	if len(training.AccessCode) != 6 {
		t.Fatalf("access code %q, want 6 characters", training.AccessCode)
	}
	for _, c := range training.AccessCode {
		if !strings.ContainsRune(accessCodeAlphabet, c) {
			t.Fatalf("access code %q uses character outside alphabet", training.AccessCode)
		}
	}
}

func TestCreateTrainingRejectsInvertedDates(t *testing.T) {
	svc, _ := trainingFixture()

	in := createInput()
	in.StartDate, in.EndDate = in.EndDate, in.StartDate
	_, err := svc.Create(in, nil)
	e, isApp := apperr.As(err)
	if !isApp || e.Kind != apperr.KindValidation {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestTrainingLifecycle(t *testing.T) {
	svc, _ := trainingFixture()

	training, err := svc.Create(createInput(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Pause(training.ID, nil); err == nil {
		t.Fatalf("pause of a scheduled training must fail")
	}
	if _, err := svc.Complete(training.ID, nil); err == nil {
		t.Fatalf("complete of a scheduled training must fail")
	}

	activated, err := svc.Activate(training.ID, nil)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if activated.Status != model.TrainingActive {
		t.Fatalf("status = %s, want active", activated.Status)
	}

	paused, err := svc.Pause(training.ID, nil)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if paused.Status != model.TrainingScheduled {
		t.Fatalf("status after pause = %s, want scheduled", paused.Status)
	}

	if _, err := svc.Activate(training.ID, nil); err != nil {
		t.Fatalf("re-activate: %v", err)
	}
	completed, err := svc.Complete(training.ID, nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.Status != model.TrainingCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
	if completed.AutoPurgeAt == nil {
		t.Fatalf("auto_purge_at not stamped on completion")
	}

	if _, err := svc.Activate(training.ID, nil); err == nil {
		t.Fatalf("completed training must not reactivate")
	}
}

func TestGetByAccessCodeGating(t *testing.T) {
	svc, trainings := trainingFixture()

	training, err := svc.Create(createInput(), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.GetByAccessCode(training.AccessCode)
	if e, isApp := apperr.As(err); !isApp || e.Code != "NOT_STARTED" {
		t.Fatalf("err = %v, want NOT_STARTED", err)
	}

	if _, err := svc.Activate(training.ID, nil); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	got, err := svc.GetByAccessCode(strings.ToLower(training.AccessCode))
	if err != nil {
		t.Fatalf("GetByAccessCode should be case insensitive: %v", err)
	}
	if got.ID != training.ID {
		t.Fatalf("resolved training %d, want %d", got.ID, training.ID)
	}

	training.Status = model.TrainingCompleted
	if err := trainings.Save(training); err != nil {
		t.Fatalf("Save: %v", err)
	}
	_, err = svc.GetByAccessCode(training.AccessCode)
	if e, isApp := apperr.As(err); !isApp || e.Code != "COMPLETED" {
		t.Fatalf("err = %v, want COMPLETED", err)
	}

	_, err = svc.GetByAccessCode("ZZZZZZ")
	if e, isApp := apperr.As(err); !isApp || e.Code != "INVALID_CODE" {
		t.Fatalf("err = %v, want INVALID_CODE", err)
	}
}
