package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

// Scan actions.
const (
	ActionEntry       = "entry"
	ActionExit        = "exit"
	ActionExitPending = "exit_pending"
)

// ScanOutcome is the kiosk reply to a QR scan.
type ScanOutcome struct {
	UUID                 string `json:"uuid"`
	Name                 string `json:"name"`
	Action               string `json:"action"`
	SurveyResult         string `json:"survey_result"`
	Message              string `json:"message"`
	TTSMessage           string `json:"tts_message,omitempty"`
	RequiresConfirmation bool   `json:"requires_confirmation,omitempty"`
}

// ExitInfo is the validate-only reply of the admin exit scanner.
type ExitInfo struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	SurveyResult string `json:"survey_result"`
}

type AttendanceService interface {
	// Scan dispatches on the response's attendance state: registered
	// responses enter, entered responses exit (or stage an exit in
	// confirm mode), exited responses fail. The whole check-then-act
	// runs under a per-response row lock.
	Scan(trainingID uint, uuidStr string) (*ScanOutcome, error)
	// ConfirmExit commits a staged exit. exitedBy records the admin who
	// confirmed, nil for kiosk confirmations.
	ConfirmExit(uuidStr string, exitedBy *uint) (*ScanOutcome, error)
	// ExitScan validates a candidate for the admin exit scanner without
	// mutating anything.
	ExitScan(trainingID uint, uuidStr string) (*ExitInfo, error)
}

type attendanceService struct {
	responseRepo repository.ResponseRepository
	trainingRepo repository.TrainingRepository
}

func NewAttendanceService(responseRepo repository.ResponseRepository, trainingRepo repository.TrainingRepository) AttendanceService {
	return &attendanceService{
		responseRepo: responseRepo,
		trainingRepo: trainingRepo,
	}
}

func (s *attendanceService) Scan(trainingID uint, uuidStr string) (*ScanOutcome, error) {
	training, err := s.trainingRepo.GetByID(trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidState("TRAINING_NOT_ACTIVE", "진행 중인 훈련이 아닙니다.")
		}
		return nil, err
	}
	if training.Status != model.TrainingActive {
		return nil, apperr.InvalidState("TRAINING_NOT_ACTIVE", "진행 중인 훈련이 아닙니다.")
	}

	var outcome *ScanOutcome
	_, err = s.responseRepo.UpdateLocked(uuidStr, trainingID, func(resp *model.SurveyResponse) (bool, error) {
		switch resp.AttendanceStatus {
		case model.AttendanceRegistered:
			if err := resp.MarkAsEntered(time.Now()); err != nil {
				return false, err
			}
			outcome = &ScanOutcome{
				UUID:         resp.UUID,
				Name:         resp.Name,
				Action:       ActionEntry,
				SurveyResult: resp.SurveyResult,
				Message:      "입소 처리되었습니다.",
				TTSMessage:   fmt.Sprintf("%s님, 입소 처리되었습니다.", resp.Name),
			}
			return true, nil

		case model.AttendanceEntered:
			if training.ExitMode == model.ExitModeAuto {
				if err := resp.MarkAsExited(time.Now(), nil); err != nil {
					return false, err
				}
				outcome = &ScanOutcome{
					UUID:         resp.UUID,
					Name:         resp.Name,
					Action:       ActionExit,
					SurveyResult: resp.SurveyResult,
					Message:      "퇴소 처리되었습니다.",
					TTSMessage:   fmt.Sprintf("%s님, 퇴소 처리되었습니다.", resp.Name),
				}
				return true, nil
			}
			// Confirm mode stages the exit without touching state.
			outcome = &ScanOutcome{
				UUID:                 resp.UUID,
				Name:                 resp.Name,
				Action:               ActionExitPending,
				SurveyResult:         resp.SurveyResult,
				Message:              "퇴소 확인이 필요합니다.",
				RequiresConfirmation: true,
			}
			return false, nil

		default:
			return false, apperr.InvalidState("ALREADY_EXITED", "이미 퇴소 처리된 예비군입니다.")
		}
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("NOT_REGISTERED", "등록된 QR 코드가 아닙니다.")
		}
		return nil, err
	}
	return outcome, nil
}

func (s *attendanceService) ConfirmExit(uuidStr string, exitedBy *uint) (*ScanOutcome, error) {
	var outcome *ScanOutcome
	resp, err := s.responseRepo.UpdateLocked(uuidStr, 0, func(resp *model.SurveyResponse) (bool, error) {
		if err := resp.MarkAsExited(time.Now(), exitedBy); err != nil {
			return false, err
		}
		outcome = &ScanOutcome{
			UUID:    resp.UUID,
			Name:    resp.Name,
			Action:  ActionExit,
			Message: "퇴소 처리되었습니다.",
		}
		return true, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("NOT_REGISTERED", "등록된 QR 코드가 아닙니다.")
		}
		return nil, err
	}

	if exitedBy != nil {
		Audit(AuditEvent{
			AdminID:    exitedBy,
			Action:     "exit",
			EntityType: "survey_response",
			EntityID:   &resp.ID,
			NewValues:  map[string]interface{}{"name": resp.Name, "exited_at": resp.ExitedAt},
		})
	}
	return outcome, nil
}

func (s *attendanceService) ExitScan(trainingID uint, uuidStr string) (*ExitInfo, error) {
	resp, err := s.responseRepo.GetByUUIDAndTraining(uuidStr, trainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("NOT_REGISTERED", "등록된 QR 코드가 아닙니다.")
		}
		return nil, err
	}

	switch resp.AttendanceStatus {
	case model.AttendanceRegistered:
		return nil, apperr.InvalidState("NOT_ENTERED", "아직 입소하지 않은 인원입니다.")
	case model.AttendanceExited:
		return nil, apperr.InvalidState("ALREADY_EXITED", "이미 퇴소 처리된 인원입니다.")
	}

	return &ExitInfo{
		UUID:         resp.UUID,
		Name:         resp.Name,
		SurveyResult: resp.SurveyResult,
	}, nil
}
