package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/utilities"
)

// SubmitInput is the participant submission payload. Answer map keys are
// question ids as JSON object keys (strings).
type SubmitInput struct {
	TrainingID uint              `json:"training_id" binding:"required"`
	Name       string            `json:"name" binding:"required,max=100"`
	DOB        string            `json:"dob" binding:"required,len=6"`
	Phone      string            `json:"phone" binding:"required,min=10,max=11"`
	BankName   string            `json:"bank_name" binding:"required,max=50"`
	AccountNum string            `json:"account_num" binding:"required"`
	LunchYN    bool              `json:"lunch_yn"`
	Answers    map[string]string `json:"answers" binding:"required"`
}

// SubmitResult is what the kiosk shows after a successful submission.
type SubmitResult struct {
	UUID         string `json:"uuid"`
	SurveyResult string `json:"survey_result"`
	Name         string `json:"name"`
	LunchYN      bool   `json:"lunch_yn"`
}

// ReissueResult is returned when a participant recovers a lost pass.
type ReissueResult struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	SurveyResult string `json:"survey_result"`
	LunchYN      bool   `json:"lunch_yn"`
}

type SurveyService interface {
	Submit(in SubmitInput) (*SubmitResult, error)
	// Signature stores the participant's signature and stamps the QR
	// issuance time. With auto_entry_on_qr enabled the response goes
	// straight to entered.
	Signature(uuidStr, signature string) (string, error)
	Reissue(name, dob, phone string) (*ReissueResult, error)
}

type surveyService struct {
	responseRepo repository.ResponseRepository
	trainingRepo repository.TrainingRepository
	questionRepo repository.QuestionRepository
	settings     SettingService
	cipher       *utilities.FieldCipher
}

func NewSurveyService(
	responseRepo repository.ResponseRepository,
	trainingRepo repository.TrainingRepository,
	questionRepo repository.QuestionRepository,
	settings SettingService,
	cipher *utilities.FieldCipher,
) SurveyService {
	return &surveyService{
		responseRepo: responseRepo,
		trainingRepo: trainingRepo,
		questionRepo: questionRepo,
		settings:     settings,
		cipher:       cipher,
	}
}

// parseAnswerKeys converts the JSON object keys into question ids.
// Unparseable keys are dropped; the scorer ignores unknown ids anyway.
func parseAnswerKeys(raw map[string]string) map[uint]string {
	answers := make(map[uint]string, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			continue
		}
		answers[uint(id)] = v
	}
	return answers
}

func (s *surveyService) Submit(in SubmitInput) (*SubmitResult, error) {
	training, err := s.trainingRepo.GetByID(in.TrainingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.InvalidState("TRAINING_NOT_OPEN", "현재 진행 중인 훈련이 아닙니다.")
		}
		return nil, err
	}
	if !training.IsOpen() {
		return nil, apperr.InvalidState("TRAINING_NOT_OPEN", "현재 진행 중인 훈련이 아닙니다.")
	}

	questions, err := s.questionRepo.GetActiveOrdered()
	if err != nil {
		return nil, err
	}
	result, snapshot := ComputeResult(parseAnswerKeys(in.Answers), questions)

	encDOB, err := s.cipher.Encrypt(in.DOB)
	if err != nil {
		return nil, err
	}
	encPhone, err := s.cipher.Encrypt(in.Phone)
	if err != nil {
		return nil, err
	}
	encAccount, err := s.cipher.Encrypt(in.AccountNum)
	if err != nil {
		return nil, err
	}

	response := &model.SurveyResponse{
		TrainingID:       in.TrainingID,
		UUID:             uuid.New().String(),
		Name:             in.Name,
		DOB:              encDOB,
		Phone:            encPhone,
		BankName:         in.BankName,
		AccountNum:       encAccount,
		IdentityDigest:   utilities.IdentityDigest(in.Name, in.DOB, in.Phone),
		LunchYN:          in.LunchYN,
		SurveyResult:     result,
		AnswersJSON:      snapshot,
		AttendanceStatus: model.AttendanceRegistered,
	}

	// The unique index on (training_id, identity_digest) closes the
	// check-then-insert race; no application-level pre-check.
	if err := s.responseRepo.Create(response); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("ALREADY_REGISTERED", "이미 등록된 정보입니다.")
		}
		return nil, err
	}

	return &SubmitResult{
		UUID:         response.UUID,
		SurveyResult: response.SurveyResult,
		Name:         response.Name,
		LunchYN:      response.LunchYN,
	}, nil
}

func (s *surveyService) Signature(uuidStr, signature string) (string, error) {
	autoEntry := s.settings.GetBool(SettingAutoEntryOnQR, true)

	// The signature and auto-entry share the row lock with Scan and
	// ConfirmExit so a concurrent kiosk transition can never be clobbered
	// by a stale row image.
	response, err := s.responseRepo.UpdateLocked(uuidStr, 0, func(resp *model.SurveyResponse) (bool, error) {
		now := time.Now()
		resp.Signature = signature
		resp.QRGeneratedAt = &now
		if autoEntry && resp.AttendanceStatus == model.AttendanceRegistered {
			if err := resp.MarkAsEntered(now); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("RESPONSE_NOT_FOUND", "응답을 찾을 수 없습니다.")
		}
		return "", err
	}
	return response.UUID, nil
}

func (s *surveyService) Reissue(name, dob, phone string) (*ReissueResult, error) {
	candidates, err := s.responseRepo.FindByNameInOpenTrainings(name)
	if err != nil {
		return nil, err
	}

	var match *model.SurveyResponse
	for i := range candidates {
		gotDOB := s.cipher.DecryptOrNil(candidates[i].DOB)
		gotPhone := s.cipher.DecryptOrNil(candidates[i].Phone)
		if gotDOB != nil && gotPhone != nil && *gotDOB == dob && *gotPhone == phone {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		return nil, apperr.NotFound("RESPONSE_NOT_FOUND", "등록된 정보를 찾을 수 없습니다.")
	}

	if match.SurveyResult == model.ResultDanger && !s.settings.GetBool(SettingAllowDangerReissue, false) {
		return nil, apperr.Forbidden("DANGER_REISSUE_BLOCKED", "문진 결과가 위험으로 분류되어 재발급할 수 없습니다. 관리자에게 문의하세요.")
	}

	return &ReissueResult{
		UUID:         match.UUID,
		Name:         match.Name,
		SurveyResult: match.SurveyResult,
		LunchYN:      match.LunchYN,
	}, nil
}
