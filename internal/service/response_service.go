package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/utilities"
)

// deletedQuestionText is the fallback for legacy snapshots whose
// question row no longer exists.
const deletedQuestionText = "(삭제된 질문)"

// ResponseView is the admin-facing detail, with encrypted fields
// decrypted (nil when the ciphertext cannot be opened).
type ResponseView struct {
	ID               uint                `json:"id"`
	UUID             string              `json:"uuid"`
	Name             string              `json:"name"`
	DOB              *string             `json:"dob"`
	Phone            *string             `json:"phone"`
	BankName         string              `json:"bank_name"`
	AccountNum       *string             `json:"account_num"`
	LunchYN          bool                `json:"lunch_yn"`
	SurveyResult     string              `json:"survey_result"`
	AttendanceStatus string              `json:"attendance_status"`
	Training         *model.Training     `json:"training,omitempty"`
	Answers          model.AnswerEntries `json:"answers"`
	ManualOverride   bool                `json:"manual_override"`
	OverrideReason   string              `json:"override_reason"`
	EnteredAt        *time.Time          `json:"entered_at"`
	ExitedAt         *time.Time          `json:"exited_at"`
	CreatedAt        time.Time           `json:"created_at"`
}

// UpdateResponseInput patches personal fields only.
type UpdateResponseInput struct {
	Name       *string `json:"name" binding:"omitempty,max=100"`
	DOB        *string `json:"dob" binding:"omitempty,len=6"`
	Phone      *string `json:"phone" binding:"omitempty,min=10,max=11"`
	BankName   *string `json:"bank_name" binding:"omitempty,max=50"`
	AccountNum *string `json:"account_num"`
	LunchYN    *bool   `json:"lunch_yn"`
}

// ResurveyResult carries the recomputed classification and snapshot.
type ResurveyResult struct {
	SurveyResult string              `json:"survey_result"`
	Answers      model.AnswerEntries `json:"answers"`
}

type ResponseService interface {
	List(f repository.ResponseFilter) ([]model.SurveyResponse, int64, error)
	Show(id uint) (*ResponseView, error)
	Update(id uint, in UpdateResponseInput, adminID *uint) (*model.SurveyResponse, error)
	Delete(id uint, adminID *uint) error
	// OverrideResult replaces only the classification; the snapshot
	// stays untouched.
	OverrideResult(id uint, newResult, reason string, adminID *uint) (*model.SurveyResponse, error)
	// UpdateAnswers re-runs the survey against the current active
	// catalog and replaces result and snapshot wholesale. Attendance
	// state is never touched.
	UpdateAnswers(id uint, answers map[string]string, reason string, adminID *uint) (*ResurveyResult, error)
}

type responseService struct {
	responseRepo repository.ResponseRepository
	questionRepo repository.QuestionRepository
	cipher       *utilities.FieldCipher
}

func NewResponseService(responseRepo repository.ResponseRepository, questionRepo repository.QuestionRepository, cipher *utilities.FieldCipher) ResponseService {
	return &responseService{
		responseRepo: responseRepo,
		questionRepo: questionRepo,
		cipher:       cipher,
	}
}

func (s *responseService) List(f repository.ResponseFilter) ([]model.SurveyResponse, int64, error) {
	return s.responseRepo.Search(f)
}

func (s *responseService) Show(id uint) (*ResponseView, error) {
	resp, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	answers, err := s.formattedAnswers(resp)
	if err != nil {
		return nil, err
	}

	return &ResponseView{
		ID:               resp.ID,
		UUID:             resp.UUID,
		Name:             resp.Name,
		DOB:              s.cipher.DecryptOrNil(resp.DOB),
		Phone:            s.cipher.DecryptOrNil(resp.Phone),
		BankName:         resp.BankName,
		AccountNum:       s.cipher.DecryptOrNil(resp.AccountNum),
		LunchYN:          resp.LunchYN,
		SurveyResult:     resp.SurveyResult,
		AttendanceStatus: resp.AttendanceStatus,
		Training:         resp.Training,
		Answers:          answers,
		ManualOverride:   resp.ManualOverride,
		OverrideReason:   resp.OverrideReason,
		EnteredAt:        resp.EnteredAt,
		ExitedAt:         resp.ExitedAt,
		CreatedAt:        resp.CreatedAt,
	}, nil
}

// formattedAnswers upgrades legacy records that stored a bare
// question_id→value map before snapshots carried frozen question text.
// Snapshot entries missing their text are matched against the live
// catalog; deleted questions fall back to a marker.
func (s *responseService) formattedAnswers(resp *model.SurveyResponse) (model.AnswerEntries, error) {
	entries := resp.AnswersJSON
	needsUpgrade := false
	for _, e := range entries {
		if e.QuestionText == "" {
			needsUpgrade = true
			break
		}
	}
	if !needsUpgrade {
		return entries, nil
	}

	questions, err := s.questionRepo.GetAllOrdered()
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	upgraded := make(model.AnswerEntries, 0, len(entries))
	for _, e := range entries {
		if e.QuestionText != "" {
			upgraded = append(upgraded, e)
			continue
		}
		q, ok := byID[e.QuestionID]
		if !ok {
			e.QuestionText = deletedQuestionText
			if e.AnswerLabel == "" {
				e.AnswerLabel = e.AnswerValue
			}
			upgraded = append(upgraded, e)
			continue
		}
		e.QuestionText = q.QuestionText
		if opt, found := q.OptionForValue(e.AnswerValue); found {
			e.AnswerLabel = opt.Label
			e.IsDanger = opt.IsDanger
		} else if e.AnswerLabel == "" {
			e.AnswerLabel = e.AnswerValue
		}
		upgraded = append(upgraded, e)
	}
	return upgraded, nil
}

func (s *responseService) Update(id uint, in UpdateResponseInput, adminID *uint) (*model.SurveyResponse, error) {
	resp, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	old := map[string]interface{}{
		"name": resp.Name, "bank_name": resp.BankName, "lunch_yn": resp.LunchYN,
	}

	identityChanged := false
	if in.Name != nil {
		resp.Name = *in.Name
		identityChanged = true
	}
	if in.DOB != nil {
		enc, err := s.cipher.Encrypt(*in.DOB)
		if err != nil {
			return nil, err
		}
		resp.DOB = enc
		identityChanged = true
	}
	if in.Phone != nil {
		enc, err := s.cipher.Encrypt(*in.Phone)
		if err != nil {
			return nil, err
		}
		resp.Phone = enc
		identityChanged = true
	}
	if in.BankName != nil {
		resp.BankName = *in.BankName
	}
	if in.AccountNum != nil {
		enc, err := s.cipher.Encrypt(*in.AccountNum)
		if err != nil {
			return nil, err
		}
		resp.AccountNum = enc
	}
	if in.LunchYN != nil {
		resp.LunchYN = *in.LunchYN
	}

	if identityChanged {
		dob := s.cipher.DecryptOrNil(resp.DOB)
		phone := s.cipher.DecryptOrNil(resp.Phone)
		if dob != nil && phone != nil {
			resp.IdentityDigest = utilities.IdentityDigest(resp.Name, *dob, *phone)
		}
	}

	if err := s.responseRepo.Save(resp); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("ALREADY_REGISTERED", "이미 등록된 정보입니다.")
		}
		return nil, err
	}

	Audit(AuditEvent{
		AdminID: adminID, Action: "update", EntityType: "survey_response", EntityID: &resp.ID,
		OldValues: old,
		NewValues: map[string]interface{}{"name": resp.Name, "bank_name": resp.BankName, "lunch_yn": resp.LunchYN},
	})
	return resp, nil
}

func (s *responseService) Delete(id uint, adminID *uint) error {
	resp, err := s.getOr404(id)
	if err != nil {
		return err
	}
	if err := s.responseRepo.Delete(id); err != nil {
		return err
	}
	Audit(AuditEvent{AdminID: adminID, Action: "delete", EntityType: "survey_response", EntityID: &id, OldValues: map[string]interface{}{"name": resp.Name, "uuid": resp.UUID}})
	return nil
}

func (s *responseService) OverrideResult(id uint, newResult, reason string, adminID *uint) (*model.SurveyResponse, error) {
	resp, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	old := map[string]interface{}{
		"survey_result":   resp.SurveyResult,
		"manual_override": resp.ManualOverride,
		"override_reason": resp.OverrideReason,
	}

	resp.SurveyResult = newResult
	resp.ManualOverride = true
	resp.OverrideReason = reason
	if err := s.responseRepo.Save(resp); err != nil {
		return nil, err
	}

	Audit(AuditEvent{
		AdminID: adminID, Action: "override_result", EntityType: "survey_response", EntityID: &resp.ID,
		OldValues: old,
		NewValues: map[string]interface{}{"survey_result": newResult, "manual_override": true, "override_reason": reason},
	})
	return resp, nil
}

func (s *responseService) UpdateAnswers(id uint, answers map[string]string, reason string, adminID *uint) (*ResurveyResult, error) {
	resp, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}

	questions, err := s.questionRepo.GetActiveOrdered()
	if err != nil {
		return nil, err
	}
	newResult, snapshot := ComputeResult(parseAnswerKeys(answers), questions)

	old := map[string]interface{}{
		"survey_result":   resp.SurveyResult,
		"answers_json":    resp.AnswersJSON,
		"manual_override": resp.ManualOverride,
	}

	resp.SurveyResult = newResult
	resp.AnswersJSON = snapshot
	resp.ManualOverride = true
	resp.OverrideReason = reason
	if err := s.responseRepo.Save(resp); err != nil {
		return nil, err
	}

	Audit(AuditEvent{
		AdminID: adminID, Action: "resurvey", EntityType: "survey_response", EntityID: &resp.ID,
		OldValues: old,
		NewValues: map[string]interface{}{"survey_result": newResult, "answers_json": snapshot, "manual_override": true, "override_reason": reason},
	})
	return &ResurveyResult{SurveyResult: newResult, Answers: snapshot}, nil
}

func (s *responseService) getOr404(id uint) (*model.SurveyResponse, error) {
	resp, err := s.responseRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("RESPONSE_NOT_FOUND", "응답을 찾을 수 없습니다.")
		}
		return nil, err
	}
	return resp, nil
}
