package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

var validate = validator.New()

// QuestionInput is the admin create/update payload. Options are
// validated at write time so reads never have to re-check shape.
type QuestionInput struct {
	QuestionText string              `json:"question_text" binding:"required" validate:"required"`
	Description  string              `json:"description"`
	QuestionType string              `json:"question_type" validate:"omitempty,oneof=yes_no multiple_choice"`
	Options      model.AnswerOptions `json:"options" binding:"required" validate:"required,min=2,dive"`
	OrderNum     int                 `json:"order_num" validate:"omitempty,min=1"`
	IsActive     *bool               `json:"is_active"`
}

// ReorderItem assigns a new order number to a question.
type ReorderItem struct {
	ID       uint `json:"id" binding:"required"`
	OrderNum int  `json:"order_num" binding:"required,min=1"`
}

type QuestionService interface {
	GetAll() ([]model.Question, error)
	GetActive() ([]model.Question, error)
	Create(in QuestionInput, adminID *uint) (*model.Question, error)
	Update(id uint, in QuestionInput, adminID *uint) (*model.Question, error)
	Delete(id uint, adminID *uint) error
	Toggle(id uint, adminID *uint) (*model.Question, error)
	Reorder(items []ReorderItem, adminID *uint) error
}

type questionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo}
}

func validateOptions(options model.AnswerOptions) error {
	if len(options) < 2 {
		return apperr.Validation("답변 항목은 2개 이상이어야 합니다.")
	}
	for _, opt := range options {
		if opt.Label == "" || opt.Value == "" {
			return apperr.Validation("답변 항목에는 label과 value가 필요합니다.")
		}
	}
	return nil
}

func (s *questionService) GetAll() ([]model.Question, error) {
	return s.questionRepo.GetAllOrdered()
}

func (s *questionService) GetActive() ([]model.Question, error) {
	return s.questionRepo.GetActiveOrdered()
}

func (s *questionService) Create(in QuestionInput, adminID *uint) (*model.Question, error) {
	if err := validate.Struct(in); err != nil {
		return nil, apperr.Validation("입력값이 올바르지 않습니다.")
	}
	if err := validateOptions(in.Options); err != nil {
		return nil, err
	}

	questionType := in.QuestionType
	if questionType == "" {
		questionType = model.QuestionYesNo
	}
	orderNum := in.OrderNum
	if orderNum == 0 {
		max, err := s.questionRepo.MaxOrderNum()
		if err != nil {
			return nil, err
		}
		orderNum = max + 1
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	question := &model.Question{
		QuestionText: in.QuestionText,
		Description:  in.Description,
		QuestionType: questionType,
		Options:      in.Options,
		OrderNum:     orderNum,
		IsActive:     isActive,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, err
	}

	Audit(AuditEvent{AdminID: adminID, Action: "create", EntityType: "question", EntityID: &question.ID, NewValues: question})
	return question, nil
}

func (s *questionService) Update(id uint, in QuestionInput, adminID *uint) (*model.Question, error) {
	question, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if err := validateOptions(in.Options); err != nil {
		return nil, err
	}

	old := *question
	question.QuestionText = in.QuestionText
	question.Description = in.Description
	if in.QuestionType != "" {
		question.QuestionType = in.QuestionType
	}
	question.Options = in.Options
	if in.OrderNum != 0 {
		question.OrderNum = in.OrderNum
	}
	if in.IsActive != nil {
		question.IsActive = *in.IsActive
	}

	if err := s.questionRepo.Save(question); err != nil {
		return nil, err
	}

	Audit(AuditEvent{AdminID: adminID, Action: "update", EntityType: "question", EntityID: &question.ID, OldValues: old, NewValues: question})
	return question, nil
}

// Delete removes a question row. Existing response snapshots keep their
// frozen question text, so history survives the removal.
func (s *questionService) Delete(id uint, adminID *uint) error {
	question, err := s.getOr404(id)
	if err != nil {
		return err
	}
	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}
	Audit(AuditEvent{AdminID: adminID, Action: "delete", EntityType: "question", EntityID: &id, OldValues: question})
	return nil
}

func (s *questionService) Toggle(id uint, adminID *uint) (*model.Question, error) {
	question, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	question.IsActive = !question.IsActive
	if err := s.questionRepo.Save(question); err != nil {
		return nil, err
	}
	Audit(AuditEvent{AdminID: adminID, Action: "toggle", EntityType: "question", EntityID: &question.ID})
	return question, nil
}

func (s *questionService) Reorder(items []ReorderItem, adminID *uint) error {
	for _, item := range items {
		if _, err := s.getOr404(item.ID); err != nil {
			return err
		}
		if err := s.questionRepo.UpdateOrderNum(item.ID, item.OrderNum); err != nil {
			return err
		}
	}
	Audit(AuditEvent{AdminID: adminID, Action: "reorder", EntityType: "question"})
	return nil
}

func (s *questionService) getOr404(id uint) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("QUESTION_NOT_FOUND", "문항을 찾을 수 없습니다.")
		}
		return nil, err
	}
	return question, nil
}
