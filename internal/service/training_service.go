package service

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
)

// CreateTrainingInput is the admin create/update payload. Dates arrive
// as YYYY-MM-DD strings.
type CreateTrainingInput struct {
	Name          string `json:"name" binding:"required,max=200"`
	StartDate     string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate       string `json:"end_date" binding:"required,datetime=2006-01-02"`
	ExitMode      string `json:"exit_mode" binding:"omitempty,oneof=auto confirm"`
	PurgeDays     int    `json:"purge_days" binding:"omitempty,min=1,max=30"`
	LunchImageMon string `json:"lunch_image_mon" binding:"omitempty,max=500"`
	LunchImageTue string `json:"lunch_image_tue" binding:"omitempty,max=500"`
	LunchImageWed string `json:"lunch_image_wed" binding:"omitempty,max=500"`
	LunchImageThu string `json:"lunch_image_thu" binding:"omitempty,max=500"`
	LunchImageFri string `json:"lunch_image_fri" binding:"omitempty,max=500"`
}

func (in *CreateTrainingInput) dateRange() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("시작일 형식이 올바르지 않습니다.")
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("종료일 형식이 올바르지 않습니다.")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperr.Validation("종료일은 시작일 이후여야 합니다.")
	}
	return start, end, nil
}

type TrainingService interface {
	Create(in CreateTrainingInput, adminID *uint) (*model.Training, error)
	Update(id uint, in CreateTrainingInput, adminID *uint) (*model.Training, error)
	Delete(id uint, adminID *uint) error
	GetAll(status string) ([]model.Training, error)
	GetOpen() ([]model.Training, error)
	GetByID(id uint) (*model.Training, error)
	// GetByAccessCode resolves a kiosk entry code and gates on status:
	// scheduled trainings are not yet open, completed/purged are over.
	GetByAccessCode(code string) (*model.Training, error)
	Activate(id uint, adminID *uint) (*model.Training, error)
	Pause(id uint, adminID *uint) (*model.Training, error)
	Complete(id uint, adminID *uint) (*model.Training, error)
	Stats(id uint) (map[string]int64, error)
}

type trainingService struct {
	trainingRepo repository.TrainingRepository
	responseRepo repository.ResponseRepository
	settings     SettingService
}

func NewTrainingService(trainingRepo repository.TrainingRepository, responseRepo repository.ResponseRepository, settings SettingService) TrainingService {
	return &trainingService{
		trainingRepo: trainingRepo,
		responseRepo: responseRepo,
		settings:     settings,
	}
}

const accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateAccessCode draws a 6-character code and retries on the rare
// collision with an existing training.
func (s *trainingService) generateAccessCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		var b strings.Builder
		for i := 0; i < 6; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(accessCodeAlphabet))))
			if err != nil {
				return "", err
			}
			b.WriteByte(accessCodeAlphabet[n.Int64()])
		}
		code := b.String()
		exists, err := s.trainingRepo.AccessCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique access code")
}

func (s *trainingService) Create(in CreateTrainingInput, adminID *uint) (*model.Training, error) {
	start, end, err := in.dateRange()
	if err != nil {
		return nil, err
	}

	code, err := s.generateAccessCode()
	if err != nil {
		return nil, err
	}

	purgeDays := in.PurgeDays
	if purgeDays == 0 {
		purgeDays = s.settings.GetInt(SettingDefaultPurgeDays, 3)
	}
	exitMode := in.ExitMode
	if exitMode == "" {
		exitMode = model.ExitModeAuto
	}

	training := &model.Training{
		Name:          in.Name,
		AccessCode:    code,
		StartDate:     start,
		EndDate:       end,
		Status:        model.TrainingScheduled,
		ExitMode:      exitMode,
		PurgeDays:     purgeDays,
		LunchImageMon: in.LunchImageMon,
		LunchImageTue: in.LunchImageTue,
		LunchImageWed: in.LunchImageWed,
		LunchImageThu: in.LunchImageThu,
		LunchImageFri: in.LunchImageFri,
	}
	if err := s.trainingRepo.Create(training); err != nil {
		return nil, err
	}

	Audit(AuditEvent{AdminID: adminID, Action: "create", EntityType: "training", EntityID: &training.ID, NewValues: training})
	return training, nil
}

func (s *trainingService) Update(id uint, in CreateTrainingInput, adminID *uint) (*model.Training, error) {
	training, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	start, end, err := in.dateRange()
	if err != nil {
		return nil, err
	}

	old := *training
	training.Name = in.Name
	training.StartDate = start
	training.EndDate = end
	if in.ExitMode != "" {
		training.ExitMode = in.ExitMode
	}
	if in.PurgeDays != 0 {
		training.PurgeDays = in.PurgeDays
	}
	training.LunchImageMon = in.LunchImageMon
	training.LunchImageTue = in.LunchImageTue
	training.LunchImageWed = in.LunchImageWed
	training.LunchImageThu = in.LunchImageThu
	training.LunchImageFri = in.LunchImageFri

	if err := s.trainingRepo.Save(training); err != nil {
		return nil, err
	}

	Audit(AuditEvent{AdminID: adminID, Action: "update", EntityType: "training", EntityID: &training.ID, OldValues: old, NewValues: training})
	return training, nil
}

func (s *trainingService) Delete(id uint, adminID *uint) error {
	training, err := s.getOr404(id)
	if err != nil {
		return err
	}
	if err := s.trainingRepo.Delete(id); err != nil {
		return err
	}
	Audit(AuditEvent{AdminID: adminID, Action: "delete", EntityType: "training", EntityID: &id, OldValues: training})
	return nil
}

func (s *trainingService) GetAll(status string) ([]model.Training, error) {
	return s.trainingRepo.GetAll(status)
}

func (s *trainingService) GetOpen() ([]model.Training, error) {
	return s.trainingRepo.GetOpen()
}

func (s *trainingService) GetByID(id uint) (*model.Training, error) {
	return s.getOr404(id)
}

func (s *trainingService) GetByAccessCode(code string) (*model.Training, error) {
	training, err := s.trainingRepo.GetByAccessCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("INVALID_CODE", "유효하지 않은 훈련 코드입니다.")
		}
		return nil, err
	}

	switch training.Status {
	case model.TrainingScheduled:
		return nil, apperr.Forbidden("NOT_STARTED", "훈련이 아직 시작되지 않았습니다.")
	case model.TrainingCompleted, model.TrainingPurged:
		return nil, apperr.Forbidden("COMPLETED", "종료된 훈련입니다.")
	}
	return training, nil
}

func (s *trainingService) Activate(id uint, adminID *uint) (*model.Training, error) {
	return s.transition(id, adminID, "activate", func(t *model.Training) error {
		return t.Activate()
	})
}

func (s *trainingService) Pause(id uint, adminID *uint) (*model.Training, error) {
	return s.transition(id, adminID, "pause", func(t *model.Training) error {
		return t.Pause()
	})
}

func (s *trainingService) Complete(id uint, adminID *uint) (*model.Training, error) {
	return s.transition(id, adminID, "complete", func(t *model.Training) error {
		return t.Complete(time.Now())
	})
}

func (s *trainingService) Stats(id uint) (map[string]int64, error) {
	if _, err := s.getOr404(id); err != nil {
		return nil, err
	}
	return s.responseRepo.TrainingStats(id)
}

func (s *trainingService) transition(id uint, adminID *uint, action string, apply func(*model.Training) error) (*model.Training, error) {
	training, err := s.getOr404(id)
	if err != nil {
		return nil, err
	}
	if err := apply(training); err != nil {
		return nil, err
	}
	if err := s.trainingRepo.Save(training); err != nil {
		return nil, err
	}
	Audit(AuditEvent{AdminID: adminID, Action: action, EntityType: "training", EntityID: &training.ID})
	return training, nil
}

func (s *trainingService) getOr404(id uint) (*model.Training, error) {
	training, err := s.trainingRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("TRAINING_NOT_FOUND", "훈련을 찾을 수 없습니다.")
		}
		return nil, err
	}
	return training, nil
}
