package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rollcall-backend/internal/config"
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

// ResponseFilter narrows the admin listing.
type ResponseFilter struct {
	TrainingID       uint
	SurveyResult     string
	AttendanceStatus string
	NameSearch       string
	LunchYN          *bool
	Page             int
	PerPage          int
	Limit            int
}

// DashboardStats are today's headline counters.
type DashboardStats struct {
	TodayResponses  int64 `json:"todayResponses"`
	TodayEntries    int64 `json:"todayEntries"`
	TodayExits      int64 `json:"todayExits"`
	ActiveTrainings int64 `json:"activeTrainings"`
}

type ResponseRepository interface {
	Create(resp *model.SurveyResponse) error
	GetByID(id uint) (*model.SurveyResponse, error)
	GetByUUIDAndTraining(uuid string, trainingID uint) (*model.SurveyResponse, error)
	FindByNameInOpenTrainings(name string) ([]model.SurveyResponse, error)
	Search(f ResponseFilter) ([]model.SurveyResponse, int64, error)
	Save(resp *model.SurveyResponse) error
	Delete(id uint) error
	// UpdateLocked loads the response by uuid (and training when
	// trainingID > 0) under a row lock, applies fn and persists the
	// mutation in the same transaction when fn reports one. Every
	// attendance transition, including the signature auto entry, goes
	// through this to keep check-then-act atomic across concurrent
	// scans.
	UpdateLocked(uuid string, trainingID uint, fn func(resp *model.SurveyResponse) (bool, error)) (*model.SurveyResponse, error)
	TodayStats() (*DashboardStats, error)
	TrainingStats(trainingID uint) (map[string]int64, error)
}

type responseRepository struct{}

func NewResponseRepository() ResponseRepository {
	return &responseRepository{}
}

func (r *responseRepository) Create(resp *model.SurveyResponse) error {
	return db.GetDB().Create(resp).Error
}

func (r *responseRepository) GetByID(id uint) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := db.GetDB().Preload("Training").First(&resp, id).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepository) GetByUUIDAndTraining(uuid string, trainingID uint) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := db.GetDB().
		Where("uuid = ? AND training_id = ?", uuid, trainingID).
		First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindByNameInOpenTrainings narrows reissue candidates by name; the
// caller matches DOB and phone after decryption.
func (r *responseRepository) FindByNameInOpenTrainings(name string) ([]model.SurveyResponse, error) {
	var responses []model.SurveyResponse
	err := db.GetDB().
		Joins("JOIN trainings ON trainings.id = survey_responses.training_id").
		Where("trainings.status IN ?", []string{model.TrainingScheduled, model.TrainingActive}).
		Where("survey_responses.name = ?", name).
		Find(&responses).Error
	return responses, err
}

func (r *responseRepository) Search(f ResponseFilter) ([]model.SurveyResponse, int64, error) {
	q := db.GetDB().Model(&model.SurveyResponse{}).Preload("Training")

	if f.TrainingID != 0 {
		q = q.Where("training_id = ?", f.TrainingID)
	}
	if f.SurveyResult != "" {
		q = q.Where("survey_result = ?", f.SurveyResult)
	}
	if f.AttendanceStatus != "" {
		q = q.Where("attendance_status = ?", f.AttendanceStatus)
	}
	if f.NameSearch != "" {
		q = q.Where("name LIKE ?", "%"+f.NameSearch+"%")
	}
	if f.LunchYN != nil {
		q = q.Where("lunch_yn = ?", *f.LunchYN)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	} else if f.PerPage > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PerPage).Limit(f.PerPage)
	}

	var responses []model.SurveyResponse
	err := q.Find(&responses).Error
	return responses, total, err
}

func (r *responseRepository) Save(resp *model.SurveyResponse) error {
	return db.GetDB().Save(resp).Error
}

func (r *responseRepository) Delete(id uint) error {
	return db.GetDB().Delete(&model.SurveyResponse{}, id).Error
}

func (r *responseRepository) UpdateLocked(uuid string, trainingID uint, fn func(resp *model.SurveyResponse) (bool, error)) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	err := db.GetDB().Transaction(func(tx *gorm.DB) error {
		q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("uuid = ?", uuid)
		if trainingID != 0 {
			q = q.Where("training_id = ?", trainingID)
		}
		if err := q.First(&resp).Error; err != nil {
			return err
		}
		mutated, err := fn(&resp)
		if err != nil {
			return err
		}
		if !mutated {
			return nil
		}
		return tx.Save(&resp).Error
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// serverLocation resolves the configured time zone, falling back to the
// process local zone.
func serverLocation() *time.Location {
	if cfg := config.GetConfig(); cfg != nil {
		if loc, err := time.LoadLocation(cfg.Context.TimeZone); err == nil {
			return loc
		}
	}
	return time.Local
}

// dayWindow returns the [midnight, next midnight) window containing now
// in the given location. Truncating on absolute UTC days would shift
// the boundary to 09:00 local for Asia/Seoul.
func dayWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return today, today.AddDate(0, 0, 1)
}

func (r *responseRepository) TodayStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	today, tomorrow := dayWindow(time.Now(), serverLocation())

	conn := db.GetDB()
	if err := conn.Model(&model.SurveyResponse{}).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&stats.TodayResponses).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&model.SurveyResponse{}).
		Where("entered_at >= ? AND entered_at < ?", today, tomorrow).
		Count(&stats.TodayEntries).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&model.SurveyResponse{}).
		Where("exited_at >= ? AND exited_at < ?", today, tomorrow).
		Count(&stats.TodayExits).Error; err != nil {
		return nil, err
	}
	if err := conn.Model(&model.Training{}).
		Where("status = ?", model.TrainingActive).
		Count(&stats.ActiveTrainings).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *responseRepository) TrainingStats(trainingID uint) (map[string]int64, error) {
	stats := make(map[string]int64)
	base := func() *gorm.DB {
		return db.GetDB().Model(&model.SurveyResponse{}).Where("training_id = ?", trainingID)
	}

	counts := []struct {
		key   string
		query *gorm.DB
	}{
		{"total", base()},
		{"entered", base().Where("attendance_status = ?", model.AttendanceEntered)},
		{"exited", base().Where("attendance_status = ?", model.AttendanceExited)},
		{"normal", base().Where("survey_result = ?", model.ResultNormal)},
		{"caution", base().Where("survey_result = ?", model.ResultCaution)},
		{"danger", base().Where("survey_result = ?", model.ResultDanger)},
		{"lunch", base().Where("lunch_yn = ?", true)},
	}
	for _, c := range counts {
		var n int64
		if err := c.query.Count(&n).Error; err != nil {
			return nil, err
		}
		stats[c.key] = n
	}
	return stats, nil
}
