package repository

import (
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

type TrainingRepository interface {
	Create(training *model.Training) error
	GetAll(status string) ([]model.Training, error)
	GetOpen() ([]model.Training, error)
	GetByID(id uint) (*model.Training, error)
	GetByAccessCode(code string) (*model.Training, error)
	AccessCodeExists(code string) (bool, error)
	Save(training *model.Training) error
	Delete(id uint) error
	CountActive() (int64, error)
}

type trainingRepository struct{}

func NewTrainingRepository() TrainingRepository {
	return &trainingRepository{}
}

func (r *trainingRepository) Create(training *model.Training) error {
	return db.GetDB().Create(training).Error
}

func (r *trainingRepository) GetAll(status string) ([]model.Training, error) {
	var trainings []model.Training
	q := db.GetDB().Order("start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&trainings).Error
	return trainings, err
}

// GetOpen returns scheduled and active trainings, soonest first.
func (r *trainingRepository) GetOpen() ([]model.Training, error) {
	var trainings []model.Training
	err := db.GetDB().
		Where("status IN ?", []string{model.TrainingScheduled, model.TrainingActive}).
		Order("start_date ASC").
		Find(&trainings).Error
	return trainings, err
}

func (r *trainingRepository) GetByID(id uint) (*model.Training, error) {
	var training model.Training
	err := db.GetDB().First(&training, id).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepository) GetByAccessCode(code string) (*model.Training, error) {
	var training model.Training
	err := db.GetDB().Where("access_code = ?", code).First(&training).Error
	if err != nil {
		return nil, err
	}
	return &training, nil
}

func (r *trainingRepository) AccessCodeExists(code string) (bool, error) {
	var count int64
	err := db.GetDB().Model(&model.Training{}).Where("access_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *trainingRepository) Save(training *model.Training) error {
	return db.GetDB().Save(training).Error
}

func (r *trainingRepository) Delete(id uint) error {
	return db.GetDB().Delete(&model.Training{}, id).Error
}

func (r *trainingRepository) CountActive() (int64, error) {
	var count int64
	err := db.GetDB().Model(&model.Training{}).
		Where("status = ?", model.TrainingActive).
		Count(&count).Error
	return count, err
}
