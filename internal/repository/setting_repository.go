package repository

import (
	"gorm.io/gorm/clause"

	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

type SettingRepository interface {
	GetByKey(key string) (*model.Setting, error)
	GetAll() ([]model.Setting, error)
	Upsert(setting *model.Setting) error
}

type settingRepository struct{}

func NewSettingRepository() SettingRepository {
	return &settingRepository{}
}

func (r *settingRepository) GetByKey(key string) (*model.Setting, error) {
	var setting model.Setting
	err := db.GetDB().Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) GetAll() ([]model.Setting, error) {
	var settings []model.Setting
	err := db.GetDB().Find(&settings).Error
	return settings, err
}

func (r *settingRepository) Upsert(setting *model.Setting) error {
	return db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description", "updated_at"}),
	}).Create(setting).Error
}
