package repository

import (
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

type AdminRepository interface {
	GetAll() ([]model.Admin, error)
	GetByID(id uint) (*model.Admin, error)
	GetByEmail(email string) (*model.Admin, error)
	Create(admin *model.Admin) error
	Save(admin *model.Admin) error
	Delete(id uint) error
}

type adminRepository struct{}

func NewAdminRepository() AdminRepository {
	return &adminRepository{}
}

func (r *adminRepository) GetAll() ([]model.Admin, error) {
	var admins []model.Admin
	err := db.GetDB().Order("id ASC").Find(&admins).Error
	return admins, err
}

func (r *adminRepository) GetByID(id uint) (*model.Admin, error) {
	var admin model.Admin
	err := db.GetDB().First(&admin, id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	err := db.GetDB().Where("email = ?", email).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(admin *model.Admin) error {
	return db.GetDB().Create(admin).Error
}

func (r *adminRepository) Save(admin *model.Admin) error {
	return db.GetDB().Save(admin).Error
}

func (r *adminRepository) Delete(id uint) error {
	return db.GetDB().Delete(&model.Admin{}, id).Error
}
