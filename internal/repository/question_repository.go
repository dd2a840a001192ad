package repository

import (
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

type QuestionRepository interface {
	GetAllOrdered() ([]model.Question, error)
	GetActiveOrdered() ([]model.Question, error)
	GetByID(id uint) (*model.Question, error)
	Create(question *model.Question) error
	Save(question *model.Question) error
	Delete(id uint) error
	MaxOrderNum() (int, error)
	UpdateOrderNum(id uint, orderNum int) error
}

type questionRepository struct{}

func NewQuestionRepository() QuestionRepository {
	return &questionRepository{}
}

func (r *questionRepository) GetAllOrdered() ([]model.Question, error) {
	var questions []model.Question
	err := db.GetDB().Order("order_num ASC").Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetActiveOrdered() ([]model.Question, error) {
	var questions []model.Question
	err := db.GetDB().
		Where("is_active = ?", true).
		Order("order_num ASC").
		Find(&questions).Error
	return questions, err
}

func (r *questionRepository) GetByID(id uint) (*model.Question, error) {
	var question model.Question
	err := db.GetDB().First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Create(question *model.Question) error {
	return db.GetDB().Create(question).Error
}

func (r *questionRepository) Save(question *model.Question) error {
	return db.GetDB().Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return db.GetDB().Delete(&model.Question{}, id).Error
}

func (r *questionRepository) MaxOrderNum() (int, error) {
	var max int
	err := db.GetDB().Model(&model.Question{}).
		Select("COALESCE(MAX(order_num), 0)").
		Scan(&max).Error
	return max, err
}

func (r *questionRepository) UpdateOrderNum(id uint, orderNum int) error {
	return db.GetDB().Model(&model.Question{}).
		Where("id = ?", id).
		Update("order_num", orderNum).Error
}
