package repository

import (
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
)

type AuditRepository interface {
	Create(entry *model.AuditLog) error
	Recent(limit int) ([]model.AuditLog, error)
}

type auditRepository struct{}

func NewAuditRepository() AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Create(entry *model.AuditLog) error {
	return db.GetDB().Create(entry).Error
}

func (r *auditRepository) Recent(limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := db.GetDB().Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
