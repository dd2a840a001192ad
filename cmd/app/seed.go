package main

import (
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	logger "rollcall-backend/pkg/logging"
)

// seedDefaults creates the initial admin account, the default settings
// and the screening question catalog. Safe to run more than once.
func seedDefaults(adminRepo repository.AdminRepository, questionRepo repository.QuestionRepository, settingRepo repository.SettingRepository) {
	seedAdmin(adminRepo)
	seedSettings(settingRepo)
	seedQuestions(questionRepo)
}

func seedAdmin(adminRepo repository.AdminRepository) {
	const email = "admin@rokapass.kr"

	if _, err := adminRepo.GetByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}

	password := os.Getenv("ROLLCALL_ADMIN_PASSWORD")
	if password == "" {
		password = "password"
		logger.Warn("seeding default admin with the fallback password, change it immediately")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash seed admin password: %v", err)
		return
	}

	admin := model.Admin{
		Name:     "관리자",
		Email:    email,
		Password: string(hash),
		Role:     "super_admin",
		IsActive: true,
	}
	if err := adminRepo.Create(&admin); err != nil {
		logger.Error("failed to seed admin account: %v", err)
	}
}

func seedSettings(settingRepo repository.SettingRepository) {
	defaults := []model.Setting{
		{Key: "default_purge_days", Value: "3", Type: "integer", Description: "기본 데이터 보존 기간(일)"},
		{Key: "auto_entry_on_qr", Value: "true", Type: "boolean", Description: "QR 발급 시 자동 입소 처리"},
		{Key: "allow_danger_reissue", Value: "false", Type: "boolean", Description: "DANGER 응답자 QR 재발급 허용"},
	}
	for i := range defaults {
		if _, err := settingRepo.GetByKey(defaults[i].Key); err == nil {
			continue
		}
		if err := settingRepo.Upsert(&defaults[i]); err != nil {
			logger.Error("failed to seed setting %s: %v", defaults[i].Key, err)
		}
	}
}

func seedQuestions(questionRepo repository.QuestionRepository) {
	existing, err := questionRepo.GetAllOrdered()
	if err != nil || len(existing) > 0 {
		return
	}

	yesNo := model.AnswerOptions{
		{Label: "예", Value: "yes", IsDanger: true},
		{Label: "아니오", Value: "no", IsDanger: false},
	}

	questions := []model.Question{
		{
			QuestionText: "최근 2주 이내에 37.5도 이상의 발열이 있었습니까?",
			QuestionType: "yes_no",
			Options:      yesNo,
			OrderNum:     1,
			IsActive:     true,
		},
		{
			QuestionText: "최근 2주 이내에 기침, 인후통, 호흡곤란 등의 호흡기 증상이 있었습니까?",
			QuestionType: "yes_no",
			Options:      yesNo,
			OrderNum:     2,
			IsActive:     true,
		},
		{
			QuestionText: "현재 자가격리 또는 격리 해제 대상자입니까?",
			QuestionType: "yes_no",
			Options:      yesNo,
			OrderNum:     3,
			IsActive:     true,
		},
		{
			QuestionText: "최근 2주 이내에 확진자와 접촉한 적이 있습니까?",
			QuestionType: "yes_no",
			Options:      yesNo,
			OrderNum:     4,
			IsActive:     true,
		},
		{
			QuestionText: "현재 본인의 건강 상태는 어떻습니까?",
			Description:  "훈련 참여에 영향을 줄 수 있는 증상이 있다면 \"주의 필요\"를 선택해주세요.",
			QuestionType: "multiple_choice",
			Options: model.AnswerOptions{
				{Label: "양호", Value: "good", IsDanger: false},
				{Label: "주의 필요", Value: "caution", IsDanger: false},
				{Label: "훈련 참여 어려움", Value: "unable", IsDanger: true},
			},
			OrderNum: 5,
			IsActive: true,
		},
	}

	for i := range questions {
		if err := questionRepo.Create(&questions[i]); err != nil {
			logger.Error("failed to seed question %d: %v", questions[i].OrderNum, err)
		}
	}
}
