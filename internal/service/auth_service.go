package service

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/utilities"
)

// LoginResult carries the issued token pair and the admin profile.
type LoginResult struct {
	AccessToken  string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	Admin        *model.Admin `json:"admin"`
}

type AuthService interface {
	Login(email, password string) (*LoginResult, error)
	Me(adminID uint) (*model.Admin, error)
	ChangePassword(adminID uint, currentPassword, newPassword string) error
}

type authService struct {
	adminRepo repository.AdminRepository
}

func NewAuthService(adminRepo repository.AdminRepository) AuthService {
	return &authService{adminRepo: adminRepo}
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("이메일 또는 비밀번호가 올바르지 않습니다.")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorized("이메일 또는 비밀번호가 올바르지 않습니다.")
	}

	if !admin.IsActive {
		return nil, apperr.Forbidden("ACCOUNT_DISABLED", "비활성화된 계정입니다.")
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.Save(admin); err != nil {
		return nil, err
	}

	access, refresh, err := utilities.GenerateTokens(admin)
	if err != nil {
		return nil, err
	}

	Audit(AuditEvent{AdminID: &admin.ID, Action: "login", EntityType: "admin", EntityID: &admin.ID})

	return &LoginResult{AccessToken: access, RefreshToken: refresh, Admin: admin}, nil
}

func (s *authService) Me(adminID uint) (*model.Admin, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("ADMIN_NOT_FOUND", "관리자를 찾을 수 없습니다.")
		}
		return nil, err
	}
	return admin, nil
}

func (s *authService) ChangePassword(adminID uint, currentPassword, newPassword string) error {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("ADMIN_NOT_FOUND", "관리자를 찾을 수 없습니다.")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(currentPassword)) != nil {
		return apperr.Validation("현재 비밀번호가 올바르지 않습니다.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin.Password = string(hashed)
	if err := s.adminRepo.Save(admin); err != nil {
		return err
	}

	Audit(AuditEvent{AdminID: &admin.ID, Action: "password_change", EntityType: "admin", EntityID: &admin.ID})
	return nil
}
