package service

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/model"
	"rollcall-backend/utilities"
)

type stubAdminRepo struct {
	admins map[uint]*model.Admin
}

func newStubAdminRepo(admins ...*model.Admin) *stubAdminRepo {
	r := &stubAdminRepo{admins: make(map[uint]*model.Admin)}
	for _, a := range admins {
		r.admins[a.ID] = a
	}
	return r
}

func (r *stubAdminRepo) GetAll() ([]model.Admin, error) {
	var out []model.Admin
	for _, a := range r.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAdminRepo) GetByID(id uint) (*model.Admin, error) {
	a, found := r.admins[id]
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAdminRepo) GetByEmail(email string) (*model.Admin, error) {
	for _, a := range r.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAdminRepo) Create(a *model.Admin) error {
	if a.ID == 0 {
		a.ID = uint(len(r.admins) + 1)
	}
	r.admins[a.ID] = a
	return nil
}

func (r *stubAdminRepo) Save(a *model.Admin) error {
	r.admins[a.ID] = a
	return nil
}

func (r *stubAdminRepo) Delete(id uint) error {
	delete(r.admins, id)
	return nil
}

func seededAdmin(t *testing.T, password string) *model.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &model.Admin{
		ID:       1,
		Name:     "관리자",
		Email:    "admin@rokapass.kr",
		Password: string(hash),
		Role:     "super_admin",
		IsActive: true,
	}
}

func TestLogin(t *testing.T) {
	admin := seededAdmin(t, "password")
	svc := NewAuthService(newStubAdminRepo(admin))

	result, err := svc.Login("admin@rokapass.kr", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", result)
	}
	if admin.LastLoginAt == nil {
		t.Fatalf("last_login_at not stamped")
	}

	claims, err := utilities.ValidateToken(result.AccessToken, false)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.AdminID != 1 || claims.Role != "super_admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := NewAuthService(newStubAdminRepo(seededAdmin(t, "password")))

	cases := []struct{ email, password string }{
		{"admin@rokapass.kr", "wrong"},
		{"nobody@rokapass.kr", "password"},
	}
	for _, c := range cases {
		_, err := svc.Login(c.email, c.password)
		e, isApp := apperr.As(err)
		if !isApp || e.Kind != apperr.KindUnauthorized {
			t.Fatalf("Login(%s): err = %v, want unauthorized", c.email, err)
		}
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	admin := seededAdmin(t, "password")
	admin.IsActive = false
	svc := NewAuthService(newStubAdminRepo(admin))

	_, err := svc.Login("admin@rokapass.kr", "password")
	e, isApp := apperr.As(err)
	if !isApp || e.Code != "ACCOUNT_DISABLED" {
		t.Fatalf("err = %v, want ACCOUNT_DISABLED", err)
	}
}

func TestChangePassword(t *testing.T) {
	admin := seededAdmin(t, "password")
	svc := NewAuthService(newStubAdminRepo(admin))

	if err := svc.ChangePassword(1, "wrong", "새비밀번호123"); err == nil {
		t.Fatalf("wrong current password accepted")
	}

	if err := svc.ChangePassword(1, "password", "새비밀번호123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login("admin@rokapass.kr", "password"); err == nil {
		t.Fatalf("old password still works")
	}
	if _, err := svc.Login("admin@rokapass.kr", "새비밀번호123"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
