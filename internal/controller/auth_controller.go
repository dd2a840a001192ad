package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/service"
	"rollcall-backend/utilities"
)

type AuthController struct {
	AuthService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "이메일과 비밀번호를 입력해 주세요.")
		return
	}
	result, err := ac.AuthService.Login(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// Refresh handles POST /api/auth/refresh
func (ac *AuthController) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	access, refresh, err := utilities.RefreshTokens(req.RefreshToken)
	if err != nil {
		fail(c, apperr.Unauthorized("다시 로그인해 주세요."))
		return
	}
	ok(c, gin.H{"token": access, "refresh_token": refresh})
}

// Logout handles POST /api/auth/logout. Tokens are stateless so there
// is nothing to revoke server-side; the client drops its copy.
func (ac *AuthController) Logout(c *gin.Context) {
	message(c, "로그아웃되었습니다.")
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	adminID, found := utilities.AdminID(c)
	if !found {
		fail(c, apperr.Unauthorized("인증이 필요합니다."))
		return
	}
	admin, err := ac.AuthService.Me(adminID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, admin)
}

// ChangePassword handles POST /api/admin/change-password
func (ac *AuthController) ChangePassword(c *gin.Context) {
	adminID, found := utilities.AdminID(c)
	if !found {
		fail(c, apperr.Unauthorized("인증이 필요합니다."))
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	if err := ac.AuthService.ChangePassword(adminID, req.CurrentPassword, req.NewPassword); err != nil {
		fail(c, err)
		return
	}
	message(c, "비밀번호가 변경되었습니다.")
}
