package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/service"
)

type SettingController struct {
	SettingService service.SettingService
}

func NewSettingController(settingService service.SettingService) *SettingController {
	return &SettingController{SettingService: settingService}
}

// Index handles GET /api/admin/settings
func (sc *SettingController) Index(c *gin.Context) {
	settings, err := sc.SettingService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, settings)
}

// Update handles PUT /api/admin/settings/:key
func (sc *SettingController) Update(c *gin.Context) {
	var req struct {
		Value       interface{} `json:"value" binding:"required"`
		Type        string      `json:"type" binding:"omitempty,oneof=string boolean integer json"`
		Description string      `json:"description" binding:"omitempty,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	if req.Type == "" {
		req.Type = "string"
	}
	if err := sc.SettingService.Set(c.Param("key"), req.Value, req.Type, req.Description); err != nil {
		fail(c, err)
		return
	}
	message(c, "설정이 저장되었습니다.")
}
