package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/service"
)

type KioskController struct {
	AttendanceService service.AttendanceService
}

func NewKioskController(attendanceService service.AttendanceService) *KioskController {
	return &KioskController{AttendanceService: attendanceService}
}

// Scan handles POST /api/kiosk/scan
func (kc *KioskController) Scan(c *gin.Context) {
	var req struct {
		TrainingID uint   `json:"training_id" binding:"required"`
		UUID       string `json:"uuid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	outcome, err := kc.AttendanceService.Scan(req.TrainingID, req.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, outcome)
}

// ConfirmExit handles POST /api/kiosk/confirm-exit
func (kc *KioskController) ConfirmExit(c *gin.Context) {
	var req struct {
		UUID string `json:"uuid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	outcome, err := kc.AttendanceService.ConfirmExit(req.UUID, nil)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, outcome)
}
