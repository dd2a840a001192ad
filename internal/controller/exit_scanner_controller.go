package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/service"
)

// ExitScannerController backs the staffed exit desk. Unlike the kiosk
// flow it validates before mutating, and exits are stamped with the
// operating admin.
type ExitScannerController struct {
	AttendanceService service.AttendanceService
}

func NewExitScannerController(attendanceService service.AttendanceService) *ExitScannerController {
	return &ExitScannerController{AttendanceService: attendanceService}
}

// Validate handles POST /api/admin/exit-scan
func (ec *ExitScannerController) Validate(c *gin.Context) {
	var req struct {
		TrainingID uint   `json:"training_id" binding:"required"`
		UUID       string `json:"uuid" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	info, err := ec.AttendanceService.ExitScan(req.TrainingID, req.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, info)
}

// Confirm handles POST /api/admin/confirm-exit
func (ec *ExitScannerController) Confirm(c *gin.Context) {
	var req struct {
		UUID string `json:"uuid" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	outcome, err := ec.AttendanceService.ConfirmExit(req.UUID, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, outcome)
}
