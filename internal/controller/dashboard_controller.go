package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/repository"
	"rollcall-backend/internal/service"
)

type DashboardController struct {
	ResponseRepo    repository.ResponseRepository
	TrainingService service.TrainingService
	AuditRepo       repository.AuditRepository
}

func NewDashboardController(responseRepo repository.ResponseRepository, trainingService service.TrainingService, auditRepo repository.AuditRepository) *DashboardController {
	return &DashboardController{ResponseRepo: responseRepo, TrainingService: trainingService, AuditRepo: auditRepo}
}

// Stats handles GET /api/admin/dashboard/stats
func (dc *DashboardController) Stats(c *gin.Context) {
	stats, err := dc.ResponseRepo.TodayStats()
	if err != nil {
		fail(c, err)
		return
	}
	open, err := dc.TrainingService.GetOpen()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{
		"stats":          stats,
		"open_trainings": open,
	})
}

// RecentActivity handles GET /api/admin/dashboard/activity
func (dc *DashboardController) RecentActivity(c *gin.Context) {
	logs, err := dc.AuditRepo.Recent(50)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, logs)
}
