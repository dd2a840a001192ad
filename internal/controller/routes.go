package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/config"
	"rollcall-backend/internal/repository"
	"rollcall-backend/internal/service"
	"rollcall-backend/pkg/middleware"
	"rollcall-backend/utilities"
)

// Services bundles everything the route tree needs.
type Services struct {
	Auth       service.AuthService
	Training   service.TrainingService
	Question   service.QuestionService
	Survey     service.SurveyService
	Attendance service.AttendanceService
	Response   service.ResponseService
	Export     service.ExportService
	Setting    service.SettingService
	Upload     service.UploadService

	ResponseRepo repository.ResponseRepository
	AuditRepo    repository.AuditRepository
}

// RegisterRoutes registers all route groups and their endpoints.
func RegisterRoutes(r *gin.Engine, s Services) {
	cfg := config.GetConfig()

	authCtrl := NewAuthController(s.Auth)
	trainingCtrl := NewTrainingController(s.Training)
	questionCtrl := NewQuestionController(s.Question)
	surveyCtrl := NewSurveyController(s.Survey)
	kioskCtrl := NewKioskController(s.Attendance)
	responseCtrl := NewResponseController(s.Response, s.Export)
	settingCtrl := NewSettingController(s.Setting)
	dashboardCtrl := NewDashboardController(s.ResponseRepo, s.Training, s.AuditRepo)
	exitCtrl := NewExitScannerController(s.Attendance)
	uploadCtrl := NewUploadController(s.Upload)

	// Public kiosk surface, rate limited per client IP.
	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		api.GET("/trainings/active", trainingCtrl.Active)
		api.GET("/trainings/code/:code", trainingCtrl.ShowByCode)
		api.GET("/trainings/:id", trainingCtrl.Show)
		api.GET("/questions/active", questionCtrl.Active)

		api.POST("/survey/submit", surveyCtrl.Submit)
		api.POST("/survey/signature", surveyCtrl.Signature)
		api.POST("/survey/reissue", surveyCtrl.Reissue)

		api.POST("/kiosk/scan", kioskCtrl.Scan)
		api.POST("/kiosk/confirm-exit", kioskCtrl.ConfirmExit)
	}

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authCtrl.Login)
		auth.POST("/refresh", authCtrl.Refresh)
		auth.POST("/logout", authCtrl.Logout)
		auth.GET("/me", utilities.AuthMiddleware(), authCtrl.Me)
	}

	admin := r.Group("/api/admin")
	admin.Use(utilities.AuthMiddleware())
	{
		admin.POST("/change-password", authCtrl.ChangePassword)

		admin.GET("/dashboard/stats", dashboardCtrl.Stats)
		admin.GET("/dashboard/activity", dashboardCtrl.RecentActivity)

		admin.GET("/trainings", trainingCtrl.AdminIndex)
		admin.POST("/trainings", trainingCtrl.Create)
		admin.GET("/trainings/:id", trainingCtrl.AdminShow)
		admin.PUT("/trainings/:id", trainingCtrl.Update)
		admin.DELETE("/trainings/:id", trainingCtrl.Delete)
		admin.POST("/trainings/:id/activate", trainingCtrl.Activate)
		admin.POST("/trainings/:id/pause", trainingCtrl.Pause)
		admin.POST("/trainings/:id/complete", trainingCtrl.Complete)
		admin.GET("/trainings/:id/stats", trainingCtrl.Stats)

		admin.GET("/questions", questionCtrl.AdminIndex)
		admin.POST("/questions", questionCtrl.Create)
		admin.POST("/questions/reorder", questionCtrl.Reorder)
		admin.PUT("/questions/:id", questionCtrl.Update)
		admin.DELETE("/questions/:id", questionCtrl.Delete)
		admin.PATCH("/questions/:id/toggle", questionCtrl.Toggle)

		admin.GET("/responses", responseCtrl.Index)
		admin.GET("/responses/export", responseCtrl.ExportCSV)
		admin.GET("/responses/export/pdf", responseCtrl.ExportPDF)
		admin.GET("/responses/:id", responseCtrl.Show)
		admin.PUT("/responses/:id", responseCtrl.Update)
		admin.DELETE("/responses/:id", responseCtrl.Delete)
		admin.PUT("/responses/:id/result", responseCtrl.UpdateResult)
		admin.PUT("/responses/:id/answers", responseCtrl.UpdateAnswers)

		admin.POST("/exit-scan", exitCtrl.Validate)
		admin.POST("/confirm-exit", exitCtrl.Confirm)

		admin.GET("/settings", settingCtrl.Index)
		admin.PUT("/settings/:key", settingCtrl.Update)

		admin.POST("/upload/lunch-image", uploadCtrl.UploadLunchImage)
		admin.DELETE("/upload/lunch-image", uploadCtrl.DeleteLunchImage)
	}

	registerStaticRoutes(r)
}

func registerStaticRoutes(r *gin.Engine) {
	r.Static("/uploads", config.GetConfig().Storage.UploadDir)
}
