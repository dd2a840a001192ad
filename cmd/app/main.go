package main

import (
	"fmt"
	"log"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"rollcall-backend/internal/config"
	"rollcall-backend/internal/controller"
	"rollcall-backend/internal/db"
	"rollcall-backend/internal/model"
	"rollcall-backend/internal/repository"
	"rollcall-backend/internal/service"
	logger "rollcall-backend/pkg/logging"
	"rollcall-backend/pkg/middleware"
	"rollcall-backend/utilities"
)

func main() {
	printStartUpBanner()

	// .env is optional; production servers export the variables.
	_ = godotenv.Load()

	// Load XML configuration from file.
	cfg, err := config.LoadConfig("config.xml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.Storage.LogDir); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	utilities.LoadJWTSecrets(cfg.Security.AccessSecretEnv, cfg.Security.RefreshSecretEnv)

	cipher, err := utilities.NewFieldCipherFromEnv(cfg.Security.FieldKeyEnv)
	if err != nil {
		log.Fatalf("failed to load field encryption key: %v", err)
	}

	// Initialize DB using the loaded config.
	db.InitDBFromConfig(cfg)

	// Run migrations.
	if err := db.GetDB().AutoMigrate(
		&model.Training{},
		&model.Question{},
		&model.SurveyResponse{},
		&model.Admin{},
		&model.Setting{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Create repositories.
	trainingRepo := repository.NewTrainingRepository()
	questionRepo := repository.NewQuestionRepository()
	responseRepo := repository.NewResponseRepository()
	adminRepo := repository.NewAdminRepository()
	settingRepo := repository.NewSettingRepository()
	auditRepo := repository.NewAuditRepository()

	if cfg.DB.Initialize {
		seedDefaults(adminRepo, questionRepo, settingRepo)
	}

	// Create services.
	settingService := service.NewSettingService(settingRepo)
	authService := service.NewAuthService(adminRepo)
	trainingService := service.NewTrainingService(trainingRepo, responseRepo, settingService)
	questionService := service.NewQuestionService(questionRepo)
	surveyService := service.NewSurveyService(responseRepo, trainingRepo, questionRepo, settingService, cipher)
	attendanceService := service.NewAttendanceService(responseRepo, trainingRepo)
	responseService := service.NewResponseService(responseRepo, questionRepo, cipher)
	exportService := service.NewExportService(responseRepo, cipher)
	uploadService := service.NewUploadService(cfg.Storage.UploadDir, cfg.Storage.MaxImageWidth)

	service.InitAuditEventListeners(auditRepo)

	// Initialize Gin router.
	r := gin.Default()

	// CORS configuration.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	controller.RegisterRoutes(r, controller.Services{
		Auth:         authService,
		Training:     trainingService,
		Question:     questionService,
		Survey:       surveyService,
		Attendance:   attendanceService,
		Response:     responseService,
		Export:       exportService,
		Setting:      settingService,
		Upload:       uploadService,
		ResponseRepo: responseRepo,
		AuditRepo:    auditRepo,
	})

	// Start server on the host and port specified in the XML config.
	addr := fmt.Sprintf("%s:%d", cfg.Context.Host, cfg.Context.Port)
	logger.Info("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("ROLLCALL", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("ROLLCALL API (v%s)\n\n", "1.0.0")
}
