package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/model"
	"rollcall-backend/internal/service"
	"rollcall-backend/utilities"
)

type TrainingController struct {
	TrainingService service.TrainingService
}

func NewTrainingController(trainingService service.TrainingService) *TrainingController {
	return &TrainingController{TrainingService: trainingService}
}

func lunchImageURL(path string) string {
	if path == "" {
		return ""
	}
	return "/uploads/" + path
}

// trainingView shapes a training for the kiosk, with date-only strings
// and resolvable lunch image URLs.
func trainingView(t *model.Training, withCode bool) gin.H {
	view := gin.H{
		"id":                  t.ID,
		"name":                t.Name,
		"start_date":          t.StartDate.Format("2006-01-02"),
		"end_date":            t.EndDate.Format("2006-01-02"),
		"status":              t.Status,
		"exit_mode":           t.ExitMode,
		"lunch_image_mon":     t.LunchImageMon,
		"lunch_image_tue":     t.LunchImageTue,
		"lunch_image_wed":     t.LunchImageWed,
		"lunch_image_thu":     t.LunchImageThu,
		"lunch_image_fri":     t.LunchImageFri,
		"lunch_image_mon_url": lunchImageURL(t.LunchImageMon),
		"lunch_image_tue_url": lunchImageURL(t.LunchImageTue),
		"lunch_image_wed_url": lunchImageURL(t.LunchImageWed),
		"lunch_image_thu_url": lunchImageURL(t.LunchImageThu),
		"lunch_image_fri_url": lunchImageURL(t.LunchImageFri),
	}
	if withCode {
		view["access_code"] = t.AccessCode
	}
	return view
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		badRequest(c, "잘못된 ID 형식입니다.")
		return 0, false
	}
	return uint(id), true
}

// Active handles GET /api/trainings/active
func (tc *TrainingController) Active(c *gin.Context) {
	trainings, err := tc.TrainingService.GetOpen()
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]gin.H, 0, len(trainings))
	for i := range trainings {
		views = append(views, trainingView(&trainings[i], false))
	}
	ok(c, views)
}

// ShowByCode handles GET /api/trainings/code/:code
func (tc *TrainingController) ShowByCode(c *gin.Context) {
	training, err := tc.TrainingService.GetByAccessCode(c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, trainingView(training, true))
}

// Show handles GET /api/trainings/:id
func (tc *TrainingController) Show(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	training, err := tc.TrainingService.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, trainingView(training, false))
}

// AdminIndex handles GET /api/admin/trainings
func (tc *TrainingController) AdminIndex(c *gin.Context) {
	trainings, err := tc.TrainingService.GetAll(c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, trainings)
}

// AdminShow handles GET /api/admin/trainings/:id
func (tc *TrainingController) AdminShow(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	training, err := tc.TrainingService.GetByID(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, training)
}

// Create handles POST /api/admin/trainings
func (tc *TrainingController) Create(c *gin.Context) {
	var in service.CreateTrainingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	training, err := tc.TrainingService.Create(in, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, training)
}

// Update handles PUT /api/admin/trainings/:id
func (tc *TrainingController) Update(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var in service.CreateTrainingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	training, err := tc.TrainingService.Update(id, in, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, training)
}

// Delete handles DELETE /api/admin/trainings/:id
func (tc *TrainingController) Delete(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := tc.TrainingService.Delete(id, adminIDPtr(c)); err != nil {
		fail(c, err)
		return
	}
	message(c, "삭제되었습니다.")
}

// Activate handles POST /api/admin/trainings/:id/activate
func (tc *TrainingController) Activate(c *gin.Context) {
	tc.transition(c, tc.TrainingService.Activate)
}

// Pause handles POST /api/admin/trainings/:id/pause
func (tc *TrainingController) Pause(c *gin.Context) {
	tc.transition(c, tc.TrainingService.Pause)
}

// Complete handles POST /api/admin/trainings/:id/complete
func (tc *TrainingController) Complete(c *gin.Context) {
	tc.transition(c, tc.TrainingService.Complete)
}

// Stats handles GET /api/admin/trainings/:id/stats
func (tc *TrainingController) Stats(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	stats, err := tc.TrainingService.Stats(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, stats)
}

func (tc *TrainingController) transition(c *gin.Context, apply func(uint, *uint) (*model.Training, error)) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	training, err := apply(id, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, training)
}

func adminIDPtr(c *gin.Context) *uint {
	if id, found := utilities.AdminID(c); found {
		return &id
	}
	return nil
}
