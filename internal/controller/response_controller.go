package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/config"
	"rollcall-backend/internal/repository"
	"rollcall-backend/internal/service"
)

type ResponseController struct {
	ResponseService service.ResponseService
	ExportService   service.ExportService
}

func NewResponseController(responseService service.ResponseService, exportService service.ExportService) *ResponseController {
	return &ResponseController{ResponseService: responseService, ExportService: exportService}
}

func responseFilter(c *gin.Context) repository.ResponseFilter {
	cfg := config.GetConfig()

	f := repository.ResponseFilter{
		SurveyResult:     c.Query("survey_result"),
		AttendanceStatus: c.Query("attendance_status"),
		NameSearch:       c.Query("search"),
	}
	if id, err := strconv.ParseUint(c.Query("training_id"), 10, 32); err == nil {
		f.TrainingID = uint(id)
	}
	if raw := c.Query("lunch_yn"); raw != "" {
		lunch := raw == "1" || raw == "true" || raw == "Y"
		f.LunchYN = &lunch
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if f.Page < 1 {
		f.Page = 1
	}
	f.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(cfg.Pagination.PageSize)))
	if f.PerPage < 1 || f.PerPage > 200 {
		f.PerPage = cfg.Pagination.PageSize
	}
	return f
}

// Index handles GET /api/admin/responses
func (rc *ResponseController) Index(c *gin.Context) {
	f := responseFilter(c)
	responses, total, err := rc.ResponseService.List(f)
	if err != nil {
		fail(c, err)
		return
	}
	lastPage := int((total + int64(f.PerPage) - 1) / int64(f.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	ok(c, gin.H{
		"items": responses,
		"meta": gin.H{
			"total":        total,
			"current_page": f.Page,
			"per_page":     f.PerPage,
			"last_page":    lastPage,
		},
	})
}

// Show handles GET /api/admin/responses/:id
func (rc *ResponseController) Show(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	view, err := rc.ResponseService.Show(id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, view)
}

// Update handles PUT /api/admin/responses/:id
func (rc *ResponseController) Update(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var in service.UpdateResponseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	resp, err := rc.ResponseService.Update(id, in, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// Delete handles DELETE /api/admin/responses/:id
func (rc *ResponseController) Delete(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := rc.ResponseService.Delete(id, adminIDPtr(c)); err != nil {
		fail(c, err)
		return
	}
	message(c, "삭제되었습니다.")
}

// UpdateResult handles PUT /api/admin/responses/:id/result
func (rc *ResponseController) UpdateResult(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req struct {
		SurveyResult string `json:"survey_result" binding:"required,oneof=NORMAL CAUTION DANGER"`
		Reason       string `json:"reason" binding:"omitempty,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	resp, err := rc.ResponseService.OverrideResult(id, req.SurveyResult, req.Reason, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, resp)
}

// UpdateAnswers handles PUT /api/admin/responses/:id/answers
func (rc *ResponseController) UpdateAnswers(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req struct {
		Answers map[string]string `json:"answers" binding:"required"`
		Reason  string            `json:"reason" binding:"omitempty,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	result, err := rc.ResponseService.UpdateAnswers(id, req.Answers, req.Reason, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

// ExportCSV handles GET /api/admin/responses/export
func (rc *ResponseController) ExportCSV(c *gin.Context) {
	data, filename, err := rc.ExportService.ExportCSV(responseFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportPDF handles GET /api/admin/responses/export/pdf
func (rc *ResponseController) ExportPDF(c *gin.Context) {
	data, filename, err := rc.ExportService.ExportPDF(responseFilter(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
