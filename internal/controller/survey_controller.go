package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/service"
)

type SurveyController struct {
	SurveyService service.SurveyService
}

func NewSurveyController(surveyService service.SurveyService) *SurveyController {
	return &SurveyController{SurveyService: surveyService}
}

// Submit handles POST /api/survey/submit
func (sc *SurveyController) Submit(c *gin.Context) {
	var in service.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	result, err := sc.SurveyService.Submit(in)
	if err != nil {
		fail(c, err)
		return
	}
	okMessage(c, result, "설문이 제출되었습니다.")
}

// Signature handles POST /api/survey/signature
func (sc *SurveyController) Signature(c *gin.Context) {
	var req struct {
		UUID      string `json:"uuid" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	uuid, err := sc.SurveyService.Signature(req.UUID, req.Signature)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"uuid": uuid})
}

// Reissue handles POST /api/survey/reissue
func (sc *SurveyController) Reissue(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		DOB   string `json:"dob" binding:"required,len=6"`
		Phone string `json:"phone" binding:"required,min=10,max=11"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	result, err := sc.SurveyService.Reissue(req.Name, req.DOB, req.Phone)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}
