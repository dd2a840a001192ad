package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/service"
)

type QuestionController struct {
	QuestionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// Active handles GET /api/questions/active
func (qc *QuestionController) Active(c *gin.Context) {
	questions, err := qc.QuestionService.GetActive()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, questions)
}

// AdminIndex handles GET /api/admin/questions
func (qc *QuestionController) AdminIndex(c *gin.Context) {
	questions, err := qc.QuestionService.GetAll()
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, questions)
}

// Create handles POST /api/admin/questions
func (qc *QuestionController) Create(c *gin.Context) {
	var in service.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	question, err := qc.QuestionService.Create(in, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	created(c, question)
}

// Update handles PUT /api/admin/questions/:id
func (qc *QuestionController) Update(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var in service.QuestionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	question, err := qc.QuestionService.Update(id, in, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, question)
}

// Delete handles DELETE /api/admin/questions/:id
func (qc *QuestionController) Delete(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := qc.QuestionService.Delete(id, adminIDPtr(c)); err != nil {
		fail(c, err)
		return
	}
	message(c, "삭제되었습니다.")
}

// Toggle handles PATCH /api/admin/questions/:id/toggle
func (qc *QuestionController) Toggle(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	question, err := qc.QuestionService.Toggle(id, adminIDPtr(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, question)
}

// Reorder handles POST /api/admin/questions/reorder
func (qc *QuestionController) Reorder(c *gin.Context) {
	var req struct {
		Orders []service.ReorderItem `json:"orders" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	if err := qc.QuestionService.Reorder(req.Orders, adminIDPtr(c)); err != nil {
		fail(c, err)
		return
	}
	message(c, "순서가 변경되었습니다.")
}
