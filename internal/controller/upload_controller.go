package controller

import (
	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/apperr"
	"rollcall-backend/internal/config"
	"rollcall-backend/internal/service"
)

type UploadController struct {
	UploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{UploadService: uploadService}
}

// UploadLunchImage handles POST /api/admin/upload/lunch-image
func (uc *UploadController) UploadLunchImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "이미지 파일을 선택해 주세요.")
		return
	}
	if max := config.GetConfig().Storage.MaxImageBytes; max > 0 && header.Size > max {
		fail(c, apperr.Validation("이미지 용량이 너무 큽니다."))
		return
	}

	f, err := header.Open()
	if err != nil {
		fail(c, apperr.Validation("이미지 파일을 읽을 수 없습니다."))
		return
	}
	defer f.Close()

	path, err := uc.UploadService.SaveLunchImage(f)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, gin.H{"path": path, "url": lunchImageURL(path)})
}

// DeleteLunchImage handles DELETE /api/admin/upload/lunch-image
func (uc *UploadController) DeleteLunchImage(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "입력값이 올바르지 않습니다.")
		return
	}
	if err := uc.UploadService.DeleteLunchImage(req.Path); err != nil {
		fail(c, err)
		return
	}
	message(c, "삭제되었습니다.")
}
