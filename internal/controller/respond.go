package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall-backend/internal/apperr"
	logger "rollcall-backend/pkg/logging"
)

// ok wraps data in the success envelope.
func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func okMessage(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "message": message})
}

func created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// fail converts any error into the failure envelope. Typed domain
// errors keep their status and machine code; everything else becomes an
// opaque 500.
func fail(c *gin.Context, err error) {
	if e, isApp := apperr.As(err); isApp {
		c.JSON(e.HTTPStatus(), gin.H{
			"success": false,
			"error":   gin.H{"message": e.Message, "code": e.Code},
		})
		return
	}
	logger.Error("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   gin.H{"message": "서버 오류가 발생했습니다."},
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"message": msg, "code": "VALIDATION"},
	})
}
