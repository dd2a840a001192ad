package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	logger "rollcall-backend/pkg/logging"
)

const maxDumpBody = 4 << 10

// RequestDumpMiddleware logs incoming requests at debug level. Bodies
// are truncated; signature payloads and uploads are base64 blobs that
// would drown the log otherwise.
func RequestDumpMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		dump := bodyBytes
		if len(dump) > maxDumpBody {
			dump = dump[:maxDumpBody]
		}

		logger.Debug(
			"[Request]\n"+
				"\tMethod: %s\n"+
				"\tURL: %s\n"+
				"\tParams: %v\n"+
				"\tBody: %s",
			c.Request.Method,
			c.Request.URL.String(),
			c.Params,
			string(dump),
		)

		c.Next()
	}
}
