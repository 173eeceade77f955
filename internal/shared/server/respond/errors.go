package respond

import (
	"github.com/gin-gonic/gin"

	"smart-resume/internal/shared/telemetry"
)

// ErrorResponse is the body of every error reply. Detail carries the
// human-readable message clients display.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// Error logs and sends a standardized error response.
func Error(c *gin.Context, status int, code, detail string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if exportID := c.GetString("exportId"); exportID != "" {
		fields["export_id"] = exportID
	}
	if stage := c.GetString("stage"); stage != "" {
		fields["stage"] = stage
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail, Code: code})
}
