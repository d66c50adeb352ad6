package middleware

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/huangang/projectpulse/internal/services"
	"github.com/huangang/projectpulse/pkg/logger"
)

const maxAuditBody = 2000

var sensitiveJSONValue = regexp.MustCompile(`(?i)("(?:password|api_key|apikey|secret|token|access_token)"\s*:\s*)"[^"]*"`)

// AuditLog records write requests (POST/PUT/PATCH/DELETE) to system_logs.
func AuditLog(logs *services.SystemLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != "POST" && method != "PUT" && method != "PATCH" && method != "DELETE" {
			c.Next()
			return
		}

		var body string
		if c.Request.Body != nil {
			raw, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
			body = maskSensitiveFields(string(raw))
			if len(body) > maxAuditBody {
				body = body[:maxAuditBody] + "...[truncated]"
			}
		}

		c.Next()

		status := c.Writer.Status()
		module, action := parseRouteInfo(c.FullPath(), method)
		level := services.LogLevelInfo
		if status >= 500 {
			level = services.LogLevelError
		} else if status >= 400 {
			level = services.LogLevelWarning
		}

		logs.Write(services.AuditEntry{
			Level:     level,
			Module:    module,
			Action:    action,
			Message:   formatAuditMessage(GetUserID(c), method, c.Request.URL.Path, status),
			UserID:    GetUserID(c),
			RequestID: c.GetString(logger.RequestIDKey),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Extra: map[string]interface{}{
				"method": method,
				"path":   c.Request.URL.Path,
				"status": status,
				"body":   body,
			},
		})
	}
}

// parseRouteInfo maps a route pattern to module and action.
// "/api/tasks/:id/log-time" + POST gives ("tasks", "log-time");
// "/api/projects/:id" + PUT gives ("projects", "update").
func parseRouteInfo(fullPath, method string) (module, action string) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(fullPath, "/api/"), "/"), "/")
	module = parts[0]
	if module == "" {
		module = "unknown"
	}

	if last := parts[len(parts)-1]; len(parts) > 1 && !strings.HasPrefix(last, ":") {
		return module, last
	}

	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return module, action
}

func formatAuditMessage(userID, method, path string, status int) string {
	outcome := "OK"
	if status < 200 || status >= 300 {
		outcome = "Failed"
	}
	return fmt.Sprintf("[Audit] %s %s %s -> %s (%d)", userID, method, path, outcome, status)
}

func maskSensitiveFields(body string) string {
	return sensitiveJSONValue.ReplaceAllString(body, `$1"***"`)
}
