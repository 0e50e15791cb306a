package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps HTTP methods and paths to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapPathToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		resourceID := c.GetString(CtxTxID)
		if resourceID == "" {
			resourceID = c.Param("ip")
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
			"subject":    c.GetString(CtxSubject),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/request" && method == http.MethodPost:
		return domain.AuditActionFaucetRequest, "transaction"
	case path == "/admin/sync" && method == http.MethodPost:
		return domain.AuditActionWalletSync, "wallet"
	case path == "/admin/ratelimit/:ip" && method == http.MethodDelete:
		return domain.AuditActionRateLimitReset, "client"
	}
	return "", ""
}
