package handler

import (
	"context"
	"net"
	"time"

	"zeckit-faucet/internal/adapter/http/dto"
	"zeckit-faucet/internal/adapter/http/middleware"
	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/apperror"
	"zeckit-faucet/pkg/response"

	"github.com/gin-gonic/gin"
)

const defaultAuditLimit = 50

// RateLimitResetter clears a client's rate limit counter.
type RateLimitResetter interface {
	Reset(ctx context.Context, key string) error
}

// AdminHandler handles the token-protected operator endpoints.
type AdminHandler struct {
	faucetSvc ports.FaucetService
	auditSvc  ports.AuditService
	limiter   RateLimitResetter
}

// NewAdminHandler creates a new AdminHandler. auditSvc and limiter may be nil.
func NewAdminHandler(faucetSvc ports.FaucetService, auditSvc ports.AuditService, limiter RateLimitResetter) *AdminHandler {
	return &AdminHandler{faucetSvc: faucetSvc, auditSvc: auditSvc, limiter: limiter}
}

// Sync handles POST /admin/sync.
func (h *AdminHandler) Sync(c *gin.Context) {
	if err := h.faucetSvc.Sync(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.SyncResponse{
		Success:   true,
		Timestamp: dto.FormatTime(time.Now()),
	})
}

type auditQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ListAudit handles GET /admin/audit.
func (h *AdminHandler) ListAudit(c *gin.Context) {
	var q auditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultAuditLimit
	}

	if h.auditSvc == nil {
		response.OK(c, dto.AuditListResponse{Count: 0, Entries: []domain.AuditLog{}})
		return
	}

	entries, err := h.auditSvc.Recent(c.Request.Context(), q.Limit)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	response.OK(c, dto.AuditListResponse{Count: len(entries), Entries: entries})
}

// ResetRateLimit handles DELETE /admin/ratelimit/:ip. It clears the
// POST /request counter for one client.
func (h *AdminHandler) ResetRateLimit(c *gin.Context) {
	ip := net.ParseIP(c.Param("ip"))
	if ip == nil {
		response.Error(c, apperror.Validation("ip must be an IPv4 or IPv6 address"))
		return
	}
	if h.limiter == nil {
		response.Error(c, apperror.Validation("rate limiting is disabled"))
		return
	}

	key := middleware.RateLimitKey(ip.String(), middleware.RateLimitGroupRequest)
	if err := h.limiter.Reset(c.Request.Context(), key); err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}
	response.OK(c, dto.RateLimitResetResponse{
		Success:   true,
		ClientIP:  ip.String(),
		Timestamp: dto.FormatTime(time.Now()),
	})
}
