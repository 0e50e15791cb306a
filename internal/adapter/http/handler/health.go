package handler

import (
	"net/http"
	"time"

	"zeckit-faucet/internal/adapter/http/dto"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the wallet balance plus the health of each external
// dependency. A wallet failure is "unhealthy"; a dependency failure is
// "degraded". Both answer 503.
func HealthCheck(faucetSvc ports.FaucetService, checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := dto.HealthResponse{
			Status:        "healthy",
			WalletBackend: dto.WalletBackend,
			Network:       dto.Network,
			Timestamp:     dto.FormatTime(time.Now()),
			Version:       dto.ServiceVersion,
		}
		httpCode := http.StatusOK

		if len(checkers) > 0 {
			resp.Dependencies = make(map[string]dto.DependencyStatus, len(checkers))
		}
		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				resp.Dependencies[checker.Name()] = dto.DependencyStatus{Status: "unhealthy", Error: err.Error()}
				resp.Status = "degraded"
				httpCode = http.StatusServiceUnavailable
			} else {
				resp.Dependencies[checker.Name()] = dto.DependencyStatus{Status: "healthy"}
			}
		}

		info, err := faucetSvc.Health(c.Request.Context())
		if err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			httpCode = http.StatusServiceUnavailable
		} else {
			resp.Balance = dto.ZEC(info.Balance)
		}

		response.Status(c, httpCode, resp)
	}
}
