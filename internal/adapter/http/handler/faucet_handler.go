package handler

import (
	"fmt"

	"zeckit-faucet/internal/adapter/http/dto"
	"zeckit-faucet/internal/adapter/http/middleware"
	"zeckit-faucet/internal/core/ports"
	"zeckit-faucet/pkg/apperror"
	"zeckit-faucet/pkg/response"

	"github.com/gin-gonic/gin"
)

// FaucetHandler handles the public faucet endpoints.
type FaucetHandler struct {
	faucetSvc ports.FaucetService
}

// NewFaucetHandler creates a new FaucetHandler.
func NewFaucetHandler(faucetSvc ports.FaucetService) *FaucetHandler {
	return &FaucetHandler{faucetSvc: faucetSvc}
}

// Root handles GET /.
func (h *FaucetHandler) Root(c *gin.Context) {
	response.OK(c, dto.RootResponse{
		Name:          dto.ServiceName,
		Version:       dto.ServiceVersion,
		Description:   dto.ServiceDescription,
		Network:       dto.Network,
		WalletBackend: dto.WalletBackend,
		Endpoints: map[string]string{
			"health":  "/health",
			"stats":   "/stats",
			"request": "/request",
			"address": "/address",
			"history": "/history",
		},
	})
}

// RequestFunds handles POST /request.
func (h *FaucetHandler) RequestFunds(c *gin.Context) {
	var req dto.FaucetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	var memo string
	if req.Memo != nil {
		memo = *req.Memo
	}

	result, err := h.faucetSvc.Dispense(c.Request.Context(), ports.DispenseRequest{
		Address:  req.Address,
		Amount:   req.Amount,
		Memo:     memo,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxTxID, result.TxID)

	response.OK(c, dto.FaucetResponse{
		Success:    true,
		TxID:       result.TxID,
		Address:    result.Address,
		Amount:     dto.ZEC(result.Amount),
		NewBalance: dto.ZEC(result.NewBalance),
		Timestamp:  dto.FormatTime(result.Timestamp),
		Network:    dto.Network,
		Message:    fmt.Sprintf("Sent %s ZEC on %s. TXID: %s", result.Amount.String(), dto.Network, result.TxID),
	})
}

// GetAddress handles GET /address.
func (h *FaucetHandler) GetAddress(c *gin.Context) {
	addr, bal, err := h.faucetSvc.Address(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AddressResponse{
		Address: addr,
		Balance: dto.ZEC(bal.TotalZEC()),
		Network: dto.Network,
	})
}

// GetStats handles GET /stats.
func (h *FaucetHandler) GetStats(c *gin.Context) {
	stats, err := h.faucetSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	var last *string
	if stats.LastRequest != nil {
		s := dto.FormatTime(*stats.LastRequest)
		last = &s
	}

	response.OK(c, dto.StatsResponse{
		FaucetAddress:      stats.Address,
		CurrentBalance:     dto.ZEC(stats.Balance.TotalZEC()),
		OrchardBalance:     dto.ZEC(stats.Balance.OrchardZEC()),
		TransparentBalance: dto.ZEC(stats.Balance.TransparentZEC()),
		TotalRequests:      stats.TotalRequests,
		TotalSent:          dto.ZEC(stats.TotalSent),
		LastRequest:        last,
		UptimeSeconds:      int64(stats.Uptime.Seconds()),
		Network:            dto.Network,
		WalletBackend:      dto.WalletBackend,
		Version:            dto.ServiceVersion,
	})
}

type historyQuery struct {
	Limit *int `form:"limit"`
}

// GetHistory handles GET /history.
func (h *FaucetHandler) GetHistory(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	limit := dto.ClampHistoryLimit(q.Limit)

	records := h.faucetSvc.History(limit)
	response.OK(c, dto.HistoryResponse{
		Count:        len(records),
		Limit:        limit,
		Transactions: records,
	})
}
