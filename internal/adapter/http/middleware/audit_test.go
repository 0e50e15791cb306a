package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zeckit-faucet/internal/core/domain"
	"zeckit-faucet/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuditLog_FaucetRequestSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAudit := mocks.NewMockAuditService(ctrl)

	done := make(chan struct{})
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionFaucetRequest, log.Action)
			assert.Equal(t, "transaction", log.ResourceType)
			assert.Equal(t, "txid-abc", log.ResourceID)
			assert.Contains(t, log.Details, `"status":200`)
			close(done)
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/request", func(c *gin.Context) {
		c.Set(CtxTxID, "txid-abc")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/request", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("audit not called")
	}
}

func TestAuditLog_AdminSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionWalletSync, log.Action)
			assert.Equal(t, "wallet", log.ResourceType)
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/admin/sync", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/sync", nil))
}

func TestAuditLog_RateLimitResetRecordsClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, log *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionRateLimitReset, log.Action)
			assert.Equal(t, "client", log.ResourceType)
			assert.Equal(t, "10.1.2.3", log.ResourceID)
		},
	)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.DELETE("/admin/ratelimit/:ip", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/admin/ratelimit/10.1.2.3", nil))
}

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "10.1.2.3:request", RateLimitKey("10.1.2.3", RateLimitGroupRequest))
}

func TestAuditLog_SkipsFailedRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT: any call fails the test.
	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.POST("/request", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/request", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLog_SkipsReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAudit := mocks.NewMockAuditService(ctrl)

	r := gin.New()
	r.Use(AuditLog(mockAudit))
	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMapPathToAction_Unknown(t *testing.T) {
	action, resource := mapPathToAction("/unknown", http.MethodPost)
	assert.Empty(t, action)
	assert.Empty(t, resource)
}
