package handle

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/internal/billing"
	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/log"
)

// webhookMaxBody Stripe webhook 请求体上限.
const webhookMaxBody = 64 * 1024

// CreateCheckout 创建订阅结账会话，返回托管结账页地址.
func CreateCheckout(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	svc := service.NewEntitlementService(c.Request.Context())

	url, err := svc.Checkout(c.Request.Context(), uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CheckoutResponse{URL: url})
}

// StripeWebhook 计费回调. 签名校验失败一律 400；签名密钥未配置时拒绝一切请求.
func StripeWebhook(c *gin.Context) {
	l := log.Logger()

	if configs.GetConfig().Billing.WebhookSecret == "" {
		l.Error().Msg("webhook secret not configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "webhook not configured"})

		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, webhookMaxBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}

	event, err := billing.New().VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		l.Warn().Err(err).Msg("webhook signature verification failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})

		return
	}

	svc := service.NewEntitlementService(c.Request.Context())

	if err := svc.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
