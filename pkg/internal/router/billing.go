package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
)

// registerBillingRoutes 计费路由. webhook 在 auth.skip_paths 里跳过认证，
// 靠 Stripe 签名校验保护.
func registerBillingRoutes(api *gin.RouterGroup) {
	billing := api.Group("/billing")

	billing.POST("/checkout", handle.CreateCheckout)
	billing.POST("/webhook", handle.StripeWebhook)
}
