package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
)

// RequirePro 付费权益门控. is_pro 只被计费 webhook 翻转，这里只读不写.
func RequirePro() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := CallerUID(c)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		svc := service.NewEntitlementService(c.Request.Context())

		pro, err := svc.IsPro(c.Request.Context(), uid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if !pro {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "pro subscription required"})
			return
		}

		c.Next()
	}
}
