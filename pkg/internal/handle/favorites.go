package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/service"
	"github.com/yeisme/docvault/pkg/internal/types"
	"github.com/yeisme/docvault/pkg/log"
)

// ListFavorites 当前用户的收藏列表，携带文档明细.
func ListFavorites(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	svc := service.NewFavoriteService(c.Request.Context())

	resp, err := svc.List(c.Request.Context(), uid)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// AddFavorite 收藏一篇文档，重复收藏是无害 no-op.
func AddFavorite(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	var req types.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Logger().Warn().Err(err).Msg("invalid favorite request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.DocumentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_id is required"})
		return
	}

	svc := service.NewFavoriteService(c.Request.Context())

	if err := svc.Add(c.Request.Context(), uid, req.DocumentID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// RemoveFavorite 取消收藏，幂等.
func RemoveFavorite(c *gin.Context) {
	uid, ok := requireUID(c)
	if !ok {
		return
	}

	svc := service.NewFavoriteService(c.Request.Context())

	if err := svc.Remove(c.Request.Context(), uid, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
