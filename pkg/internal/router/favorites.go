package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/docvault/pkg/internal/handle"
	"github.com/yeisme/docvault/pkg/middleware"
)

// registerFavoriteRoutes 收藏路由，整组付费门控.
func registerFavoriteRoutes(api *gin.RouterGroup) {
	fav := api.Group("/favorites", middleware.RequirePro())

	fav.GET("", handle.ListFavorites)
	fav.POST("", handle.AddFavorite)
	fav.DELETE("/:id", handle.RemoveFavorite)
}
