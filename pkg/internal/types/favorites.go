package types

// AddFavoriteRequest 收藏一篇文档.
type AddFavoriteRequest struct {
	DocumentID string `json:"document_id" binding:"required" rule:"max=64"`
}

// ListFavoritesResponse 收藏列表，携带文档明细.
type ListFavoritesResponse struct {
	Favorites []DocumentItem `json:"favorites"`
}
