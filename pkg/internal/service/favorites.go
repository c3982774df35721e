package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/types"
)

// FavoriteService 用户收藏. (user_id, document_id) 唯一，重复收藏是无害 no-op.
type FavoriteService struct {
	dbc *dbc.Client
}

// NewFavoriteService 创建并返回一个新的 FavoriteService 实例.
func NewFavoriteService(c context.Context) *FavoriteService {
	return &FavoriteService{
		dbc: ctxPkg.GetDBClient(c),
	}
}

// Add 收藏一篇文档. 目标必须存在且不是占位行.
func (s *FavoriteService) Add(ctx context.Context, uid, documentID string) error {
	var doc model.Document

	err := s.dbc.WithContext(ctx).Select("id", "title").First(&doc, "id = ?", documentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if doc.IsSentinel() {
		return ErrNotFound
	}

	fav := model.Favorite{UserID: uid, DocumentID: documentID}

	err = s.dbc.WithContext(ctx).Create(&fav).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("create favorite: %w", err)
	}

	return nil
}

// Remove 取消收藏. 不存在的收藏同样返回成功.
func (s *FavoriteService) Remove(ctx context.Context, uid, documentID string) error {
	if err := s.dbc.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", uid, documentID).
		Delete(&model.Favorite{}).Error; err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	return nil
}

// List 按收藏时间倒序返回收藏的文档明细. 占位行被过滤（理论上收藏不到）.
func (s *FavoriteService) List(ctx context.Context, uid string) (*types.ListFavoritesResponse, error) {
	var favs []model.Favorite

	if err := s.dbc.WithContext(ctx).
		Preload("Document").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	items := make([]types.DocumentItem, 0, len(favs))

	for i := range favs {
		doc := favs[i].Document
		if doc == nil || doc.IsSentinel() {
			continue
		}

		items = append(items, toDocumentItem(doc, uid))
	}

	return &types.ListFavoritesResponse{Favorites: items}, nil
}
