package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yeisme/docvault/pkg/cache"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
	"github.com/yeisme/docvault/pkg/internal/types"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/queue"
)

// renameParallelism 分类改名的并发写上限.
const renameParallelism = 8

// TaxonomyService 目录批量变更：建节点、改名、删除.
//
// 所有操作都是非事务的逐行写：改名改到一半失败时已写的行保持新名，
// 结果里逐条标出失败行，重试同一请求对已改行是无害的（选择条件已不再命中）.
type TaxonomyService struct {
	dbc   *dbc.Client
	store ObjectStore
	mqc   *mq.Client
	cache *cache.Cache
}

// NewTaxonomyService 创建并返回一个新的 TaxonomyService 实例.
func NewTaxonomyService(c context.Context) *TaxonomyService {
	svc := &TaxonomyService{
		dbc: ctxPkg.GetDBClient(c),
		mqc: ctxPkg.GetMQClient(c),
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.store = s3c
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		svc.cache = cache.NewCache(kvc)
	}

	return svc
}

// CreateCategory 预建空分类：插入一行占位文档. 已存在同名分类时为无害 no-op.
// 占位行把分类名同时写进遗留列与编码串，目录树据此显示空目录.
func (s *TaxonomyService) CreateCategory(ctx context.Context, name string) error {
	exists, err := s.nodeExists(ctx, name, "")
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	sentinel := model.Document{
		ID:          uuid.NewString(),
		Title:       model.SentinelTitle,
		DocType:     name,
		Description: taxonomy.Encode(name, "", ""),
		FileURL:     model.SentinelFileURL,
	}

	if err := s.dbc.WithContext(ctx).Create(&sentinel).Error; err != nil {
		return fmt.Errorf("create category sentinel: %w", err)
	}

	s.invalidateTree(ctx)

	return nil
}

// CreateBrand 在分类下预建空品牌节点.
func (s *TaxonomyService) CreateBrand(ctx context.Context, category, name string) error {
	exists, err := s.nodeExists(ctx, category, name)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	sentinel := model.Document{
		ID:          uuid.NewString(),
		Title:       model.SentinelTitle,
		DocType:     "document",
		Description: taxonomy.Encode(category, name, ""),
		Brand:       name,
		FileURL:     model.SentinelFileURL,
	}

	if err := s.dbc.WithContext(ctx).Create(&sentinel).Error; err != nil {
		return fmt.Errorf("create brand sentinel: %w", err)
	}

	s.invalidateTree(ctx)

	return nil
}

// RenameCategory 把一个分类下所有文档（含占位行）改到新分类名.
// 选择用 LIKE 双模式覆盖尾部空格漂移，重写编码串时品牌与备注原样保留.
// 行级更新并行执行，单行失败不拦下其余行.
func (s *TaxonomyService) RenameCategory(ctx context.Context, oldName, newName string) (*types.BulkResult, error) {
	if oldName == newName {
		return &types.BulkResult{Status: types.BulkStatusOK}, nil
	}

	docs, err := s.selectByCategory(ctx, oldName)
	if err != nil {
		return nil, err
	}

	result := &types.BulkResult{Matched: len(docs), Status: types.BulkStatusOK}

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renameParallelism)

	for i := range docs {
		doc := docs[i]

		g.Go(func() error {
			entry, ok := taxonomy.Decode(doc.Description)
			if !ok {
				// LIKE 命中但解码失败，理论上不可能，跳过并记失败
				mu.Lock()
				result.Failed = append(result.Failed, types.RowFailure{ID: doc.ID, Error: "undecodable description"})
				mu.Unlock()

				return nil
			}

			updates := map[string]any{
				"description": taxonomy.Encode(newName, entry.Brand, entry.Notes),
			}

			// 遗留列只在字面等于旧分类名时跟着改（分类占位行）
			if doc.DocType == oldName {
				updates["category"] = newName
			}

			if err := s.dbc.WithContext(gctx).Model(&model.Document{}).
				Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
				mu.Lock()
				result.Failed = append(result.Failed, types.RowFailure{ID: doc.ID, Error: err.Error()})
				mu.Unlock()

				return nil
			}

			mu.Lock()
			result.Updated++
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.finishBulk(ctx, result, queue.TaxonomyChangedPayload{
		Scope:    "category",
		Category: oldName,
		Action:   "rename",
		NewName:  newName,
		Affected: result.Updated,
	})

	return result, nil
}

// RenameBrand 批量品牌改名. category 非空时只影响该分类下的文档.
// 品牌行数通常远小于分类，顺序执行足够.
func (s *TaxonomyService) RenameBrand(ctx context.Context, category, oldName, newName string) (*types.BulkResult, error) {
	if oldName == newName {
		return &types.BulkResult{Status: types.BulkStatusOK}, nil
	}

	q := s.dbc.WithContext(ctx).Where("brand = ?", oldName)
	if category != "" {
		exact, drifted := taxonomy.LikePatterns(category)
		q = q.Where(`description LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, exact, drifted)
	}

	var docs []model.Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("select brand documents: %w", err)
	}

	result := &types.BulkResult{Matched: len(docs), Status: types.BulkStatusOK}

	for i := range docs {
		doc := &docs[i]

		updates := map[string]any{"brand": newName}

		if entry, ok := taxonomy.Decode(doc.Description); ok {
			updates["description"] = taxonomy.Encode(entry.Category, newName, entry.Notes)
		}

		if err := s.dbc.WithContext(ctx).Model(&model.Document{}).
			Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
			result.Failed = append(result.Failed, types.RowFailure{ID: doc.ID, Error: err.Error()})
			continue
		}

		result.Updated++
	}

	s.finishBulk(ctx, result, queue.TaxonomyChangedPayload{
		Scope:    "brand",
		Category: category,
		Brand:    oldName,
		Action:   "rename",
		NewName:  newName,
		Affected: result.Updated,
	})

	return result, nil
}

// DeleteCategory 删除分类下全部文档（含占位行），存储对象尽力清理.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, name string) (*types.BulkResult, error) {
	docs, err := s.selectByCategory(ctx, name)
	if err != nil {
		return nil, err
	}

	result := s.deleteRows(ctx, docs)

	s.finishBulk(ctx, result, queue.TaxonomyChangedPayload{
		Scope:    "category",
		Category: name,
		Action:   "delete",
		Affected: result.Deleted,
	})

	return result, nil
}

// DeleteBrand 删除分类下某品牌的全部文档（含占位行）.
func (s *TaxonomyService) DeleteBrand(ctx context.Context, category, name string) (*types.BulkResult, error) {
	exact, drifted := taxonomy.LikePatterns(category)

	var docs []model.Document
	if err := s.dbc.WithContext(ctx).
		Where("brand = ?", name).
		Where(`description LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, exact, drifted).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("select brand documents: %w", err)
	}

	result := s.deleteRows(ctx, docs)

	s.finishBulk(ctx, result, queue.TaxonomyChangedPayload{
		Scope:    "brand",
		Category: category,
		Brand:    name,
		Action:   "delete",
		Affected: result.Deleted,
	})

	return result, nil
}

// selectByCategory 选出一个分类下的全部行，覆盖两种漂移形态. 选择失败中止整个操作.
func (s *TaxonomyService) selectByCategory(ctx context.Context, category string) ([]model.Document, error) {
	exact, drifted := taxonomy.LikePatterns(category)

	var docs []model.Document
	if err := s.dbc.WithContext(ctx).
		Where(`description LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, exact, drifted).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("select category documents: %w", err)
	}

	return docs, nil
}

// deleteRows 逐行硬删除，行删除成功后尽力清理对象.
func (s *TaxonomyService) deleteRows(ctx context.Context, docs []model.Document) *types.BulkResult {
	result := &types.BulkResult{Matched: len(docs), Status: types.BulkStatusOK}

	for i := range docs {
		doc := &docs[i]

		if err := s.dbc.WithContext(ctx).Delete(&model.Document{}, "id = ?", doc.ID).Error; err != nil {
			result.Failed = append(result.Failed, types.RowFailure{ID: doc.ID, Error: err.Error()})
			continue
		}

		result.Deleted++

		if s.store != nil && doc.ObjectKey != "" && !doc.IsSentinel() {
			if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
				dlog.Logger().Warn().Err(err).Str("object_key", doc.ObjectKey).Msg("对象删除失败")
			}
		}
	}

	return result
}

// nodeExists 判断分类（或分类下品牌）是否已有任何行.
func (s *TaxonomyService) nodeExists(ctx context.Context, category, brand string) (bool, error) {
	exact, drifted := taxonomy.LikePatterns(category)

	q := s.dbc.WithContext(ctx).Model(&model.Document{}).
		Where(`description LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, exact, drifted)

	if brand != "" {
		q = q.Where("brand = ?", brand)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check taxonomy node: %w", err)
	}

	return count > 0, nil
}

// finishBulk 统一收尾：状态归档、缓存失效、事件发布.
func (s *TaxonomyService) finishBulk(ctx context.Context, result *types.BulkResult, payload queue.TaxonomyChangedPayload) {
	if len(result.Failed) > 0 {
		result.Status = types.BulkStatusPartial
	}

	s.invalidateTree(ctx)

	publishEvent(ctx, s.mqc, queue.TopicTaxonomyChanged, func() error {
		return queue.PublishTaxonomyChanged(s.mqc, payload)
	})
}

func (s *TaxonomyService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, treeCacheKey); err != nil {
		dlog.Logger().Debug().Err(err).Msg("目录树缓存失效失败")
	}
}
