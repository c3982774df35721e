package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeisme/docvault/pkg/cache"
	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
	"github.com/yeisme/docvault/pkg/internal/types"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/queue"
)

const (
	// DefaultListLimit 列表默认分页大小.
	DefaultListLimit = 50
	// treeCacheKey 目录树缓存键.
	treeCacheKey = "taxonomy:tree"
	// AnonymousUploader 解除归属后展示的上传者名.
	AnonymousUploader = "anonymous"
)

// DocumentService 文档仓库访问：列表、上传、下载计数、目录树与管理员修正.
type DocumentService struct {
	dbc     *dbc.Client
	store   ObjectStore
	mqc     *mq.Client
	cache   *cache.Cache
	treeTTL time.Duration
}

// NewDocumentService 创建并返回一个新的 DocumentService 实例.
func NewDocumentService(c context.Context) *DocumentService {
	svc := &DocumentService{
		dbc: ctxPkg.GetDBClient(c),
		mqc: ctxPkg.GetMQClient(c),
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.store = s3c
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		svc.cache = cache.NewCache(kvc)
	}

	svc.treeTTL = time.Duration(configs.GetConfig().KV.TreeTTLSeconds) * time.Second

	if svc.dbc == nil {
		dlog.Logger().Warn().Msg("DB client not initialized, DocumentService features limited")
	}

	return svc
}

// List 按过滤条件查询文档. 占位文档永远不出现在结果里.
func (s *DocumentService) List(ctx context.Context, callerUID string, req *types.ListDocumentsRequest) (*types.ListDocumentsResponse, error) {
	q := s.dbc.WithContext(ctx).Model(&model.Document{}).
		Where("title <> ?", model.SentinelTitle)

	if req.DocType != "" {
		q = q.Where("category = ?", req.DocType)
	}

	if req.Category != "" {
		exact, drifted := taxonomy.LikePatterns(req.Category)
		q = q.Where(`description LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\'`, exact, drifted)

		if req.Brand != "" {
			q = q.Where("brand = ?", req.Brand)
		}
	} else if req.Brand != "" {
		q = q.Where("brand = ?", req.Brand)
	}

	if req.Mine {
		if callerUID == "" {
			return nil, ErrUnauthorized
		}

		q = q.Where("uploaded_by = ?", callerUID)
	}

	if req.Search != "" {
		q = q.Where(`title LIKE ? ESCAPE '\'`, "%"+taxonomy.EscapeLike(req.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var docs []model.Document
	if err := q.Order("created_at DESC").Limit(limit).Offset(req.Offset).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	items := make([]types.DocumentItem, 0, len(docs))
	for i := range docs {
		items = append(items, toDocumentItem(&docs[i], callerUID))
	}

	return &types.ListDocumentsResponse{Documents: items, Total: total}, nil
}

// Get 查询单篇文档. 占位文档按不存在处理.
func (s *DocumentService) Get(ctx context.Context, callerUID, id string) (*types.DocumentItem, error) {
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	item := toDocumentItem(doc, callerUID)

	return &item, nil
}

// Upload 校验并保存文件，落库元数据. 分类结构编码进描述列.
func (s *DocumentService) Upload(ctx context.Context, callerUID, uploaderName string, req *types.UploadDocumentRequest, file UploadedFile) (*types.UploadDocumentResponse, error) {
	if callerUID == "" {
		return nil, ErrUnauthorized
	}

	cfg := configs.GetConfig().S3
	if file.Size <= 0 || file.Size > cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: file size %d out of range", ErrValidation, file.Size)
	}

	if !contentTypeAllowed(file.ContentType, cfg.AllowedTypes) {
		return nil, fmt.Errorf("%w: content type %q not allowed", ErrValidation, file.ContentType)
	}

	docType := req.DocType
	if docType == "" {
		docType = "document"
	}

	id := uuid.NewString()
	objectKey := fmt.Sprintf("%s/%s%s", callerUID, id, strings.ToLower(filepath.Ext(file.Name)))

	if err := s.store.Put(ctx, objectKey, file.Reader, file.Size, file.ContentType); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	uid := callerUID
	doc := model.Document{
		ID:            id,
		Title:         req.Title,
		DocType:       docType,
		Description:   taxonomy.Encode(req.Category, req.Brand, req.Notes),
		Brand:         req.Brand,
		FileURL:       s.store.PublicURL(objectKey),
		ObjectKey:     objectKey,
		FileName:      file.Name,
		FileSizeBytes: file.Size,
		UploadedBy:    &uid,
		UploaderName:  uploaderName,
	}

	if err := s.dbc.WithContext(ctx).Create(&doc).Error; err != nil {
		// 元数据落库失败时回收已写入的对象
		if rmErr := s.store.Remove(ctx, objectKey); rmErr != nil {
			dlog.Logger().Warn().Err(rmErr).Str("object_key", objectKey).Msg("孤儿对象清理失败")
		}

		return nil, fmt.Errorf("create document: %w", err)
	}

	metrics.UploadsTotal.Inc()
	s.invalidateTree(ctx)

	publishEvent(ctx, s.mqc, queue.TopicDocumentStored, func() error {
		return queue.PublishDocumentStored(s.mqc, queue.DocumentStoredPayload{
			Document: queue.DocumentRef{ID: doc.ID, ObjectKey: objectKey, FileName: file.Name, Size: file.Size},
			Category: req.Category,
			Brand:    req.Brand,
			UploadedBy: callerUID,
		})
	})

	item := toDocumentItem(&doc, callerUID)

	return &types.UploadDocumentResponse{Document: item}, nil
}

// Disown 上传者解除归属：行保留、文件保留，归属与展示名匿名化.
func (s *DocumentService) Disown(ctx context.Context, callerUID, id string) error {
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return err
	}

	if doc.UploadedBy == nil || *doc.UploadedBy != callerUID {
		return ErrForbidden
	}

	updates := map[string]any{
		"uploaded_by":   nil,
		"uploader_name": AnonymousUploader,
	}
	if err := s.dbc.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("disown document: %w", err)
	}

	publishEvent(ctx, s.mqc, queue.TopicDocumentDisowned, func() error {
		return queue.PublishDocumentDisowned(s.mqc, queue.DocumentDisownedPayload{
			Document:    queue.DocumentRef{ID: id, ObjectKey: doc.ObjectKey},
			FormerOwner: callerUID,
		})
	})

	return nil
}

// AdminUpdate 管理员修正单篇文档的标题与分类. 改分类时重写编码串并同步品牌列.
func (s *DocumentService) AdminUpdate(ctx context.Context, id string, req *types.AdminUpdateDocumentRequest) (*types.DocumentItem, error) {
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if req.Title != "" {
		updates["title"] = req.Title
	}

	if req.Category != "" || req.Brand != "" || req.Notes != "" {
		entry, _ := taxonomy.Decode(doc.Description)

		if req.Category != "" {
			entry.Category = req.Category
		}

		if req.Brand != "" {
			entry.Brand = req.Brand
		}

		if req.Notes != "" {
			entry.Notes = req.Notes
		}

		updates["description"] = taxonomy.Encode(entry.Category, entry.Brand, entry.Notes)
		updates["brand"] = entry.Brand
	}

	if len(updates) == 0 {
		item := toDocumentItem(doc, "")
		return &item, nil
	}

	if err := s.dbc.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.invalidateTree(ctx)

	fresh, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	item := toDocumentItem(fresh, "")

	return &item, nil
}

// AdminDelete 管理员删除单篇文档，对象一并清理（失败只记日志）.
func (s *DocumentService) AdminDelete(ctx context.Context, id string) error {
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.dbc.WithContext(ctx).Delete(&model.Document{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.removeObject(ctx, doc)
	s.invalidateTree(ctx)

	publishEvent(ctx, s.mqc, queue.TopicDocumentDeleted, func() error {
		return queue.PublishDocumentDeleted(s.mqc, queue.DocumentDeletedPayload{
			Document: queue.DocumentRef{ID: id, ObjectKey: doc.ObjectKey},
			Reason:   "admin",
		})
	})

	return nil
}

// Download 原子自增下载计数并返回直链与新计数.
// 计数列在 SQL 里自增，并发点击不丢数.
func (s *DocumentService) Download(ctx context.Context, id string) (*types.DownloadResponse, error) {
	doc, err := s.loadDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.dbc.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error; err != nil {
		return nil, fmt.Errorf("increment download count: %w", err)
	}

	metrics.DownloadsTotal.Inc()

	var count int64
	if err := s.dbc.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).
		Pluck("download_count", &count).Error; err != nil {
		return nil, fmt.Errorf("read download count: %w", err)
	}

	return &types.DownloadResponse{FileURL: doc.FileURL, NewCount: count}, nil
}

// Tree 返回两级目录树（分类→品牌→计数），带 KV 缓存.
// 占位文档贡献节点但不计数，所以空目录也可见.
func (s *DocumentService) Tree(ctx context.Context) (*types.TreeResponse, error) {
	build := func() (*types.TreeResponse, error) {
		return s.buildTree(ctx)
	}

	if s.cache == nil {
		return build()
	}

	return cache.GetOrSet(ctx, s.cache, treeCacheKey, build, s.treeTTL)
}

// InvalidateTree 失效目录树缓存. 上传与批量变更后都要调.
func (s *DocumentService) InvalidateTree(ctx context.Context) {
	s.invalidateTree(ctx)
}

func (s *DocumentService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, treeCacheKey); err != nil {
		dlog.Logger().Debug().Err(err).Msg("目录树缓存失效失败")
	}
}

func (s *DocumentService) buildTree(ctx context.Context) (*types.TreeResponse, error) {
	var docs []model.Document
	if err := s.dbc.WithContext(ctx).
		Select("id", "title", "category", "description", "brand").
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("load documents for tree: %w", err)
	}

	type brandCount map[string]int

	cats := map[string]brandCount{}

	for i := range docs {
		doc := &docs[i]

		entry, ok := taxonomy.Decode(doc.Description)
		if !ok {
			if doc.IsSentinel() {
				// 分类占位行把分类名存在遗留列里
				entry = taxonomy.Entry{Category: doc.DocType, Brand: doc.Brand}
			} else {
				continue
			}
		}

		if entry.Category == "" {
			continue
		}

		if _, exists := cats[entry.Category]; !exists {
			cats[entry.Category] = brandCount{}
		}

		if entry.Brand != "" {
			brand := strings.TrimSpace(entry.Brand)
			if _, exists := cats[entry.Category][brand]; !exists {
				cats[entry.Category][brand] = 0
			}

			if !doc.IsSentinel() {
				cats[entry.Category][brand]++
			}
		}
	}

	resp := &types.TreeResponse{Categories: make([]types.TreeCategory, 0, len(cats))}

	for name, brands := range cats {
		node := types.TreeCategory{Name: name, Brands: make([]types.TreeBrand, 0, len(brands))}

		for brand, count := range brands {
			node.Brands = append(node.Brands, types.TreeBrand{Name: brand, Count: count})
			node.Count += count
		}

		sort.Slice(node.Brands, func(i, j int) bool { return node.Brands[i].Name < node.Brands[j].Name })

		resp.Categories = append(resp.Categories, node)
	}

	sort.Slice(resp.Categories, func(i, j int) bool { return resp.Categories[i].Name < resp.Categories[j].Name })

	return resp, nil
}

// loadDocument 读取非占位文档，不存在与占位都返回 ErrNotFound.
func (s *DocumentService) loadDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document

	err := s.dbc.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	if doc.IsSentinel() {
		return nil, ErrNotFound
	}

	return &doc, nil
}

// removeObject 删除文档对应的存储对象，失败只记日志.
func (s *DocumentService) removeObject(ctx context.Context, doc *model.Document) {
	if s.store == nil || doc.ObjectKey == "" {
		return
	}

	if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
		dlog.Logger().Warn().Err(err).Str("object_key", doc.ObjectKey).Msg("对象删除失败")
	}
}

// UploadedFile 上传文件的流与元信息.
type UploadedFile struct {
	Reader      io.Reader
	Name        string
	Size        int64
	ContentType string
}

func contentTypeAllowed(ct string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(ct, a) {
			return true
		}
	}

	return false
}

// toDocumentItem 把模型行转成对外视图，描述列解码失败时回退遗留列.
func toDocumentItem(doc *model.Document, callerUID string) types.DocumentItem {
	item := types.DocumentItem{
		ID:            doc.ID,
		Title:         doc.Title,
		DocType:       doc.DocType,
		Brand:         doc.Brand,
		FileURL:       doc.FileURL,
		FileName:      doc.FileName,
		FileSizeBytes: doc.FileSizeBytes,
		UploaderName:  doc.UploaderName,
		DownloadCount: doc.DownloadCount,
		CreatedAt:     doc.CreatedAt,
	}

	if entry, ok := taxonomy.Decode(doc.Description); ok {
		item.Category = entry.Category
		item.Brand = entry.Brand
		item.Notes = entry.Notes
	} else {
		// 旧数据没有编码串，退回遗留列展示
		item.Category = doc.DocType
	}

	if callerUID != "" && doc.UploadedBy != nil && *doc.UploadedBy == callerUID {
		item.Mine = true
	}

	return item
}
