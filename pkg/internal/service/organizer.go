package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/docvault/pkg/cache"
	"github.com/yeisme/docvault/pkg/configs"
	ctxPkg "github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/ai"
	"github.com/yeisme/docvault/pkg/internal/model"
	dbc "github.com/yeisme/docvault/pkg/internal/storage/db"
	"github.com/yeisme/docvault/pkg/internal/storage/mq"
	"github.com/yeisme/docvault/pkg/internal/taxonomy"
	"github.com/yeisme/docvault/pkg/internal/types"
	dlog "github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/queue"
)

// OrganizerService AI 整理任务：一批最近文档交给分类器，按建议重新归类、
// 删除重复.
//
// 模型输出必须是严格的 JSON 数组，解析失败按整批失败处理、什么都不改；
// 解析通过后逐条应用，单条失败只记数不中断. 所有分类写入都经由 taxonomy
// 编解码，不直接拼描述串.
type OrganizerService struct {
	dbc        *dbc.Client
	store      ObjectStore
	mqc        *mq.Client
	cache      *cache.Cache
	classifier ai.Classifier
	batchSize  int
}

// NewOrganizerService 创建并返回一个新的 OrganizerService 实例.
// 分类器初始化失败时返回错误（没有分类器任务无意义）.
func NewOrganizerService(c context.Context) (*OrganizerService, error) {
	cfg := configs.GetConfig().AI
	if !cfg.Enabled {
		return nil, fmt.Errorf("ai organizer disabled")
	}

	classifier, err := ai.NewGeminiClassifier(c)
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}

	svc := &OrganizerService{
		dbc:        ctxPkg.GetDBClient(c),
		mqc:        ctxPkg.GetMQClient(c),
		classifier: classifier,
		batchSize:  cfg.BatchSize,
	}

	if s3c := ctxPkg.GetS3Client(c); s3c != nil {
		svc.store = s3c
	}

	if kvc := ctxPkg.GetKVClient(c); kvc != nil {
		svc.cache = cache.NewCache(kvc)
	}

	return svc, nil
}

// promptDoc 发给模型的单篇文档视图.
type promptDoc struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Brand    string `json:"brand"`
	Notes    string `json:"notes,omitempty"`
}

const promptTemplate = `Você é um organizador de acervo de manuais técnicos.
Analise os documentos abaixo e devolva APENAS um array JSON, sem texto
adicional, onde cada item tem a forma:
{"id": "<id>", "correction": {"brand": "<marca>", "category": "<categoria>", "is_duplicate": false, "duplicate_of_id": ""}}

Regras:
- Corrija categoria/marca apenas quando claramente erradas.
- Marque is_duplicate=true e preencha duplicate_of_id quando o documento for
  duplicata de outro da lista.
- Não invente documentos nem ids.

Documentos:
%s`

// Run 执行一轮整理并返回统计.
func (s *OrganizerService) Run(ctx context.Context) (*types.OrganizerSummary, error) {
	start := time.Now()

	summary, err := s.run(ctx)
	if err != nil {
		metrics.OrganizerRuns.WithLabelValues("failed").Inc()
		s.publishCompleted(ctx, summary, "failed", time.Since(start), err)

		return nil, err
	}

	result := "ok"
	if summary.Failed > 0 {
		result = "partial"
	}

	metrics.OrganizerRuns.WithLabelValues(result).Inc()
	s.publishCompleted(ctx, summary, result, time.Since(start), nil)

	return summary, nil
}

func (s *OrganizerService) run(ctx context.Context) (*types.OrganizerSummary, error) {
	docs, err := s.recentDocuments(ctx)
	if err != nil {
		return &types.OrganizerSummary{}, err
	}

	summary := &types.OrganizerSummary{Analyzed: len(docs)}
	if len(docs) == 0 {
		return summary, nil
	}

	prompt, err := s.buildPrompt(docs)
	if err != nil {
		return summary, err
	}

	raw, err := s.classifier.GenerateCorrections(ctx, prompt)
	if err != nil {
		return summary, fmt.Errorf("%w: classifier call: %v", ErrUpstream, err)
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		// 整批拒绝：模型输出不可解析时不应用任何修改
		return summary, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	byID := make(map[string]*model.Document, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}

	for _, sug := range suggestions {
		doc, ok := byID[sug.ID]
		if !ok {
			dlog.Logger().Warn().Str("id", sug.ID).Msg("模型建议指向批次外的文档，跳过")
			summary.Failed++

			continue
		}

		if sug.Correction.IsDuplicate {
			if err := s.removeDuplicate(ctx, doc, sug.Correction.DuplicateOfID); err != nil {
				dlog.Logger().Warn().Err(err).Str("id", doc.ID).Msg("重复文档删除失败")
				summary.Failed++

				continue
			}

			summary.DuplicatesRemoved++
			metrics.OrganizerDuplicates.Inc()

			continue
		}

		if err := s.applyCorrection(ctx, doc, sug.Correction); err != nil {
			dlog.Logger().Warn().Err(err).Str("id", doc.ID).Msg("分类修正应用失败")
			summary.Failed++

			continue
		}

		summary.Updated++
		metrics.OrganizerCorrections.Inc()
	}

	if summary.Updated > 0 || summary.DuplicatesRemoved > 0 {
		s.invalidateTree(ctx)
	}

	return summary, nil
}

// recentDocuments 取最近入库的一批非占位文档.
func (s *OrganizerService) recentDocuments(ctx context.Context) ([]model.Document, error) {
	var docs []model.Document

	if err := s.dbc.WithContext(ctx).
		Where("title <> ?", model.SentinelTitle).
		Order("created_at DESC").
		Limit(s.batchSize).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("load recent documents: %w", err)
	}

	return docs, nil
}

func (s *OrganizerService) buildPrompt(docs []model.Document) (string, error) {
	view := make([]promptDoc, 0, len(docs))

	for i := range docs {
		doc := &docs[i]
		pd := promptDoc{ID: doc.ID, Title: doc.Title}

		if entry, ok := taxonomy.Decode(doc.Description); ok {
			pd.Category = entry.Category
			pd.Brand = entry.Brand
			pd.Notes = entry.Notes
		} else {
			pd.Category = doc.DocType
			pd.Brand = doc.Brand
		}

		view = append(view, pd)
	}

	encoded, err := sonic.MarshalString(view)
	if err != nil {
		return "", fmt.Errorf("encode prompt documents: %w", err)
	}

	return fmt.Sprintf(promptTemplate, encoded), nil
}

// parseSuggestions 剥掉 markdown 围栏后严格解析建议数组.
func parseSuggestions(raw string) ([]types.OrganizerSuggestion, error) {
	cleaned := stripFences(raw)

	var suggestions []types.OrganizerSuggestion
	if err := sonic.UnmarshalString(cleaned, &suggestions); err != nil {
		return nil, fmt.Errorf("parse classifier output: %w", err)
	}

	return suggestions, nil
}

// stripFences 去掉模型常见的 ```json ... ``` 包裹.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	return strings.TrimSpace(s)
}

// removeDuplicate 硬删除重复文档，对象一并清理.
func (s *OrganizerService) removeDuplicate(ctx context.Context, doc *model.Document, duplicateOf string) error {
	if err := s.dbc.WithContext(ctx).Delete(&model.Document{}, "id = ?", doc.ID).Error; err != nil {
		return fmt.Errorf("delete duplicate: %w", err)
	}

	if s.store != nil && doc.ObjectKey != "" {
		if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
			dlog.Logger().Warn().Err(err).Str("object_key", doc.ObjectKey).Msg("对象删除失败")
		}
	}

	dlog.Logger().Info().Str("id", doc.ID).Str("duplicate_of", duplicateOf).Msg("重复文档已删除")

	publishEvent(ctx, s.mqc, queue.TopicDocumentDeleted, func() error {
		return queue.PublishDocumentDeleted(s.mqc, queue.DocumentDeletedPayload{
			Document: queue.DocumentRef{ID: doc.ID, ObjectKey: doc.ObjectKey},
			Reason:   "organizer",
		})
	})

	return nil
}

// applyCorrection 按建议重写分类编码. 空字段保留原值，备注永远不丢.
func (s *OrganizerService) applyCorrection(ctx context.Context, doc *model.Document, cor types.OrganizerCorrection) error {
	entry, ok := taxonomy.Decode(doc.Description)
	if !ok {
		entry = taxonomy.Entry{Category: doc.DocType, Brand: doc.Brand}
	}

	if cor.Category != "" {
		entry.Category = cor.Category
	}

	if cor.Brand != "" {
		entry.Brand = cor.Brand
	}

	updates := map[string]any{
		"description": taxonomy.Encode(entry.Category, entry.Brand, entry.Notes),
		"brand":       entry.Brand,
	}

	if err := s.dbc.WithContext(ctx).Model(&model.Document{}).
		Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("apply correction: %w", err)
	}

	return nil
}

func (s *OrganizerService) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, treeCacheKey); err != nil {
		dlog.Logger().Debug().Err(err).Msg("目录树缓存失效失败")
	}
}

func (s *OrganizerService) publishCompleted(ctx context.Context, summary *types.OrganizerSummary, status string, elapsed time.Duration, runErr error) {
	payload := queue.OrganizerCompletedPayload{
		Status:    status,
		ElapsedMS: elapsed.Milliseconds(),
	}

	if summary != nil {
		payload.Scanned = summary.Analyzed
		payload.Corrected = summary.Updated
		payload.Duplicates = summary.DuplicatesRemoved
		payload.Failed = summary.Failed
	}

	if runErr != nil {
		payload.ErrorDetail = runErr.Error()
	}

	publishEvent(ctx, s.mqc, queue.TopicOrganizerCompleted, func() error {
		return queue.PublishOrganizerCompleted(s.mqc, payload)
	})
}
