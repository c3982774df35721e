// Package ai 封装生成式分类器：把一批文档元数据交给 Gemini，换回分类修正建议.
//
// 模型输出是自由文本，这里只负责调用与熔断，严格的 JSON 解析留给上层整理
// 任务（解析失败按整批失败处理，不做部分应用）.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/yeisme/docvault/pkg/configs"
	dlog "github.com/yeisme/docvault/pkg/log"
)

// Classifier 生成分类修正建议. 入参是完整 prompt，返回模型原始文本.
type Classifier interface {
	GenerateCorrections(ctx context.Context, prompt string) (string, error)
}

// GeminiClassifier 基于 google genai 的实现，调用包在熔断器里.
// 分类器是系统里唯一的慢上游，熔断打开期间整理任务直接失败而不是排队等超时.
type GeminiClassifier struct {
	client *genai.Client
	model  string
	cb     *gobreaker.CircuitBreaker
}

// NewGeminiClassifier 创建 Gemini 分类器.
func NewGeminiClassifier(ctx context.Context) (*GeminiClassifier, error) {
	cfg := configs.GetConfig().AI

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	settings := gobreaker.Settings{
		Name:     "gemini-classifier",
		Interval: time.Duration(cfg.BreakerIntervalSeconds) * time.Second,
		Timeout:  time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.Requests
			if total < cfg.BreakerMinRequests {
				return false
			}
			// 失败比例
			failureRate := float64(counts.TotalFailures) / float64(total)
			return failureRate >= cfg.BreakerFailureRate
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			dlog.Logger().Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("分类器熔断状态变更")
		},
	}

	return &GeminiClassifier{
		client: client,
		model:  cfg.Model,
		cb:     gobreaker.NewCircuitBreaker(settings),
	}, nil
}

// GenerateCorrections 调用模型并返回原始文本输出.
func (g *GeminiClassifier) GenerateCorrections(ctx context.Context, prompt string) (string, error) {
	result, err := g.cb.Execute(func() (any, error) {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			return nil, fmt.Errorf("generate content: %w", err)
		}

		text := resp.Text()
		if text == "" {
			return nil, fmt.Errorf("empty model response")
		}

		return text, nil
	})
	if err != nil {
		return "", err
	}

	return result.(string), nil
}
