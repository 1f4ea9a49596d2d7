package retrieval

import (
	"context"
	"strings"

	"AuraLink/internal/modules/support/domain/repository"
	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino/components/embedding"
	"go.uber.org/zap"
)

const defaultTopK = 5

// KnowledgeRetriever 产品手册知识检索器
//
// 任何失败（向量库未配置、向量化失败、检索失败）都降级为空上下文，
// 检索不可用时应答质量下降但对话不中断。
type KnowledgeRetriever struct {
	store    *ManualStore
	embedder embedding.Embedder
	topK     int
}

var _ repository.ContextRetriever = (*KnowledgeRetriever)(nil)

func NewKnowledgeRetriever(store *ManualStore, embedder embedding.Embedder) *KnowledgeRetriever {
	return &KnowledgeRetriever{store: store, embedder: embedder, topK: defaultTopK}
}

// Retrieve 向量检索相关片段，拼接为参考上下文
func (r *KnowledgeRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	if r.store == nil || r.embedder == nil {
		return "", nil
	}

	vecs, err := r.embedder.EmbedStrings(ctx, []string{query})
	if err != nil || len(vecs) == 0 {
		zlog.Error("query embedding failed", zap.Error(err))
		return "", nil
	}

	hits, err := r.store.Search(ctx, toFloat32(vecs[0]), r.topK)
	if err != nil {
		zlog.Error("knowledge search failed", zap.Error(err))
		return "", nil
	}

	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Content != "" {
			parts = append(parts, h.Content)
		}
	}

	zlog.Info("knowledge retrieved", zap.Int("docs", len(parts)))
	return strings.Join(parts, "\n\n"), nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
