package embedding

import (
	"context"
	"hash/fnv"

	"github.com/cloudwego/eino/components/embedding"
)

// MockEmbedder 确定性伪向量化器（本地开发与测试用）
//
// 同一文本恒得同一向量，不同文本大概率得不同向量，无外部依赖。
type MockEmbedder struct {
	Dim int
}

var _ embedding.Embedder = (*MockEmbedder)(nil)

func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = 8
	}
	return &MockEmbedder{Dim: dim}
}

func (m *MockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	result := make([][]float64, len(texts))
	for i, text := range texts {
		h := fnv.New64a()
		_, _ = h.Write([]byte(text))
		seed := h.Sum64()

		vec := make([]float64, m.Dim)
		for j := range vec {
			seed = seed*6364136223846793005 + 1442695040888963407
			vec[j] = float64(int64(seed>>32))/float64(1<<31)*0.5 + 0.5
		}
		result[i] = vec
	}
	return result, nil
}
