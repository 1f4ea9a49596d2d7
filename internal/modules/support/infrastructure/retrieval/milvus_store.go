package retrieval

import (
	"errors"
	"fmt"
	"strings"

	"context"

	mclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// ChunkItem 知识库片段（写入）
type ChunkItem struct {
	ID         string
	Vector     []float32
	SourceFile string
	ChunkID    int64
	Content    string
}

// ChunkHit 检索命中
type ChunkHit struct {
	ID         string
	Score      float32
	SourceFile string
	ChunkID    int64
	Content    string
}

// ManualStore 产品手册向量库（Milvus SDK 底层封装）
type ManualStore struct {
	cli         mclient.Client
	collection  string
	vectorField string
	metricType  entity.MetricType
	vectorDim   int
	searchParam entity.SearchParam
}

func NewManualStore(cli mclient.Client, collection string, vectorDim int, metricType entity.MetricType) (*ManualStore, error) {
	if cli == nil {
		return nil, errors.New("milvus client is nil")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, errors.New("collection is empty")
	}
	if vectorDim <= 0 {
		return nil, fmt.Errorf("invalid vectorDim: %d", vectorDim)
	}
	sp, err := entity.NewIndexAUTOINDEXSearchParam(1)
	if err != nil {
		return nil, err
	}
	return &ManualStore{
		cli:         cli,
		collection:  collection,
		vectorField: "vector",
		metricType:  metricType,
		vectorDim:   vectorDim,
		searchParam: sp,
	}, nil
}

// Upsert 批量写入片段（同 ID 覆盖，重复入库幂等）
func (s *ManualStore) Upsert(ctx context.Context, items []ChunkItem) ([]string, error) {
	if len(items) == 0 {
		return []string{}, nil
	}

	ids := make([]string, 0, len(items))
	vectors := make([][]float32, 0, len(items))
	sourceFiles := make([]string, 0, len(items))
	chunkIDs := make([]int64, 0, len(items))
	contents := make([]string, 0, len(items))

	for _, it := range items {
		if it.ID == "" {
			return nil, errors.New("upsert item missing ID")
		}
		if len(it.Vector) != s.vectorDim {
			return nil, fmt.Errorf("vector dim mismatch for id=%s, got=%d want=%d", it.ID, len(it.Vector), s.vectorDim)
		}
		ids = append(ids, it.ID)
		vectors = append(vectors, it.Vector)
		sourceFiles = append(sourceFiles, it.SourceFile)
		chunkIDs = append(chunkIDs, it.ChunkID)
		contents = append(contents, it.Content)
	}

	_, err := s.cli.Upsert(
		ctx,
		s.collection,
		"",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector(s.vectorField, s.vectorDim, vectors),
		entity.NewColumnVarChar("source_file", sourceFiles),
		entity.NewColumnInt64("chunk_id", chunkIDs),
		entity.NewColumnVarChar("content", contents),
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Search 向量检索 topK 片段
func (s *ManualStore) Search(ctx context.Context, vector []float32, topK int) ([]ChunkHit, error) {
	if len(vector) != s.vectorDim {
		return nil, fmt.Errorf("vector dim mismatch, got=%d want=%d", len(vector), s.vectorDim)
	}
	if topK <= 0 {
		topK = 5
	}

	res, err := s.cli.Search(
		ctx,
		s.collection,
		[]string{},
		"",
		[]string{"source_file", "chunk_id", "content"},
		[]entity.Vector{entity.FloatVector(vector)},
		s.vectorField,
		s.metricType,
		topK,
		s.searchParam,
	)
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return []ChunkHit{}, nil
	}
	return parseSearchResult(res[0])
}

func parseSearchResult(sr mclient.SearchResult) ([]ChunkHit, error) {
	if sr.Err != nil {
		return nil, sr.Err
	}

	hits := make([]ChunkHit, 0, sr.ResultCount)
	sourceCol := columnByName(sr.Fields, "source_file")
	chunkIDCol := columnByName(sr.Fields, "chunk_id")
	contentCol := columnByName(sr.Fields, "content")

	for i := 0; i < sr.ResultCount; i++ {
		id, _ := sr.IDs.GetAsString(i)
		h := ChunkHit{ID: id}
		if i < len(sr.Scores) {
			h.Score = sr.Scores[i]
		}
		if sourceCol != nil {
			v, _ := sourceCol.GetAsString(i)
			h.SourceFile = v
		}
		if chunkIDCol != nil {
			v, _ := chunkIDCol.GetAsInt64(i)
			h.ChunkID = v
		}
		if contentCol != nil {
			v, _ := contentCol.GetAsString(i)
			h.Content = v
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func columnByName(cols mclient.ResultSet, name string) entity.Column {
	for _, c := range cols {
		if c != nil && c.Name() == name {
			return c
		}
	}
	return nil
}
