package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"AuraLink/pkg/zlog"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const (
	chunkSize      = 450
	chunkOverlap   = 50
	embedBatchSize = 16
)

// manualExtensions 手册目录中可入库的文件类型
var manualExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// ManualIngester 产品手册入库器：读取手册目录、切片、向量化、写入向量库
type ManualIngester struct {
	store    *ManualStore
	embedder embedding.Embedder

	splitOnce sync.Once
	splitErr  error
	splitter  document.Transformer
}

func NewManualIngester(store *ManualStore, embedder embedding.Embedder) *ManualIngester {
	return &ManualIngester{store: store, embedder: embedder}
}

// IngestStats 入库结果统计
type IngestStats struct {
	Files  int `json:"files"`
	Chunks int `json:"chunks"`
}

// IngestDir 扫描目录并入库全部手册；单个文件失败跳过不中断
func (ing *ManualIngester) IngestDir(ctx context.Context, dir string) (*IngestStats, error) {
	if ing.store == nil || ing.embedder == nil {
		return nil, fmt.Errorf("ingester not configured")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read manuals dir: %w", err)
	}

	stats := &IngestStats{}
	for _, e := range entries {
		if e.IsDir() || !manualExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		n, err := ing.ingestFile(ctx, filepath.Join(dir, e.Name()))
		if err != nil {
			zlog.Error("manual ingest failed, skipped", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		stats.Files++
		stats.Chunks += n
		zlog.Info("manual loaded", zap.String("file", e.Name()), zap.Int("chunks", n))
	}

	if stats.Files == 0 {
		zlog.Warn("no manuals found", zap.String("dir", dir))
	}
	return stats, nil
}

func (ing *ManualIngester) ingestFile(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	chunks, err := ing.split(ctx, string(raw))
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	name := filepath.Base(path)
	items := make([]ChunkItem, 0, len(chunks))
	for i, content := range chunks {
		items = append(items, ChunkItem{
			ID:         fmt.Sprintf("%s_%d", name, i),
			SourceFile: name,
			ChunkID:    int64(i),
			Content:    content,
		})
	}

	// 分批向量化，避免单次请求过大
	for start := 0; start < len(items); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(items) {
			end = len(items)
		}
		texts := make([]string, 0, end-start)
		for _, it := range items[start:end] {
			texts = append(texts, it.Content)
		}
		vecs, err := ing.embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return 0, err
		}
		for i, v := range vecs {
			items[start+i].Vector = toFloat32(v)
		}
	}

	if _, err := ing.store.Upsert(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (ing *ManualIngester) split(ctx context.Context, text string) ([]string, error) {
	ing.splitOnce.Do(func() {
		impl, err := recursive.NewSplitter(ctx, &recursive.Config{
			ChunkSize:   chunkSize,
			OverlapSize: chunkOverlap,
			Separators:  []string{"\n\n", "\n", ". ", " "},
			LenFunc: func(s string) int {
				return len([]rune(s))
			},
			KeepType: recursive.KeepTypeEnd,
		})
		if err != nil {
			ing.splitErr = err
			return
		}
		ing.splitter = impl
	})
	if ing.splitErr != nil {
		return nil, ing.splitErr
	}

	frags, err := ing.splitter.Transform(ctx, []*schema.Document{{Content: text}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		if f != nil && strings.TrimSpace(f.Content) != "" {
			out = append(out, f.Content)
		}
	}
	return out, nil
}
