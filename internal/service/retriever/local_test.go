package retriever

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// keywordEmbedder 按关键词出现次数构造确定性向量
// 让相似度检索在测试中可预测，不依赖外部推理接口
type keywordEmbedder struct{}

func (keywordEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	france := float64(strings.Count(text, "France") + strings.Count(text, "Paris"))
	germany := float64(strings.Count(text, "Germany") + strings.Count(text, "Berlin"))
	if france == 0 && germany == 0 {
		return []float32{0.7071, 0.7071}, nil
	}
	norm := math.Sqrt(france*france + germany*germany)
	return []float32{float32(france / norm), float32(germany / norm)}, nil
}

func (k keywordEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := k.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (keywordEmbedder) ModelID() string { return "keyword-test" }

func writeIndexFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewLocalStore_EmptyPath(t *testing.T) {
	_, err := NewLocalStore(context.Background(), keywordEmbedder{}, 3, "")
	if !errors.Is(err, ErrNoIndexData) {
		t.Fatalf("NewLocalStore() error = %v, want ErrNoIndexData", err)
	}
}

func TestNewLocalStore_EmptyFile(t *testing.T) {
	path := writeIndexFile(t, "   \n\t ")
	_, err := NewLocalStore(context.Background(), keywordEmbedder{}, 3, path)
	if !errors.Is(err, ErrNoIndexData) {
		t.Fatalf("NewLocalStore() error = %v, want ErrNoIndexData", err)
	}
}

func TestLocalStore_GetRelevant(t *testing.T) {
	path := writeIndexFile(t, "Paris is the capital and largest city of France.")

	store, err := NewLocalStore(context.Background(), keywordEmbedder{}, 3, path)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	docs, err := store.GetRelevant(context.Background(), "What is the capital of France?")
	if err != nil {
		t.Fatalf("GetRelevant() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("GetRelevant() returned %d docs, want 1", len(docs))
	}
	if !strings.Contains(docs[0].Content, "Paris") {
		t.Errorf("doc content = %q", docs[0].Content)
	}
}

func TestLocalStore_TopKClampedToCollectionSize(t *testing.T) {
	path := writeIndexFile(t, "Berlin is the capital of Germany.")

	// topK 大于分块数时只返回现有分块，不报错
	store, err := NewLocalStore(context.Background(), keywordEmbedder{}, 10, path)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	docs, err := store.GetRelevant(context.Background(), "Where is Berlin?")
	if err != nil {
		t.Fatalf("GetRelevant() error = %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("GetRelevant() returned %d docs, want 1", len(docs))
	}
}

func TestLocalStore_RanksRelevantChunkFirst(t *testing.T) {
	// 两段主题不同的长文本，切分后各自成块
	paris := strings.Repeat("Paris is the capital of France. The city of Paris sits on the Seine in northern France. ", 8)
	berlin := strings.Repeat("Berlin is the capital of Germany. The city of Berlin lies on the Spree in eastern Germany. ", 8)
	path := writeIndexFile(t, paris+berlin)

	store, err := NewLocalStore(context.Background(), keywordEmbedder{}, 1, path)
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	docs, err := store.GetRelevant(context.Background(), "Tell me about Germany and Berlin.")
	if err != nil {
		t.Fatalf("GetRelevant() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("GetRelevant() returned %d docs, want 1", len(docs))
	}
	if !strings.Contains(docs[0].Content, "Berlin") || strings.Contains(docs[0].Content, "Paris") {
		t.Errorf("top doc should be the pure Berlin chunk, got %q", docs[0].Content)
	}
}
