package retriever

import (
	"strings"
)

const (
	// DefaultChunkSize 单个分块的最大字符数
	DefaultChunkSize = 1000
	// DefaultChunkOverlap 相邻分块的重叠字符数
	DefaultChunkOverlap = 150
)

// Splitter 将长文本切分为带重叠的分块
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewSplitter 创建默认参数的分块器
func NewSplitter() *Splitter {
	return &Splitter{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// Split 按字符数切分文本，优先在空白处断开
// 压缩连续空白，跳过空分块
func (s *Splitter) Split(text string) []string {
	text = normalizeWhitespace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.ChunkSize {
		return []string{text}
	}

	step := s.ChunkSize - s.ChunkOverlap
	if step <= 0 {
		step = s.ChunkSize
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		// 未到文末时回退到最近的空白，避免截断单词
		cut := end
		if end < len(runes) {
			for i := end; i > start+step/2; i-- {
				if runes[i-1] == ' ' {
					cut = i
					break
				}
			}
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}
	}
	return chunks
}

// normalizeWhitespace 将所有连续空白折叠为单个空格
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
