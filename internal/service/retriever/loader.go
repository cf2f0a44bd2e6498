package retriever

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/agentxhq/agentx/internal/service/types"
)

// LoadFile 读取索引文件的纯文本内容
// 支持 .pdf 与 .txt 两种格式
func LoadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path)
	case ".txt":
		return loadText(path)
	default:
		return "", types.Validationf("unsupported file type %q, only .pdf and .txt are accepted", filepath.Ext(path))
	}
}

// loadText 读取纯文本文件
func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.Internalf("failed to read file %q", filepath.Base(path))
	}
	return string(data), nil
}

// loadPDF 逐页提取 PDF 文本
func loadPDF(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", types.Internalf("failed to open file %q", filepath.Base(path))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", types.Internalf("failed to stat file %q", filepath.Base(path))
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", types.Validationf("failed to parse pdf %q", filepath.Base(path))
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// 单页解析失败不中断整份文档
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
