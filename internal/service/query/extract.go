package query

import (
	"log"
	"strings"
)

const (
	answerMarker = "Answer:"
	// noInfoSentinel 模型按提示词约定给出的"无法回答"固定句
	noInfoSentinel = "I do not have enough information to answer that."
	// noAnswerFallback 标记后为空且无固定句时的兜底回答
	noAnswerFallback = "No specific answer was generated."
)

// ExtractAnswer 从模型原始输出中抽取最终回答
// 取最后一个 "Answer:" 标记之后的文本；标记后为空时检查固定句，
// 完全没有标记时原样返回并记录告警
func ExtractAnswer(raw string) string {
	idx := strings.LastIndex(raw, answerMarker)
	if idx != -1 {
		answer := strings.TrimSpace(raw[idx+len(answerMarker):])
		if answer == "" {
			if strings.Contains(raw, noInfoSentinel) {
				return noInfoSentinel
			}
			return noAnswerFallback
		}
		return answer
	}

	if strings.Contains(raw, noInfoSentinel) {
		return noInfoSentinel
	}

	log.Printf("Warning: could not find %q in the raw model response, returning raw response", answerMarker)
	return raw
}
