package types

import "unicode/utf8"

// EstimateTokens 以字符数近似 token 数
// 约定每 4 个字符折算 1 个 token，空串为 0，非空至少为 1
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text) / 4
	if n < 1 {
		return 1
	}
	return n
}
