package query

import (
	"strings"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/service/types"
)

// promptTrailer 固定附加在智能体模板之后
// 约束模型只依据上下文作答，并给出 Question/Answer 框架供后续抽取
const promptTrailer = `
If you didn't find the answer then simply return false
Use only the context for your answers, do not make up information
Context: {context}
Question: {question}
Answer: `

// BuildPrompt 渲染完整提示词
// 智能体模板与固定尾部拼接后替换 {context}/{question} 占位符
// 历史对话以角色前缀逐行插入在模板与尾部之间
func BuildPrompt(template string, history []types.MemoryTurn, contextText, question string) string {
	var sb strings.Builder
	sb.WriteString(template)

	if len(history) > 0 {
		sb.WriteString("\nChat History:\n")
		for _, turn := range history {
			switch turn.Role {
			case model.RoleHuman:
				sb.WriteString("Human: ")
			case model.RoleAI:
				sb.WriteString("AI: ")
			}
			sb.WriteString(turn.Content)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(promptTrailer)

	prompt := sb.String()
	prompt = strings.ReplaceAll(prompt, "{context}", contextText)
	prompt = strings.ReplaceAll(prompt, "{question}", question)
	return prompt
}
