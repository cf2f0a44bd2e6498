package query

import (
	"strings"
	"testing"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/service/types"
)

func TestBuildPrompt(t *testing.T) {
	template := "You are a helpful assistant."

	prompt := BuildPrompt(template, nil, "Paris is the capital of France.", "What is the capital of France?")

	if !strings.HasPrefix(prompt, template) {
		t.Errorf("prompt should start with the agent template")
	}
	if !strings.Contains(prompt, "Context: Paris is the capital of France.") {
		t.Errorf("prompt missing rendered context: %q", prompt)
	}
	if !strings.Contains(prompt, "Question: What is the capital of France?") {
		t.Errorf("prompt missing rendered question: %q", prompt)
	}
	if !strings.Contains(prompt, "Answer: ") {
		t.Errorf("prompt missing answer framing: %q", prompt)
	}
	if strings.Contains(prompt, "{context}") || strings.Contains(prompt, "{question}") {
		t.Errorf("prompt contains unrendered placeholders: %q", prompt)
	}
}

func TestBuildPrompt_WithHistory(t *testing.T) {
	history := []types.MemoryTurn{
		{Role: model.RoleHuman, Content: "Hello"},
		{Role: model.RoleAI, Content: "Hi, how can I help?"},
	}

	prompt := BuildPrompt("Template.", history, "ctx", "q")

	if !strings.Contains(prompt, "Chat History:") {
		t.Fatalf("prompt missing history block: %q", prompt)
	}
	if !strings.Contains(prompt, "Human: Hello") {
		t.Errorf("prompt missing human turn: %q", prompt)
	}
	if !strings.Contains(prompt, "AI: Hi, how can I help?") {
		t.Errorf("prompt missing ai turn: %q", prompt)
	}

	// 历史在模板之后、上下文之前
	historyIdx := strings.Index(prompt, "Chat History:")
	contextIdx := strings.Index(prompt, "Context: ctx")
	if historyIdx > contextIdx {
		t.Errorf("history block should come before the context")
	}
}

func TestBuildPrompt_NoHistoryBlockWhenEmpty(t *testing.T) {
	prompt := BuildPrompt("Template.", nil, "ctx", "q")
	if strings.Contains(prompt, "Chat History:") {
		t.Errorf("empty history should not render a history block: %q", prompt)
	}
}

func TestBuildPrompt_PlaceholdersInTemplate(t *testing.T) {
	template := "Answer using {context} for {question}."
	prompt := BuildPrompt(template, nil, "CTX", "QST")

	if !strings.Contains(prompt, "Answer using CTX for QST.") {
		t.Errorf("template placeholders should be rendered: %q", prompt)
	}
}
