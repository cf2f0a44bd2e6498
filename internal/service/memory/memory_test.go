package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/agentxhq/agentx/internal/model"
)

type mockChatRepo struct {
	messages map[string][]*model.ChatMessage
	calls    int
}

func (m *mockChatRepo) CreateSession(s *model.ChatSession) error                 { return nil }
func (m *mockChatRepo) GetSessionByID(id string) (*model.ChatSession, error)     { return nil, nil }
func (m *mockChatRepo) ListSessions(u, a string) ([]*model.ChatSession, error)   { return nil, nil }
func (m *mockChatRepo) UpdateSession(s *model.ChatSession) error                 { return nil }
func (m *mockChatRepo) DeleteSession(id string) error                            { return nil }
func (m *mockChatRepo) CreateMessage(msg *model.ChatMessage) error               { return nil }
func (m *mockChatRepo) GetMessagesBySessionID(id string) ([]*model.ChatMessage, error) {
	return m.messages[id], nil
}
func (m *mockChatRepo) GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error) {
	m.calls++
	msgs := m.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func TestRecent_NoCacheFallsBackToDatabase(t *testing.T) {
	repo := &mockChatRepo{messages: map[string][]*model.ChatMessage{
		"sess-1": {
			{SessionID: "sess-1", Role: model.RoleHuman, Content: "Tell me about France."},
			{SessionID: "sess-1", Role: model.RoleAI, Content: "France is a country in Europe."},
		},
	}}
	mgr := NewManager(repo, nil, 20)

	turns, err := mgr.Recent(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("Recent() returned %d turns, want 2", len(turns))
	}
	if turns[0].Role != model.RoleHuman || turns[0].Content != "Tell me about France." {
		t.Errorf("first turn = %+v", turns[0])
	}
	if turns[1].Role != model.RoleAI {
		t.Errorf("second turn role = %q, want ai", turns[1].Role)
	}
	if repo.calls != 1 {
		t.Errorf("database hit %d times, want 1", repo.calls)
	}
}

func TestRecent_BoundedByMaxTurns(t *testing.T) {
	var msgs []*model.ChatMessage
	for i := 0; i < 30; i++ {
		msgs = append(msgs, &model.ChatMessage{
			SessionID: "sess-1",
			Role:      model.RoleHuman,
			Content:   fmt.Sprintf("message %d", i),
		})
	}
	repo := &mockChatRepo{messages: map[string][]*model.ChatMessage{"sess-1": msgs}}
	mgr := NewManager(repo, nil, 10)

	turns, err := mgr.Recent(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 10 {
		t.Fatalf("Recent() returned %d turns, want 10", len(turns))
	}
	// 保留的是最近的消息
	if turns[0].Content != "message 20" {
		t.Errorf("oldest kept turn = %q, want message 20", turns[0].Content)
	}
	if turns[9].Content != "message 29" {
		t.Errorf("newest turn = %q, want message 29", turns[9].Content)
	}
}

func TestRecent_EmptySession(t *testing.T) {
	repo := &mockChatRepo{messages: map[string][]*model.ChatMessage{}}
	mgr := NewManager(repo, nil, 20)

	turns, err := mgr.Recent(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Recent() returned %d turns, want 0", len(turns))
	}
}

func TestAppendAndClear_NoRedisAreNoOps(t *testing.T) {
	repo := &mockChatRepo{messages: map[string][]*model.ChatMessage{}}
	mgr := NewManager(repo, nil, 20)

	// 没有缓存层时追加与清除都直接返回，不触碰数据库
	mgr.Append(context.Background(), "sess-1")
	mgr.Clear(context.Background(), "sess-1")
	if repo.calls != 0 {
		t.Errorf("no-op paths hit the database %d times", repo.calls)
	}
}
