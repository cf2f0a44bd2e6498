package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

type mockChatRepo struct {
	sessions map[string]*model.ChatSession
	messages map[string][]*model.ChatMessage
}

func newMockChatRepo() *mockChatRepo {
	return &mockChatRepo{
		sessions: make(map[string]*model.ChatSession),
		messages: make(map[string][]*model.ChatMessage),
	}
}

func (m *mockChatRepo) CreateSession(s *model.ChatSession) error { m.sessions[s.ID] = s; return nil }
func (m *mockChatRepo) GetSessionByID(id string) (*model.ChatSession, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, errors.New("record not found")
}
func (m *mockChatRepo) ListSessions(userID, agentID string) ([]*model.ChatSession, error) {
	var out []*model.ChatSession
	for _, s := range m.sessions {
		if s.UserID == userID && (agentID == "" || s.AgentID == agentID) {
			out = append(out, s)
		}
	}
	return out, nil
}
func (m *mockChatRepo) UpdateSession(s *model.ChatSession) error { m.sessions[s.ID] = s; return nil }
func (m *mockChatRepo) DeleteSession(id string) error {
	delete(m.sessions, id)
	delete(m.messages, id)
	return nil
}
func (m *mockChatRepo) CreateMessage(msg *model.ChatMessage) error {
	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], msg)
	return nil
}
func (m *mockChatRepo) GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error) {
	return m.messages[sessionID], nil
}
func (m *mockChatRepo) GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error) {
	msgs := m.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func newTestService() (*Service, *mockChatRepo) {
	repo := newMockChatRepo()
	return NewService(&repository.Repositories{Chat: repo}), repo
}

func TestSessionTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "short message kept as is",
			message: "What is the capital of France?",
			want:    "What is the capital of France?",
		},
		{
			name:    "empty message gets default title",
			message: "",
			want:    "New Chat",
		},
		{
			name:    "whitespace only gets default title",
			message: "   \n\t ",
			want:    "New Chat",
		},
		{
			name:    "long message truncated with ellipsis",
			message: strings.Repeat("a", 60),
			want:    strings.Repeat("a", 50) + "...",
		},
		{
			name:    "exactly fifty characters not truncated",
			message: strings.Repeat("b", 50),
			want:    strings.Repeat("b", 50),
		},
		{
			name:    "multibyte runes counted as characters",
			message: strings.Repeat("好", 60),
			want:    strings.Repeat("好", 50) + "...",
		},
		{
			name:    "surrounding whitespace trimmed",
			message: "  hello  ",
			want:    "hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionTitle(tt.message); got != tt.want {
				t.Errorf("SessionTitle(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	svc, repo := newTestService()

	session, err := svc.CreateSession(context.Background(), "user-1", "agent-1", "Tell me about France.")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.ID == "" {
		t.Errorf("session should get a generated id")
	}
	if session.Title != "Tell me about France." {
		t.Errorf("Title = %q", session.Title)
	}
	if _, ok := repo.sessions[session.ID]; !ok {
		t.Errorf("session was not persisted")
	}
}

func TestGetSession_Ownership(t *testing.T) {
	svc, repo := newTestService()
	repo.sessions["sess-1"] = &model.ChatSession{ID: "sess-1", UserID: "user-1"}

	if _, err := svc.GetSession(context.Background(), "user-1", "sess-1"); err != nil {
		t.Errorf("owner access failed: %v", err)
	}

	_, err := svc.GetSession(context.Background(), "user-2", "sess-1")
	if !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("foreign access error = %v, want access denied", err)
	}

	_, err = svc.GetSession(context.Background(), "user-1", "missing")
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("missing session error = %v, want not found", err)
	}
}

func TestAppendTurn_TokenAccounting(t *testing.T) {
	svc, repo := newTestService()

	session, err := svc.CreateSession(context.Background(), "user-1", "agent-1", "hi")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	question := "What is the capital of France?"
	answer := "The capital of France is Paris."

	humanMsg, err := svc.AppendTurn(context.Background(), session, model.RoleHuman, question)
	if err != nil {
		t.Fatalf("AppendTurn(human) error = %v", err)
	}
	aiMsg, err := svc.AppendTurn(context.Background(), session, model.RoleAI, answer)
	if err != nil {
		t.Fatalf("AppendTurn(ai) error = %v", err)
	}

	wantIn := types.EstimateTokens(question)
	wantOut := types.EstimateTokens(answer)

	if humanMsg.TokenCount != wantIn {
		t.Errorf("human TokenCount = %d, want %d", humanMsg.TokenCount, wantIn)
	}
	if aiMsg.TokenCount != wantOut {
		t.Errorf("ai TokenCount = %d, want %d", aiMsg.TokenCount, wantOut)
	}

	// human 计入输入侧，ai 计入输出侧
	stored := repo.sessions[session.ID]
	if stored.TokensIn != wantIn {
		t.Errorf("session TokensIn = %d, want %d", stored.TokensIn, wantIn)
	}
	if stored.TokensOut != wantOut {
		t.Errorf("session TokensOut = %d, want %d", stored.TokensOut, wantOut)
	}

	if got := len(repo.messages[session.ID]); got != 2 {
		t.Errorf("persisted %d messages, want 2", got)
	}
}

func TestAppendTurn_Accumulates(t *testing.T) {
	svc, repo := newTestService()

	session, _ := svc.CreateSession(context.Background(), "user-1", "agent-1", "hi")

	for i := 0; i < 3; i++ {
		if _, err := svc.AppendTurn(context.Background(), session, model.RoleHuman, "four char groups here"); err != nil {
			t.Fatalf("AppendTurn() error = %v", err)
		}
	}

	want := 3 * types.EstimateTokens("four char groups here")
	if got := repo.sessions[session.ID].TokensIn; got != want {
		t.Errorf("TokensIn = %d, want %d", got, want)
	}
}

func TestDeleteSession_ChecksOwnership(t *testing.T) {
	svc, repo := newTestService()
	repo.sessions["sess-1"] = &model.ChatSession{ID: "sess-1", UserID: "user-1"}

	if err := svc.DeleteSession(context.Background(), "user-2", "sess-1"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("DeleteSession() error = %v, want access denied", err)
	}
	if err := svc.DeleteSession(context.Background(), "user-1", "sess-1"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, ok := repo.sessions["sess-1"]; ok {
		t.Errorf("session was not deleted")
	}
}

func TestListTurns(t *testing.T) {
	svc, repo := newTestService()
	repo.sessions["sess-1"] = &model.ChatSession{ID: "sess-1", UserID: "user-1"}
	repo.messages["sess-1"] = []*model.ChatMessage{
		{SessionID: "sess-1", Role: model.RoleHuman, Content: "q"},
		{SessionID: "sess-1", Role: model.RoleAI, Content: "a"},
	}

	msgs, err := svc.ListTurns(context.Background(), "user-1", "sess-1")
	if err != nil {
		t.Fatalf("ListTurns() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("ListTurns() returned %d messages, want 2", len(msgs))
	}

	if _, err := svc.ListTurns(context.Background(), "user-2", "sess-1"); !errors.Is(err, types.ErrAccessDenied) {
		t.Errorf("foreign ListTurns error = %v, want access denied", err)
	}
}
