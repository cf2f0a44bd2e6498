// Package chat 提供会话与消息的持久化管理
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agentxhq/agentx/internal/model"
	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

// titleMaxLen 会话标题截取的最大字符数
const titleMaxLen = 50

// Service 聊天历史服务
type Service struct {
	repo *repository.Repositories
}

// NewService 创建聊天历史服务
func NewService(repo *repository.Repositories) *Service {
	return &Service{repo: repo}
}

// SessionTitle 从首条消息生成会话标题
// 超出 50 个字符时截断并追加省略号，空消息用默认标题
func SessionTitle(firstMessage string) string {
	firstMessage = strings.TrimSpace(firstMessage)
	if firstMessage == "" {
		return "New Chat"
	}
	runes := []rune(firstMessage)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen]) + "..."
	}
	return firstMessage
}

// CreateSession 创建会话
func (s *Service) CreateSession(ctx context.Context, userID, agentID, firstMessage string) (*model.ChatSession, error) {
	session := &model.ChatSession{
		ID:      uuid.New().String(),
		UserID:  userID,
		AgentID: agentID,
		Title:   SessionTitle(firstMessage),
	}
	if err := s.repo.Chat.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return session, nil
}

// GetSession 获取会话，校验归属
func (s *Service) GetSession(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	session, err := s.repo.Chat.GetSessionByID(sessionID)
	if err != nil || session == nil {
		return nil, types.NotFoundf("chat session %q not found", sessionID)
	}
	if session.UserID != userID {
		return nil, types.AccessDeniedf("chat session %q does not belong to current user", sessionID)
	}
	return session, nil
}

// ListSessions 列出用户在某个智能体下的会话
// agentID 为空时返回用户的全部会话
func (s *Service) ListSessions(ctx context.Context, userID, agentID string) ([]*model.ChatSession, error) {
	sessions, err := s.repo.Chat.ListSessions(userID, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession 删除会话及其消息
func (s *Service) DeleteSession(ctx context.Context, userID, sessionID string) error {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.repo.Chat.DeleteSession(sessionID); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

// AppendTurn 追加一条消息并累计会话 token 用量
// human 消息计入输入侧，ai 消息计入输出侧
func (s *Service) AppendTurn(ctx context.Context, session *model.ChatSession, role, content string) (*model.ChatMessage, error) {
	tokenCount := types.EstimateTokens(content)

	msg := &model.ChatMessage{
		ID:         uuid.New().String(),
		SessionID:  session.ID,
		Role:       role,
		Content:    content,
		TokenCount: tokenCount,
	}
	if err := s.repo.Chat.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("failed to save chat message: %w", err)
	}

	switch role {
	case model.RoleHuman:
		session.TokensIn += tokenCount
	case model.RoleAI:
		session.TokensOut += tokenCount
	}
	if err := s.repo.Chat.UpdateSession(session); err != nil {
		return nil, fmt.Errorf("failed to update session token usage: %w", err)
	}
	return msg, nil
}

// ListTurns 返回会话的全部消息，按时间升序
func (s *Service) ListTurns(ctx context.Context, userID, sessionID string) ([]*model.ChatMessage, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	messages, err := s.repo.Chat.GetMessagesBySessionID(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
