package repository

import (
	"github.com/agentxhq/agentx/internal/model"
	"gorm.io/gorm"
)

// chatRepositoryImpl 聊天数据访问
type chatRepositoryImpl struct {
	db *gorm.DB
}

// NewChatRepository 创建聊天仓库
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepositoryImpl{db: db}
}

// CreateSession 创建会话
func (r *chatRepositoryImpl) CreateSession(session *model.ChatSession) error {
	return r.db.Create(session).Error
}

// GetSessionByID 获取会话
func (r *chatRepositoryImpl) GetSessionByID(id string) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions 列出会话，agentID 为空时列出用户全部会话
func (r *chatRepositoryImpl) ListSessions(userID, agentID string) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// UpdateSession 更新会话
func (r *chatRepositoryImpl) UpdateSession(session *model.ChatSession) error {
	return r.db.Save(session).Error
}

// DeleteSession 删除会话及其全部消息
func (r *chatRepositoryImpl) DeleteSession(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "session_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatSession{}, "id = ?", id).Error
	})
}

// CreateMessage 创建消息
func (r *chatRepositoryImpl) CreateMessage(msg *model.ChatMessage) error {
	return r.db.Create(msg).Error
}

// GetMessagesBySessionID 获取会话消息，按时间升序
func (r *chatRepositoryImpl) GetMessagesBySessionID(sessionID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// GetRecentMessagesBySession 获取会话最近的 N 条消息，按时间升序返回
func (r *chatRepositoryImpl) GetRecentMessagesBySession(sessionID string, limit int) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// 倒序取最近 N 条后翻转回时间顺序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

var _ ChatRepository = (*chatRepositoryImpl)(nil)
