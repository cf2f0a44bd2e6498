// Package memory 维护会话的有界对话记忆
// Redis 作为读穿缓存，未命中时从数据库重建
package memory

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agentxhq/agentx/internal/repository"
	"github.com/agentxhq/agentx/internal/service/types"
)

const (
	// 记忆在 Redis 中的过期时间（24小时）
	memoryTTL = 24 * time.Hour
	// Redis key 前缀
	memoryKeyPrefix = "memory:"
)

// Manager 对话记忆管理器
// 记忆始终限定为会话最近的 maxTurns 轮消息
type Manager struct {
	chatRepo repository.ChatRepository
	redis    *redis.Client
	maxTurns int
}

// NewManager 创建记忆管理器
// redisClient 可为 nil，此时每次都从数据库读取
func NewManager(chatRepo repository.ChatRepository, redisClient *redis.Client, maxTurns int) *Manager {
	return &Manager{
		chatRepo: chatRepo,
		redis:    redisClient,
		maxTurns: maxTurns,
	}
}

// Recent 返回会话最近的消息，按时间升序
// 优先读缓存，未命中时从数据库重建并回填
func (m *Manager) Recent(ctx context.Context, sessionID string) ([]types.MemoryTurn, error) {
	if m.redis != nil {
		if turns, ok := m.loadFromRedis(ctx, sessionID); ok {
			return turns, nil
		}
	}

	messages, err := m.chatRepo.GetRecentMessagesBySession(sessionID, m.maxTurns)
	if err != nil {
		return nil, types.Internalf("failed to load conversation memory")
	}

	turns := make([]types.MemoryTurn, 0, len(messages))
	for _, msg := range messages {
		turns = append(turns, types.MemoryTurn{Role: msg.Role, Content: msg.Content})
	}

	if m.redis != nil {
		m.saveToRedis(ctx, sessionID, turns)
	}
	return turns, nil
}

// Append 在缓存中追加新消息并维持轮数上限
// 数据库是事实来源，缓存写失败只告警不报错
func (m *Manager) Append(ctx context.Context, sessionID string, turns ...types.MemoryTurn) {
	if m.redis == nil {
		return
	}

	current, ok := m.loadFromRedis(ctx, sessionID)
	if !ok {
		// 缓存缺失时不在此处重建，下次 Recent 会走数据库
		return
	}

	current = append(current, turns...)
	if len(current) > m.maxTurns {
		current = current[len(current)-m.maxTurns:]
	}
	m.saveToRedis(ctx, sessionID, current)
}

// Clear 清除会话记忆缓存
func (m *Manager) Clear(ctx context.Context, sessionID string) {
	if m.redis == nil {
		return
	}
	if err := m.redis.Del(ctx, memoryKeyPrefix+sessionID).Err(); err != nil {
		log.Printf("Warning: failed to clear memory cache for session %s: %v", sessionID, err)
	}
}

// loadFromRedis 从缓存读取记忆
func (m *Manager) loadFromRedis(ctx context.Context, sessionID string) ([]types.MemoryTurn, bool) {
	data, err := m.redis.Get(ctx, memoryKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, false
	}

	var turns []types.MemoryTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, false
	}
	return turns, true
}

// saveToRedis 写回缓存
func (m *Manager) saveToRedis(ctx context.Context, sessionID string, turns []types.MemoryTurn) {
	data, err := json.Marshal(turns)
	if err != nil {
		return
	}
	if err := m.redis.Set(ctx, memoryKeyPrefix+sessionID, data, memoryTTL).Err(); err != nil {
		log.Printf("Warning: failed to save memory cache for session %s: %v", sessionID, err)
	}
}
