package memory

import (
	"sync"
	"time"

	"github.com/SaiNageswarS/course-rag/llm"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// sessionEntry serialises writers of one session. Sessions never share a lock.
type sessionEntry struct {
	mu      sync.Mutex
	conv    Conversation
	cleared bool
}

// ConversationManager keeps the last maxExchanges user/assistant pairs per session.
type ConversationManager struct {
	sessions     *cache.Cache
	maxExchanges int
}

// NewConversationManager creates a new conversation manager. A zero ttl keeps
// sessions until they are cleared.
func NewConversationManager(maxExchanges int, ttl time.Duration) *ConversationManager {
	cleanup := ttl
	if ttl <= 0 {
		ttl, cleanup = cache.NoExpiration, 0
	}
	return &ConversationManager{
		sessions:     cache.New(ttl, cleanup),
		maxExchanges: maxExchanges,
	}
}

// Create mints a new, empty session and returns its id.
func (cm *ConversationManager) Create() string {
	id := uuid.NewString()
	cm.sessions.SetDefault(id, &sessionEntry{conv: Conversation{ID: id}})
	return id
}

// History returns a copy of the session's messages, oldest first. Unknown or empty
// ids have no history.
func (cm *ConversationManager) History(sessionID string) []llm.Message {
	entry, ok := cm.lookup(sessionID)
	if !ok {
		return []llm.Message{}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return append([]llm.Message{}, entry.conv.Messages...)
}

// Append records one exchange and drops the oldest exchanges beyond the limit.
// Appending to an unknown id starts that session.
func (cm *ConversationManager) Append(sessionID, userMessage, assistantMessage string) {
	if sessionID == "" {
		return
	}

	for {
		entry := cm.getOrCreate(sessionID)
		entry.mu.Lock()
		if entry.cleared {
			// lost a race with Clear; the next lookup sees a fresh entry
			entry.mu.Unlock()
			continue
		}

		entry.conv.AddUserMessage(userMessage)
		entry.conv.AddAssistantMessage(assistantMessage)
		entry.conv.Messages = cm.trimForSession(entry.conv.Messages)
		cm.sessions.SetDefault(sessionID, entry)
		entry.mu.Unlock()
		return
	}
}

// Clear forgets the session. Clearing an unknown id is a no-op.
func (cm *ConversationManager) Clear(sessionID string) {
	entry, ok := cm.lookup(sessionID)
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.cleared = true
	entry.conv.Messages = nil
	cm.sessions.Delete(sessionID)
	entry.mu.Unlock()

	logger.Info("Cleared session", zap.String("sessionId", sessionID))
}

// MaxExchanges returns the number of exchanges kept per session.
func (cm *ConversationManager) MaxExchanges() int {
	return cm.maxExchanges
}

func (cm *ConversationManager) lookup(sessionID string) (*sessionEntry, bool) {
	if sessionID == "" {
		return nil, false
	}
	x, found := cm.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	return x.(*sessionEntry), true
}

func (cm *ConversationManager) getOrCreate(sessionID string) *sessionEntry {
	for {
		if entry, ok := cm.lookup(sessionID); ok {
			return entry
		}
		// Add fails when another writer created the entry first
		entry := &sessionEntry{conv: Conversation{ID: sessionID}}
		if err := cm.sessions.Add(sessionID, entry, cache.DefaultExpiration); err == nil {
			return entry
		}
	}
}

// trimForSession keeps the last maxExchanges user messages and everything after
// the oldest of them.
func (cm *ConversationManager) trimForSession(msgs []llm.Message) []llm.Message {
	if cm.maxExchanges <= 0 || len(msgs) == 0 {
		return []llm.Message{}
	}

	usersSeen := 0
	start := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			usersSeen++
			if usersSeen == cm.maxExchanges {
				start = i
				break
			}
		}
	}

	return append([]llm.Message{}, msgs[start:]...)
}
