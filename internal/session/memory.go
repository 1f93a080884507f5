package session

import (
	"context"
	"sync"

	"github.com/snotra-ai/snotra-backend/internal/types"
)

// MemoryStore is the default single-process store. State is lost on
// restart, which matches the session-lifetime-only persistence model.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*types.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*types.Session)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*types.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		return &types.Session{}, nil
	}
	return copySession(sess), nil
}

func (s *MemoryStore) SetDocument(ctx context.Context, key string, doc *types.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &types.Session{}
		s.sessions[key] = sess
	}
	sess.Document = doc
	return nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, key string, turn types.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[key]
	if !ok {
		sess = &types.Session{}
		s.sessions[key] = sess
	}
	sess.History = append(sess.History, turn)
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

// copySession hands callers their own view so later mutations under the
// lock do not race with readers.
func copySession(in *types.Session) *types.Session {
	out := &types.Session{}
	if in.Document != nil {
		doc := *in.Document
		out.Document = &doc
	}
	if len(in.History) > 0 {
		out.History = make([]types.ConversationTurn, len(in.History))
		copy(out.History, in.History)
	}
	return out
}
