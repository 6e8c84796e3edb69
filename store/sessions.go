package store

import (
	"context"
	"sync"
	"time"

	"shortform-studio/types"
)

// SessionStore persists workflow sessions between user turns. Load creates a
// fresh session when the id is unknown, so the first turn of a conversation
// needs no special casing.
type SessionStore interface {
	Load(ctx context.Context, id string) (*types.WorkflowSession, error)
	Save(ctx context.Context, sess *types.WorkflowSession) error
}

func newSession(id string) *types.WorkflowSession {
	now := time.Now().UTC()
	return &types.WorkflowSession{
		ID:        id,
		Stage:     types.StageThemeDefinition,
		Artifacts: types.Artifacts{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MemoryStore keeps sessions in process memory. Good enough for a single
// interactive chat process; use the redis store when turns may arrive from
// different processes.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*types.WorkflowSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*types.WorkflowSession)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*types.WorkflowSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		return sess, nil
	}
	sess := newSession(id)
	m.sessions[id] = sess
	return sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess *types.WorkflowSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess.UpdatedAt = time.Now().UTC()
	m.sessions[sess.ID] = sess
	return nil
}
