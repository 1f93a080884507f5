package session

import (
	"context"
	"errors"

	"github.com/snotra-ai/snotra-backend/internal/types"
)

// ErrNoDocument is returned when an operation needs an active document and
// the session has none.
var ErrNoDocument = errors.New("no document uploaded")

// Store keeps per-session state behind an opaque key. Implementations must
// serialize mutations for the same key: chat history order has to reflect
// real invocation order, and Clear drops the document and the history
// together or not at all.
type Store interface {
	// Get returns the session for key, empty (never nil) if absent.
	Get(ctx context.Context, key string) (*types.Session, error)
	// SetDocument replaces the active document wholesale.
	SetDocument(ctx context.Context, key string, doc *types.Document) error
	// AppendTurn appends at the tail, preserving insertion order.
	AppendTurn(ctx context.Context, key string, turn types.ConversationTurn) error
	// Clear removes the document and history atomically.
	Clear(ctx context.Context, key string) error
}
