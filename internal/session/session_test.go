package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/snotra-ai/snotra-backend/internal/types"
)

func TestMemoryStoreAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.AppendTurn(ctx, "k", types.ConversationTurn{User: "A"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendTurn(ctx, "k", types.ConversationTurn{User: "B"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	sess, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(sess.History) != 2 || sess.History[0].User != "A" || sess.History[1].User != "B" {
		t.Fatalf("order broken: %#v", sess.History)
	}
}

func TestMemoryStoreGetMissingIsEmptyNotNil(t *testing.T) {
	sess, err := NewMemoryStore().Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if sess == nil || sess.Document != nil || len(sess.History) != 0 {
		t.Fatalf("want empty session, got %#v", sess)
	}
}

func TestMemoryStoreClearIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.SetDocument(ctx, "k", &types.Document{Name: "a.txt", ExtractedText: "text"})
	_ = s.AppendTurn(ctx, "k", types.ConversationTurn{User: "hi", Assistant: "hello"})

	if err := s.Clear(ctx, "k"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	sess, _ := s.Get(ctx, "k")
	if sess.Document != nil {
		t.Fatalf("document survived clear")
	}
	if len(sess.History) != 0 {
		t.Fatalf("history survived clear")
	}
}

func TestMemoryStoreReuploadReplacesDocument(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.SetDocument(ctx, "k", &types.Document{Name: "old.txt", ExtractedText: "old"})
	_ = s.SetDocument(ctx, "k", &types.Document{Name: "new.txt", ExtractedText: "new"})

	sess, _ := s.Get(ctx, "k")
	if sess.Document.Name != "new.txt" || sess.Document.ExtractedText != "new" {
		t.Fatalf("document not replaced: %#v", sess.Document)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.AppendTurn(ctx, "k", types.ConversationTurn{User: "original"})

	sess, _ := s.Get(ctx, "k")
	sess.History[0].User = "mutated"
	sess.Document = &types.Document{Name: "sneaky"}

	again, _ := s.Get(ctx, "k")
	if again.History[0].User != "original" || again.Document != nil {
		t.Fatalf("store leaked internal state: %#v", again)
	}
}

func TestMemoryStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.SetDocument(ctx, "alice", &types.Document{Name: "a.txt", ExtractedText: "a"})
	_ = s.AppendTurn(ctx, "bob", types.ConversationTurn{User: "hi"})

	alice, _ := s.Get(ctx, "alice")
	bob, _ := s.Get(ctx, "bob")
	if len(alice.History) != 0 || bob.Document != nil {
		t.Fatalf("sessions bleed into each other")
	}
}

func TestMemoryStoreConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.AppendTurn(ctx, "k", types.ConversationTurn{User: fmt.Sprintf("u%d", i)})
		}(i)
	}
	wg.Wait()

	sess, _ := s.Get(ctx, "k")
	if len(sess.History) != n {
		t.Fatalf("lost turns: want %d got %d", n, len(sess.History))
	}
}
