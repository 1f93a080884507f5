package prompts

import (
	"strings"
	"testing"

	"github.com/snotra-ai/snotra-backend/internal/types"
)

func TestTruncateIsPrefixCut(t *testing.T) {
	text := strings.Repeat("x", 20000)
	got := Truncate(text, SummaryBudget)
	if got != text[:SummaryBudget] {
		t.Fatalf("truncation must be an exact prefix cut")
	}
	if short := Truncate("short", SummaryBudget); short != "short" {
		t.Fatalf("under-budget text must pass through, got %q", short)
	}
}

func TestSummaryEmbedsExactPrefix(t *testing.T) {
	text := strings.Repeat("abcdefghij", 2000) // 20000 chars
	req := Summary(text)
	if !strings.Contains(req.User, text[:SummaryBudget]) {
		t.Fatalf("user content must embed the exact %d-char prefix", SummaryBudget)
	}
	if strings.Contains(req.User, text[:SummaryBudget+1]) {
		t.Fatalf("user content embeds more than the budget")
	}
	if req.MaxOutputTokens != SummaryMaxTokens {
		t.Fatalf("want %d max tokens, got %d", SummaryMaxTokens, req.MaxOutputTokens)
	}
}

func TestQuizDefaults(t *testing.T) {
	req := Quiz("doc text", 0, "")
	if !strings.Contains(req.User, "Create 10 medium difficulty") {
		t.Fatalf("defaults not applied: %q", req.User[:60])
	}
	if req.MaxOutputTokens != QuizMaxTokens {
		t.Fatalf("want %d max tokens, got %d", QuizMaxTokens, req.MaxOutputTokens)
	}
}

func TestQuizSystemCarriesSchemaContract(t *testing.T) {
	req := Quiz("doc", 5, "easy")
	for _, field := range []string{`"questions"`, `"options"`, `"correct_answer"`, `"explanation"`} {
		if !strings.Contains(req.System, field) {
			t.Fatalf("schema field %s missing from system instruction", field)
		}
	}
}

func TestMockTestSystemCarriesQuestionTypes(t *testing.T) {
	req := MockTest("doc")
	for _, typ := range []string{`"mcq"`, `"true_false"`, `"short_answer"`} {
		if !strings.Contains(req.System, typ) {
			t.Fatalf("question type %s missing from system instruction", typ)
		}
	}
}

func TestMindMapBudgetAndTokens(t *testing.T) {
	text := strings.Repeat("y", 13000)
	req := MindMap(text)
	if strings.Contains(req.User, text) {
		t.Fatalf("over-budget document embedded uncut")
	}
	if !strings.Contains(req.User, text[:MindMapBudget]) {
		t.Fatalf("prefix not embedded")
	}
	if req.MaxOutputTokens != MindMapMaxTokens {
		t.Fatalf("want %d max tokens, got %d", MindMapMaxTokens, req.MaxOutputTokens)
	}
}

func TestTopicBudgetTight(t *testing.T) {
	text := strings.Repeat("z", 5000)
	req := Topic(text)
	if req.User != text[:TopicBudget] {
		t.Fatalf("topic extraction must see exactly the %d-char prefix", TopicBudget)
	}
	if req.MaxOutputTokens != TopicMaxTokens {
		t.Fatalf("want %d max tokens, got %d", TopicMaxTokens, req.MaxOutputTokens)
	}
}

func TestChatFallbackWithoutDocument(t *testing.T) {
	req := Chat("", nil, "What is recursion?")
	if !strings.Contains(req.System, "No document uploaded yet.") {
		t.Fatalf("fallback instruction missing")
	}
	if req.User != "What is recursion?" {
		t.Fatalf("bare message expected, got %q", req.User)
	}
}

func TestChatEmbedsRecentHistoryOnly(t *testing.T) {
	var history []types.ConversationTurn
	for i := 0; i < 15; i++ {
		history = append(history, types.ConversationTurn{
			User:      "question-" + string(rune('a'+i)),
			Assistant: "answer-" + string(rune('a'+i)),
		})
	}
	req := Chat("doc", history, "next question")
	if strings.Contains(req.User, "question-a") {
		t.Fatalf("oldest turns must be dropped")
	}
	if !strings.Contains(req.User, "question-o") {
		t.Fatalf("latest turn missing")
	}
	if !strings.HasSuffix(req.User, "next question") {
		t.Fatalf("new message must come last")
	}
}
