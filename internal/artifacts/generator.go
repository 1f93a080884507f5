package artifacts

import (
	"context"
	"errors"
	"strings"

	"github.com/snotra-ai/snotra-backend/internal/gemini"
	"github.com/snotra-ai/snotra-backend/internal/logger"
	"github.com/snotra-ai/snotra-backend/internal/prompts"
	"github.com/snotra-ai/snotra-backend/internal/types"
)

// Generator runs the per-artifact pipeline: build prompt, invoke the model,
// parse and validate the response. One synchronous pass per call, no
// partial artifacts on failure.
type Generator interface {
	Summary(ctx context.Context, docText string) (string, error)
	Quiz(ctx context.Context, docText string, numQuestions int, difficulty string) (*Quiz, error)
	MockTest(ctx context.Context, docText string) (*MockTest, error)
	MindMap(ctx context.Context, docText string) (*MindMap, error)
	Topic(ctx context.Context, docText string) (string, error)
	ChatReply(ctx context.Context, docText string, history []types.ConversationTurn, message string) (string, error)
}

type generator struct {
	log *logger.Logger
	ai  gemini.Invoker
}

func NewGenerator(log *logger.Logger, ai gemini.Invoker) Generator {
	return &generator{
		log: log.With("service", "ArtifactGenerator"),
		ai:  ai,
	}
}

func (g *generator) Summary(ctx context.Context, docText string) (string, error) {
	return g.ai.Generate(ctx, prompts.Summary(docText))
}

func (g *generator) Quiz(ctx context.Context, docText string, numQuestions int, difficulty string) (*Quiz, error) {
	var out *Quiz
	err := g.structured(ctx, "quiz", prompts.Quiz(docText, numQuestions, difficulty), func(raw string) error {
		q, err := ParseQuiz(raw)
		if err != nil {
			return err
		}
		out = q
		return nil
	})
	return out, err
}

func (g *generator) MockTest(ctx context.Context, docText string) (*MockTest, error) {
	var out *MockTest
	err := g.structured(ctx, "mock_test", prompts.MockTest(docText), func(raw string) error {
		t, err := ParseMockTest(raw)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (g *generator) MindMap(ctx context.Context, docText string) (*MindMap, error) {
	var out *MindMap
	err := g.structured(ctx, "mind_map", prompts.MindMap(docText), func(raw string) error {
		m, err := ParseMindMap(raw)
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	return out, err
}

func (g *generator) Topic(ctx context.Context, docText string) (string, error) {
	topic, err := g.ai.Generate(ctx, prompts.Topic(docText))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(topic), nil
}

func (g *generator) ChatReply(ctx context.Context, docText string, history []types.ConversationTurn, message string) (string, error) {
	return g.ai.Generate(ctx, prompts.Chat(docText, history, message))
}

// structured invokes the model and parses the response. A malformed
// response earns exactly one re-invocation with the identical prompt;
// invocation failures are not retried here (the client already rotates
// credentials and backs off).
func (g *generator) structured(ctx context.Context, kind string, req gemini.Request, parse func(raw string) error) error {
	raw, err := g.ai.Generate(ctx, req)
	if err != nil {
		g.log.Warn("model invocation failed", "artifact", kind, "stage", "invoke", "error", err)
		return err
	}
	perr := parse(raw)
	if perr == nil {
		return nil
	}
	var mo *MalformedOutputError
	if !errors.As(perr, &mo) {
		return perr
	}
	g.log.Warn("model output malformed, retrying once", "artifact", kind, "stage", "parse", "error", perr, "raw", logSnippet(mo.Raw))

	raw, err = g.ai.Generate(ctx, req)
	if err != nil {
		g.log.Warn("model invocation failed on retry", "artifact", kind, "stage", "invoke", "error", err)
		return err
	}
	if perr = parse(raw); perr != nil {
		if errors.As(perr, &mo) {
			g.log.Error("model output malformed after retry", "artifact", kind, "stage", "parse", "raw", logSnippet(mo.Raw))
		}
		return perr
	}
	return nil
}

func logSnippet(s string) string {
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
