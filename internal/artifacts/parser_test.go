package artifacts

import (
	"errors"
	"strings"
	"testing"
)

const quizJSON = `{
  "questions": [
    {
      "question": "What is Go?",
      "options": ["A language", "A board game", "A verb", "All of the above"],
      "correct_answer": 3,
      "explanation": "Trick question."
    }
  ]
}`

func TestStripFencesAllCombinations(t *testing.T) {
	inner := `{"a": 1}`
	cases := map[string]string{
		"none":       inner,
		"open_only":  "```json\n" + inner,
		"close_only": inner + "\n```",
		"both":       "```json\n" + inner + "\n```",
		"bare_both":  "```\n" + inner + "\n```",
	}
	for name, in := range cases {
		if got := StripFences(in); got != inner {
			t.Fatalf("%s: got %q want %q", name, got, inner)
		}
	}
}

func TestStripFencesIdempotent(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	once := StripFences(in)
	twice := StripFences(once)
	if once != twice {
		t.Fatalf("not idempotent: %q vs %q", once, twice)
	}
}

func TestStripFencesLeavesInteriorBackticks(t *testing.T) {
	inner := "{\"md\": \"use `code` here\"}"
	if got := StripFences("```json\n" + inner + "\n```"); got != inner {
		t.Fatalf("interior backticks mangled: %q", got)
	}
}

func TestParseQuizFenced(t *testing.T) {
	q, err := ParseQuiz("```json\n" + quizJSON + "\n```")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(q.Questions) != 1 {
		t.Fatalf("want 1 question, got %d", len(q.Questions))
	}
	got := q.Questions[0]
	if got.CorrectAnswer != 3 || len(got.Options) != 4 {
		t.Fatalf("unexpected question: %#v", got)
	}
	if strings.Contains(got.Question, "```") {
		t.Fatalf("fence leaked into payload")
	}
}

func TestParseQuizRejectsProse(t *testing.T) {
	_, err := ParseQuiz("Sure! Here are some questions for you.")
	var mo *MalformedOutputError
	if !errors.As(err, &mo) {
		t.Fatalf("want MalformedOutputError, got %v", err)
	}
	if mo.Raw == "" {
		t.Fatalf("raw response not carried for diagnostics")
	}
}

func TestParseQuizRejectsWrongOptionCount(t *testing.T) {
	raw := `{"questions":[{"question":"Q?","options":["a","b","c"],"correct_answer":0,"explanation":"e"}]}`
	if _, err := ParseQuiz(raw); err == nil {
		t.Fatalf("expected error for 3 options")
	}
}

func TestParseQuizRejectsAnswerOutOfRange(t *testing.T) {
	raw := `{"questions":[{"question":"Q?","options":["a","b","c","d"],"correct_answer":4,"explanation":"e"}]}`
	if _, err := ParseQuiz(raw); err == nil {
		t.Fatalf("expected error for correct_answer=4")
	}
}

func TestParseQuizRejectsEmpty(t *testing.T) {
	if _, err := ParseQuiz(`{"questions":[]}`); err == nil {
		t.Fatalf("expected error for zero questions")
	}
}

const mockTestJSON = `{
  "test_name": "Unit Test",
  "duration_minutes": 60,
  "sections": [
    {
      "section_name": "Objective",
      "questions": [
        {"type":"mcq","question":"Pick one","options":["a","b","c","d"],"correct_answer":1,"points":2,"explanation":"b"},
        {"type":"true_false","question":"Go has generics","correct_answer":true,"points":1,"explanation":"since 1.18"},
        {"type":"short_answer","question":"Define interface","sample_answer":"a method set","points":3}
      ]
    }
  ]
}`

func TestParseMockTest(t *testing.T) {
	mt, err := ParseMockTest(mockTestJSON)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if mt.TestName != "Unit Test" || len(mt.Sections) != 1 {
		t.Fatalf("unexpected test: %#v", mt)
	}
	if len(mt.Sections[0].Questions) != 3 {
		t.Fatalf("want 3 questions, got %d", len(mt.Sections[0].Questions))
	}
}

func TestParseMockTestRejectsUnknownType(t *testing.T) {
	raw := `{"test_name":"T","sections":[{"section_name":"S","questions":[{"type":"essay","question":"Write","points":5}]}]}`
	if _, err := ParseMockTest(raw); err == nil {
		t.Fatalf("expected error for unknown question type")
	}
}

func TestParseMockTestRejectsBoolForMCQ(t *testing.T) {
	raw := `{"test_name":"T","sections":[{"section_name":"S","questions":[{"type":"mcq","question":"Q","options":["a","b","c","d"],"correct_answer":true,"points":1}]}]}`
	if _, err := ParseMockTest(raw); err == nil {
		t.Fatalf("expected error for boolean mcq answer")
	}
}

func TestParseMockTestRejectsNegativePoints(t *testing.T) {
	raw := `{"test_name":"T","sections":[{"section_name":"S","questions":[{"type":"short_answer","question":"Q","sample_answer":"a","points":-1}]}]}`
	if _, err := ParseMockTest(raw); err == nil {
		t.Fatalf("expected error for negative points")
	}
}

func TestParseMindMap(t *testing.T) {
	raw := "```\n" + `{"central_topic":"Go","branches":[{"title":"Concurrency","subtopics":[{"title":"Goroutines","points":["cheap","scheduled"]}]}]}` + "\n```"
	m, err := ParseMindMap(raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m.CentralTopic != "Go" || len(m.Branches) != 1 {
		t.Fatalf("unexpected mind map: %#v", m)
	}
}

func TestParseMindMapRejectsProse(t *testing.T) {
	_, err := ParseMindMap("A mind map is a diagram used to organize information.")
	var mo *MalformedOutputError
	if !errors.As(err, &mo) {
		t.Fatalf("want MalformedOutputError, got %v", err)
	}
}

func TestParseMindMapRejectsMissingCentralTopic(t *testing.T) {
	if _, err := ParseMindMap(`{"branches":[{"title":"b"}]}`); err == nil {
		t.Fatalf("expected error for missing central_topic")
	}
}
