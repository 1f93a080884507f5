package artifacts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MalformedOutputError means the model response was not parseable or not
// schema-conformant. Raw carries the response for logging; it is never
// returned to the caller.
type MalformedOutputError struct {
	Raw string
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

func malformed(raw string, format string, args ...any) error {
	return &MalformedOutputError{Raw: raw, Err: fmt.Errorf(format, args...)}
}

// StripFences removes a leading and/or trailing markdown code-fence line.
// The model is told to return pure JSON but frequently wraps it anyway.
// Line-based on purpose: backticks inside the payload are left alone, and
// stripping an already-clean payload is a no-op.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	if strings.HasPrefix(strings.TrimSpace(lines[0]), "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ParseQuiz parses and validates a quiz response: at least one question,
// exactly 4 options each, correct_answer within option bounds.
func ParseQuiz(raw string) (*Quiz, error) {
	clean := StripFences(raw)
	var q Quiz
	if err := json.Unmarshal([]byte(clean), &q); err != nil {
		return nil, malformed(raw, "quiz json: %v", err)
	}
	if len(q.Questions) == 0 {
		return nil, malformed(raw, "quiz has no questions")
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Question) == "" {
			return nil, malformed(raw, "question %d has empty text", i)
		}
		if len(question.Options) != 4 {
			return nil, malformed(raw, "question %d has %d options, want 4", i, len(question.Options))
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer > 3 {
			return nil, malformed(raw, "question %d correct_answer %d out of range", i, question.CorrectAnswer)
		}
	}
	return &q, nil
}

// ParseMockTest parses and validates a mock test: named, at least one
// section, every question of a known type with its type-specific fields and
// non-negative points.
func ParseMockTest(raw string) (*MockTest, error) {
	clean := StripFences(raw)
	var t MockTest
	if err := json.Unmarshal([]byte(clean), &t); err != nil {
		return nil, malformed(raw, "mock test json: %v", err)
	}
	if strings.TrimSpace(t.TestName) == "" {
		return nil, malformed(raw, "mock test has no test_name")
	}
	if len(t.Sections) == 0 {
		return nil, malformed(raw, "mock test has no sections")
	}
	for si, sec := range t.Sections {
		if len(sec.Questions) == 0 {
			return nil, malformed(raw, "section %d (%q) has no questions", si, sec.SectionName)
		}
		for qi, q := range sec.Questions {
			if err := validateTestQuestion(q); err != nil {
				return nil, malformed(raw, "section %d question %d: %v", si, qi, err)
			}
		}
	}
	return &t, nil
}

func validateTestQuestion(q TestQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question text")
	}
	if q.Points < 0 {
		return fmt.Errorf("negative points %d", q.Points)
	}
	switch q.Type {
	case "mcq":
		if len(q.Options) != 4 {
			return fmt.Errorf("mcq has %d options, want 4", len(q.Options))
		}
		var idx int
		if err := json.Unmarshal(q.CorrectAnswer, &idx); err != nil {
			return fmt.Errorf("mcq correct_answer is not an index: %v", err)
		}
		if idx < 0 || idx > 3 {
			return fmt.Errorf("mcq correct_answer %d out of range", idx)
		}
	case "true_false":
		var v bool
		if err := json.Unmarshal(q.CorrectAnswer, &v); err != nil {
			return fmt.Errorf("true_false correct_answer is not a boolean: %v", err)
		}
	case "short_answer":
		if strings.TrimSpace(q.SampleAnswer) == "" {
			return fmt.Errorf("short_answer has no sample_answer")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

// ParseMindMap parses and validates a mind map: a central topic and at
// least one titled branch.
func ParseMindMap(raw string) (*MindMap, error) {
	clean := StripFences(raw)
	var m MindMap
	if err := json.Unmarshal([]byte(clean), &m); err != nil {
		return nil, malformed(raw, "mind map json: %v", err)
	}
	if strings.TrimSpace(m.CentralTopic) == "" {
		return nil, malformed(raw, "mind map has no central_topic")
	}
	if len(m.Branches) == 0 {
		return nil, malformed(raw, "mind map has no branches")
	}
	for i, b := range m.Branches {
		if strings.TrimSpace(b.Title) == "" {
			return nil, malformed(raw, "branch %d has empty title", i)
		}
	}
	return &m, nil
}
