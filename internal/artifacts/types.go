package artifacts

import "encoding/json"

// One concrete shape per artifact kind. The parser only ever returns one of
// these fully validated; there is no generic "whatever the model said" path.

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// TestQuestion covers all three mock-test question types. CorrectAnswer is
// an option index for mcq and a boolean for true_false, so it stays raw
// until validated per type.
type TestQuestion struct {
	Type          string          `json:"type"`
	Question      string          `json:"question"`
	Options       []string        `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"correct_answer,omitempty"`
	SampleAnswer  string          `json:"sample_answer,omitempty"`
	Points        int             `json:"points"`
	Explanation   string          `json:"explanation,omitempty"`
}

type TestSection struct {
	SectionName string         `json:"section_name"`
	Questions   []TestQuestion `json:"questions"`
}

type MockTest struct {
	TestName        string        `json:"test_name"`
	DurationMinutes int           `json:"duration_minutes"`
	Sections        []TestSection `json:"sections"`
}

type Subtopic struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type Branch struct {
	Title     string     `json:"title"`
	Subtopics []Subtopic `json:"subtopics"`
}

type MindMap struct {
	CentralTopic string   `json:"central_topic"`
	Branches     []Branch `json:"branches"`
}
