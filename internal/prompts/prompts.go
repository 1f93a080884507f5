package prompts

import (
	"fmt"
	"strings"

	"github.com/snotra-ai/snotra-backend/internal/gemini"
	"github.com/snotra-ai/snotra-backend/internal/types"
)

// Per-kind character budgets for document text embedded into a prompt.
// Truncation is a plain prefix cut; cheap and predictable beats clever here.
const (
	SummaryBudget  = 15000
	QuizBudget     = 12000
	MockTestBudget = 12000
	MindMapBudget  = 12000
	ChatBudget     = 10000
	TopicBudget    = 2000
)

// Per-kind output token ceilings. The model may return less.
const (
	SummaryMaxTokens  = 2000
	QuizMaxTokens     = 4000
	MockTestMaxTokens = 4000
	MindMapMaxTokens  = 3000
	ChatMaxTokens     = 2000
	TopicMaxTokens    = 50
)

// Truncate cuts text to at most budget bytes, no boundary snapping.
func Truncate(text string, budget int) string {
	if budget > 0 && len(text) > budget {
		return text[:budget]
	}
	return text
}

const summarySystem = `You are an expert at creating clear, comprehensive summaries of educational content.
Create a well-structured summary that captures the key concepts, main ideas, and important details.
Use headings and bullet points for clarity.`

func Summary(docText string) gemini.Request {
	user := fmt.Sprintf(`Please create a comprehensive summary of the following document:

%s

Include:
1. Main topics covered
2. Key concepts and definitions
3. Important points and takeaways
4. Any critical information`, Truncate(docText, SummaryBudget))
	return gemini.Request{System: summarySystem, User: user, MaxOutputTokens: SummaryMaxTokens}
}

// quizSystem doubles as the parsing contract: the parser rejects anything
// that does not match this structure exactly.
const quizSystem = `You are an expert quiz creator. Generate high-quality multiple-choice questions
that test understanding of key concepts. Return ONLY valid JSON with this exact structure:
{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": 0,
      "explanation": "Explanation of the correct answer"
    }
  ]
}`

func Quiz(docText string, numQuestions int, difficulty string) gemini.Request {
	if numQuestions <= 0 {
		numQuestions = 10
	}
	if strings.TrimSpace(difficulty) == "" {
		difficulty = "medium"
	}
	user := fmt.Sprintf(`Create %d %s difficulty multiple-choice questions based on this content:

%s

Requirements:
- Each question should have 4 options
- Include the index (0-3) of the correct answer
- Provide a clear explanation for each answer
- Questions should test comprehension, not just memorization
- Return ONLY the JSON, no additional text`, numQuestions, difficulty, Truncate(docText, QuizBudget))
	return gemini.Request{System: quizSystem, User: user, MaxOutputTokens: QuizMaxTokens}
}

const mockTestSystem = `You are an expert test creator. Create a comprehensive mock test with varied question types.
Return ONLY valid JSON with this structure:
{
  "test_name": "Test title",
  "duration_minutes": 60,
  "sections": [
    {
      "section_name": "Section name",
      "questions": [
        {
          "type": "mcq",
          "question": "Question text?",
          "options": ["A", "B", "C", "D"],
          "correct_answer": 0,
          "points": 2,
          "explanation": "Why this is correct"
        },
        {
          "type": "true_false",
          "question": "Statement to evaluate",
          "correct_answer": true,
          "points": 1,
          "explanation": "Explanation"
        },
        {
          "type": "short_answer",
          "question": "Question requiring brief answer?",
          "sample_answer": "Example correct answer",
          "points": 3
        }
      ]
    }
  ]
}`

func MockTest(docText string) gemini.Request {
	user := fmt.Sprintf(`Create a comprehensive mock test based on this content:

%s

Include:
- 20-25 questions total
- Mix of multiple choice, true/false, and short answer questions
- Organize into 2-3 logical sections
- Assign appropriate point values
- Provide explanations for objective questions
- Return ONLY the JSON`, Truncate(docText, MockTestBudget))
	return gemini.Request{System: mockTestSystem, User: user, MaxOutputTokens: MockTestMaxTokens}
}

const mindMapSystem = `You are an expert at creating hierarchical mind maps from educational content.
Create a structured mind map that shows relationships between concepts. Return ONLY valid JSON:
{
  "central_topic": "Main topic",
  "branches": [
    {
      "title": "Branch title",
      "subtopics": [
        {
          "title": "Subtopic",
          "points": ["Point 1", "Point 2"]
        }
      ]
    }
  ]
}`

func MindMap(docText string) gemini.Request {
	user := fmt.Sprintf(`Create a comprehensive mind map structure from this content:

%s

The mind map should:
- Have a clear central topic
- Include 4-6 main branches
- Each branch should have 2-4 subtopics
- Each subtopic should have key points
- Return ONLY the JSON`, Truncate(docText, MindMapBudget))
	return gemini.Request{System: mindMapSystem, User: user, MaxOutputTokens: MindMapMaxTokens}
}

func Topic(docText string) gemini.Request {
	return gemini.Request{
		System:          "Extract the main topic or subject from this text in 3-5 words:",
		User:            Truncate(docText, TopicBudget),
		MaxOutputTokens: TopicMaxTokens,
	}
}

// maxChatHistoryTurns bounds how much prior conversation gets embedded.
const maxChatHistoryTurns = 10

// Chat builds the tutor request. When no document is loaded the system
// instruction says so, and the tutor still answers general questions.
func Chat(docText string, history []types.ConversationTurn, message string) gemini.Request {
	doc := Truncate(docText, ChatBudget)
	if strings.TrimSpace(doc) == "" {
		doc = "No document uploaded yet."
	}
	system := fmt.Sprintf(`You are a knowledgeable tutor helping a student understand educational content.
You have access to the following document content:

%s

Answer the student's questions clearly and helpfully. Provide examples, explanations, and encourage learning.
If the question is not related to the document, you can still help with general educational topics.`, doc)

	var b strings.Builder
	if len(history) > maxChatHistoryTurns {
		history = history[len(history)-maxChatHistoryTurns:]
	}
	if len(history) > 0 {
		b.WriteString("CONVERSATION_SO_FAR:\n")
		for _, t := range history {
			b.WriteString("Student: ")
			b.WriteString(t.User)
			b.WriteString("\nTutor: ")
			b.WriteString(t.Assistant)
			b.WriteString("\n")
		}
		b.WriteString("\nStudent: ")
	}
	b.WriteString(message)

	return gemini.Request{System: system, User: b.String(), MaxOutputTokens: ChatMaxTokens}
}
