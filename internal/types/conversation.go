package types

import "time"

// ConversationTurn is one question/answer exchange with the tutor.
type ConversationTurn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds everything scoped to one caller: the active document and
// the ordered chat history. Both live and die together.
type Session struct {
	Document *Document          `json:"document,omitempty"`
	History  []ConversationTurn `json:"history,omitempty"`
}
