// Package models holds the types shared between the agent, the terminal
// chat and the HTTP server.
package models

import "time"

// AnswerSource identifies how a question was answered.
type AnswerSource string

const (
	// SourceLocal means the answer came from a local tabular analysis,
	// without contacting the API.
	SourceLocal AnswerSource = "local"
	// SourceAPI means the answer came from the chat completion API.
	SourceAPI AnswerSource = "api"
	// SourceFallback means the API quota was exhausted and a canned
	// response was used instead.
	SourceFallback AnswerSource = "fallback"
)

// Answer is the agent's reply to one question.
type Answer struct {
	Question  string       `json:"question"`
	Text      string       `json:"answer"`
	Source    AnswerSource `json:"source"`
	Model     string       `json:"model,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// AskRequest is the JSON body of POST /ask.
type AskRequest struct {
	Question string `json:"question"`
}

// FileMetadata describes one loaded CSV file.
type FileMetadata struct {
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	NumericCols []string `json:"numeric_cols"`
	TextCols    []string `json:"text_cols"`
	DateCols    []string `json:"date_cols"`
	Active      bool     `json:"active"`
}
