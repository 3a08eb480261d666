package messages

import (
	"encoding/json"

	"github.com/mini-maxit/anticheat/pkg/languages"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

// PlagiarismTaskMessage asks the worker to compare two submissions written in the same language.
type PlagiarismTaskMessage struct {
	LanguageType string   `json:"language_type"`
	FirstSource  string   `json:"first_source"`
	SecondSource string   `json:"second_source"`
	Visitors     []string `json:"visitors,omitempty"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

type Difference struct {
	StartA    int `json:"start_a"`
	StartB    int `json:"start_b"`
	DeletedA  int `json:"deleted_a"`
	InsertedB int `json:"inserted_b"`
}

// PlagiarismResultPayload carries the percentage as a decimal string to keep it exact.
type PlagiarismResultPayload struct {
	Percentage      string       `json:"percentage"`
	Differences     []Difference `json:"differences"`
	FirstToCompare  string       `json:"first_to_compare"`
	SecondToCompare string       `json:"second_to_compare"`
}

type ResponseHandshakePayload struct {
	Languages []languages.LanguageSpec `json:"languages"`
	Visitors  []string                 `json:"visitors"`
}
