package storage

import "time"

// Event is one handled conversation turn, whatever surface it came from.
// Events are appended in chronological order and never rewritten.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Surface   string    `json:"surface,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	Intent    string    `json:"intent"`
	Input     string    `json:"input"`
	Mood      string    `json:"mood,omitempty"`
	Reply     string    `json:"reply,omitempty"`
	Link      string    `json:"link,omitempty"`
}

// Recorder abstracts persistence of turn events.
// LoadTurns returns events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendTurn(event Event) error
	LoadTurns() ([]Event, error)
}
