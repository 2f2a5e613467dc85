// Package memory keeps the append-only log of past conversation turns and
// their detected moods.
package memory

import (
	"fmt"
	"sync"
	"time"

	"moodmate/internal/mood"
)

// TimestampLayout is the layout of Record.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one logged interaction. Records are never mutated once appended.
type Record struct {
	Timestamp string     `json:"timestamp"`
	Mood      mood.Label `json:"mood"`
	Input     string     `json:"input"`
}

// Time parses the record timestamp in the given location.
func (r Record) Time(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, loc)
}

// Store is the persisted document.
type Store struct {
	Interactions []Record `json:"interactions"`
}

type Repository interface {
	Load() (*Store, error)
	Save(store *Store) error
}

// Memory owns the in-process store and writes it back through the repository
// after every append.
type Memory struct {
	mu    sync.Mutex
	repo  Repository
	store *Store
	now   func() time.Time
}

// Open loads the store from repo. A malformed file is returned as an error.
func Open(repo Repository) (*Memory, error) {
	store, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}
	return &Memory{repo: repo, store: store, now: time.Now}, nil
}

// LogInteraction appends a record stamped with the current time and rewrites
// the whole store.
func (m *Memory) LogInteraction(label mood.Label, input string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := Record{
		Timestamp: m.now().Format(TimestampLayout),
		Mood:      label,
		Input:     input,
	}
	// The in-process log only changes once the write succeeded.
	next := &Store{Interactions: make([]Record, 0, len(m.store.Interactions)+1)}
	next.Interactions = append(next.Interactions, m.store.Interactions...)
	next.Interactions = append(next.Interactions, rec)
	if err := m.repo.Save(next); err != nil {
		return rec, fmt.Errorf("save memory: %w", err)
	}
	m.store = next
	return rec, nil
}

// Records returns a copy of the log in append order.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.store.Interactions...)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store.Interactions)
}
