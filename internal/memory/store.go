// Package memory persists remembered facts and the exchange transcript.
//
// A Store keeps the whole memory in process; Append and SetUserInfo only
// touch that copy, and Flush writes all of it to the backing file,
// replacing whatever was there.
package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// KeyName is the user_info key holding the remembered user name
const KeyName = "name"

var (
	// ErrCorrupt marks a backing store that exists but could not be parsed.
	// Load still returns a usable empty Memory alongside it.
	ErrCorrupt = errors.New("memory store is corrupt")
	// ErrOutOfOrder is returned by Append when an exchange id does not
	// follow the last logged one
	ErrOutOfOrder = errors.New("exchange id out of order")
)

// Store memory storage interface
type Store interface {
	// Load replaces the in-memory state with the backing store's content.
	// A missing store yields an empty Memory and no error.
	Load() (*Memory, error)
	// Flush writes the full in-memory state to the backing store
	Flush() error

	// Append logs one exchange in memory; it does not persist
	Append(ex Exchange) error
	Conversations() []Exchange
	Len() int
	NextID() int

	SetUserInfo(key, value string)
	UserInfo(key string) (string, bool)

	// Reset empties the in-memory state; Flush makes it durable
	Reset()

	// Close releases the backing store
	Close() error
}

// Exchange is one logged user input / bot response pair
type Exchange struct {
	ID          int    `json:"id"`
	Date        string `json:"date"`
	UserInput   string `json:"user_input"`
	BotResponse string `json:"bot_response"`
	Session     string `json:"session,omitempty"`
}

// NewExchange stamps an exchange with an ISO-8601 timestamp
func NewExchange(id int, at time.Time, input, response, session string) Exchange {
	return Exchange{
		ID:          id,
		Date:        at.Format(time.RFC3339Nano),
		UserInput:   input,
		BotResponse: response,
		Session:     session,
	}
}

// Memory is the persisted structure
type Memory struct {
	Conversations []Exchange        `json:"conversations"`
	UserInfo      map[string]string `json:"user_info"`
}

// Empty returns a memory with no facts and no exchanges
func Empty() *Memory {
	return &Memory{
		Conversations: []Exchange{},
		UserInfo:      map[string]string{},
	}
}

// Name returns the remembered user name, if any
func (m *Memory) Name() string {
	if m == nil || m.UserInfo == nil {
		return ""
	}
	return m.UserInfo[KeyName]
}

func (m *Memory) clone() *Memory {
	out := &Memory{
		Conversations: append([]Exchange{}, m.Conversations...),
		UserInfo:      make(map[string]string, len(m.UserInfo)),
	}
	for k, v := range m.UserInfo {
		out.UserInfo[k] = v
	}
	return out
}

func (m *Memory) normalize() {
	if m.Conversations == nil {
		m.Conversations = []Exchange{}
	}
	if m.UserInfo == nil {
		m.UserInfo = map[string]string{}
	}
}

// state is the in-process memory shared by every backend
type state struct {
	mu  sync.Mutex
	mem *Memory
}

func newState() *state {
	return &state{mem: Empty()}
}

func (s *state) replace(m *Memory) *Memory {
	m.normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem = m
	return m.clone()
}

func (s *state) snapshot() *Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mem.clone()
}

// Append logs one exchange in memory
func (s *state) Append(ex Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.mem.Conversations); n > 0 {
		if last := s.mem.Conversations[n-1].ID; ex.ID <= last {
			return fmt.Errorf("%w: id %d after %d", ErrOutOfOrder, ex.ID, last)
		}
	}
	s.mem.Conversations = append(s.mem.Conversations, ex)
	return nil
}

// Conversations returns a copy of the exchange log
func (s *state) Conversations() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Exchange{}, s.mem.Conversations...)
}

// Len returns the number of logged exchanges
func (s *state) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mem.Conversations)
}

// NextID returns the id for the next exchange: one past the log length,
// or one past the last id if ids in the log ran ahead of its length.
func (s *state) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := len(s.mem.Conversations) + 1
	if n := len(s.mem.Conversations); n > 0 {
		if last := s.mem.Conversations[n-1].ID; last >= next {
			next = last + 1
		}
	}
	return next
}

// SetUserInfo records a fact
func (s *state) SetUserInfo(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem.UserInfo[key] = value
}

// UserInfo looks up a fact
func (s *state) UserInfo(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.mem.UserInfo[key]
	return v, ok
}

// Reset forgets everything in memory
func (s *state) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mem = Empty()
}

// Open creates a store for the given backend ("json" or "sqlite")
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "json":
		s, err := NewFileStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown memory backend: %s", backend)
	}
}
