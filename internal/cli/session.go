package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/hession/chatbot/internal/logger"
	"github.com/hession/chatbot/internal/memory"
	"github.com/hession/chatbot/internal/responder"
)

// exitWords end the session when they are the whole input line
var exitWords = map[string]bool{
	"quit":    true,
	"exit":    true,
	"bye":     true,
	"goodbye": true,
}

// IsExitWord reports whether a line ends the session
func IsExitWord(line string) bool {
	return exitWords[strings.ToLower(strings.TrimSpace(line))]
}

// LineReader yields one line of user input per call and io.EOF when input ends
type LineReader interface {
	ReadLine() (string, error)
}

// Session drives one conversation: it answers lines, logs every exchange
// and flushes the store periodically and at the end.
type Session struct {
	id         string
	responder  *responder.Responder
	store      memory.Store
	flushEvery int
	out        io.Writer
	errOut     io.Writer
	now        func() time.Time

	label lipgloss.Style
	warn  lipgloss.Style

	// mu serializes Handle with Stop, which may run on a signal goroutine
	mu      sync.Mutex
	stopped bool

	// counter is the id of the next exchange; a flush happens when it
	// reaches a multiple of flushEvery
	counter int
	flushes int
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithClock sets the exchange timestamp source
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithSessionID overrides the generated session id
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithErrorOutput sets where flush warnings go
func WithErrorOutput(w io.Writer) SessionOption {
	return func(s *Session) {
		s.errOut = w
	}
}

// NewSession creates a session over an already loaded store
func NewSession(resp *responder.Responder, store memory.Store, flushEvery int, out io.Writer, opts ...SessionOption) *Session {
	if flushEvery <= 0 {
		flushEvery = 5
	}

	renderer := lipgloss.NewRenderer(out)
	s := &Session{
		id:         uuid.New().String(),
		responder:  resp,
		store:      store,
		flushEvery: flushEvery,
		out:        out,
		errOut:     io.Discard,
		now:        time.Now,
		label:      renderer.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		warn:       renderer.NewStyle().Foreground(lipgloss.Color("3")),
		counter:    store.NextID(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session id stamped on every exchange
func (s *Session) ID() string {
	return s.id
}

// Flushes returns how many times the store has been flushed
func (s *Session) Flushes() int {
	return s.flushes
}

// Run reads lines until an exit word, end of input or cancellation.
// The store is always flushed before Run returns; an error from that
// final flush is returned.
func (s *Session) Run(ctx context.Context, in LineReader) error {
	logger.Info("Session %s started, next exchange id %d", s.id, s.counter)

	for {
		if ctx.Err() != nil {
			logger.Info("Session %s cancelled", s.id)
			return s.end()
		}

		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info("Session %s reached end of input", s.id)
				return s.Stop()
			}
			if ferr := s.end(); ferr != nil {
				logger.Error("Final flush failed: %v", ferr)
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		done, err := s.Handle(line)
		if err != nil || done {
			return err
		}
	}
}

// Stop says goodbye and saves the store without logging an exchange.
// It may be called from another goroutine while Run is blocked reading;
// lines handled afterwards are ignored.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.say(s.responder.Farewell())
	return s.finish()
}

// Handle answers one line. It returns done=true after an exit word, in
// which case the store has been flushed and any flush error is returned.
func (s *Session) Handle(line string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return true, nil
	}

	input := strings.TrimSpace(line)

	if IsExitWord(input) {
		reply := s.responder.Farewell()
		s.say(reply)
		s.record(input, reply)
		logger.Info("Session %s ended by %q", s.id, input)
		return true, s.finish()
	}

	reply := s.responder.Respond(input)
	s.say(reply)
	s.record(input, reply)
	s.counter++

	if s.counter%s.flushEvery == 0 {
		if err := s.flush(); err != nil {
			logger.Warn("Periodic flush failed: %v", err)
			fmt.Fprintln(s.errOut, s.warn.Render(fmt.Sprintf("Warning: could not save memory: %v", err)))
		}
	}

	return false, nil
}

func (s *Session) say(reply string) {
	fmt.Fprintf(s.out, "%s %s\n", s.label.Render("🤖 "+s.responder.BotName()+":"), reply)
}

func (s *Session) record(input, reply string) {
	ex := memory.NewExchange(s.counter, s.now(), input, reply, s.id)
	if err := s.store.Append(ex); err != nil {
		logger.Warn("Exchange %d not logged: %v", ex.ID, err)
		return
	}
	logger.Debug("Exchange %d logged", ex.ID)
}

func (s *Session) flush() error {
	s.flushes++
	if err := s.store.Flush(); err != nil {
		return err
	}
	logger.Debug("Memory flushed (%d exchanges)", s.store.Len())
	return nil
}

// end flushes unless Stop or an exit word already did
func (s *Session) end() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	return s.finish()
}

// finish does the final flush; callers hold mu
func (s *Session) finish() error {
	s.stopped = true
	if err := s.flush(); err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}
	return nil
}
