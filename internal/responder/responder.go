// Package responder picks a reply for one line of user input.
package responder

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hession/chatbot/internal/catalog"
)

const namePhrase = "my name is"

// greetingWords trigger the personalized greeting once a name is known
var greetingWords = []string{"hello", "hi", "hey"}

// Rand is the source of uniform choices. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// NameRecorder receives names the user declares
type NameRecorder interface {
	SetUserInfo(key, value string)
}

// Option configures a Responder
type Option func(*Responder)

// WithRand sets the random source
func WithRand(r Rand) Option {
	return func(rs *Responder) {
		rs.rand = r
	}
}

// WithClock sets the time source used by time/date replies
func WithClock(now func() time.Time) Option {
	return func(rs *Responder) {
		rs.now = now
	}
}

// WithName seeds the remembered user name
func WithName(name string) Option {
	return func(rs *Responder) {
		rs.userName = name
	}
}

// WithRecorder forwards declared names to a store
func WithRecorder(rec NameRecorder) Option {
	return func(rs *Responder) {
		rs.recorder = rec
	}
}

// Responder turns input into replies using a catalog.
// It holds the remembered user name; it is not safe for concurrent use.
type Responder struct {
	botName  string
	catalog  *catalog.Catalog
	rand     Rand
	now      func() time.Time
	userName string
	recorder NameRecorder
}

// New creates a responder speaking as botName
func New(botName string, cat *catalog.Catalog, opts ...Option) *Responder {
	r := &Responder{
		botName: botName,
		catalog: cat,
		rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BotName returns the name the bot answers as
func (r *Responder) BotName() string {
	return r.botName
}

// UserName returns the remembered user name, "" if none
func (r *Responder) UserName() string {
	return r.userName
}

// Respond returns the reply for one line of input. In priority order:
// a "my name is" declaration, a personalized greeting, the first matching
// catalog category, then a default reply.
func (r *Responder) Respond(input string) string {
	lower := strings.ToLower(input)

	if strings.Contains(lower, namePhrase) {
		if name := extractName(input); name != "" {
			r.userName = name
			if r.recorder != nil {
				r.recorder.SetUserInfo("name", name)
			}
			return "Nice to meet you, " + name + "! I'll remember that."
		}
	}

	if r.userName != "" && containsAny(lower, greetingWords) {
		return "Hello " + r.userName + "! How are you today?"
	}

	if name, ok := r.catalog.Match(input); ok {
		return r.pick(r.catalog.Replies(name))
	}

	return r.pick(r.catalog.Defaults())
}

// Farewell returns a random reply from the farewells category
func (r *Responder) Farewell() string {
	return r.pick(r.catalog.Replies(catalog.Farewells))
}

func (r *Responder) pick(replies []catalog.Reply) string {
	if len(replies) == 0 {
		return ""
	}
	reply := replies[r.rand.IntN(len(replies))]
	return reply.Render(catalog.Data{
		Bot:  r.botName,
		User: r.userName,
		Now:  r.now(),
	})
}

// extractName returns the trimmed text after the last case-insensitive
// occurrence of "my name is", keeping the input's own casing.
func extractName(input string) string {
	idx := lastIndexFold(input, namePhrase)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(input[idx+len(namePhrase):])
}

// lastIndexFold is strings.LastIndex with ASCII case folding on the needle.
// needle must be lowercase ASCII; the returned index is a byte offset into s.
func lastIndexFold(s, needle string) int {
	n := len(needle)
	for i := len(s) - n; i >= 0; i-- {
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
