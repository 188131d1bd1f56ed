package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_ScanOrder(t *testing.T) {
	c := Default()

	var names []string
	for _, cat := range c.Categories() {
		names = append(names, cat.Name)
	}
	assert.Equal(t, []string{Greetings, Farewells, Name, Time, Date, Joke, Weather, Help}, names)
}

func TestMatch(t *testing.T) {
	c := Default()

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"tell me a joke", Joke, true},
		{"HELLO there", Greetings, true},
		{"history", Greetings, true}, // "hi" wins over "help"
		{"I need help", Help, true},
		{"what's the weather like", Weather, true},
		{"see you tomorrow", Farewells, true},
		{"who are you?", Name, true},
		{"what date is it", Date, true},
		{"it's raining", Weather, true},
		{"what time is it", Time, true},
		{"", "", false},
		{"random words", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.Match(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_SubstringWithoutWordBoundaries(t *testing.T) {
	c := Default()

	// "sometimes" contains "time" but also nothing earlier in scan order
	got, ok := c.Match("sometimes")
	require.True(t, ok)
	assert.Equal(t, Time, got)

	// "update" contains "date"
	got, ok = c.Match("update")
	require.True(t, ok)
	assert.Equal(t, Date, got)
}

func TestReplyRender(t *testing.T) {
	c := Default()
	now := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	data := Data{Bot: "Robo", User: "alice", Now: now}

	var rendered []string
	for _, r := range c.Replies(Name) {
		rendered = append(rendered, r.Render(data))
	}
	assert.Contains(t, rendered, "I'm Robo, your friendly chatbot!")
	assert.Contains(t, rendered, "They call me Robo!")

	rendered = nil
	for _, r := range c.Replies(Time) {
		rendered = append(rendered, r.Render(data))
	}
	assert.Equal(t, []string{"The current time is 02:07 PM", "It's 14:07 right now"}, rendered)

	rendered = nil
	for _, r := range c.Replies(Date) {
		rendered = append(rendered, r.Render(data))
	}
	assert.Equal(t, []string{"Today is Tuesday, March 05, 2024", "The date is 2024-03-05"}, rendered)

	last := c.Defaults()[len(c.Defaults())-1]
	assert.Equal(t, "Interesting point! What do you think about it, alice?", last.Render(data))
	assert.Equal(t, "Interesting point! What do you think about it, ?", last.Render(Data{}))
}

func TestReplies_UnknownCategory(t *testing.T) {
	assert.Nil(t, Default().Replies("nope"))
}

func TestCategory_ReturnsCopy(t *testing.T) {
	c := Default()

	cat, ok := c.Category(Joke)
	require.True(t, ok)
	cat.Patterns[0] = "mutated"

	again, _ := c.Category(Joke)
	assert.Equal(t, "joke", again.Patterns[0])

	_, ok = c.Category("missing")
	assert.False(t, ok)
}

func TestNew_Validation(t *testing.T) {
	farewell := Category{Name: Farewells, Patterns: []string{"bye"}, Responses: []string{"Bye!"}}

	tests := []struct {
		name       string
		categories []Category
		defaults   []string
		wantErr    error
	}{
		{name: "no categories", defaults: []string{"x"}, wantErr: ErrNoCategories},
		{name: "no defaults", categories: []Category{farewell}, wantErr: ErrNoDefaults},
		{
			name:       "no farewells",
			categories: []Category{{Name: "a", Patterns: []string{"a"}, Responses: []string{"A"}}},
			defaults:   []string{"x"},
			wantErr:    ErrNoFarewells,
		},
		{
			name:       "empty name",
			categories: []Category{farewell, {Patterns: []string{"a"}, Responses: []string{"A"}}},
			defaults:   []string{"x"},
		},
		{
			name:       "duplicate name",
			categories: []Category{farewell, farewell},
			defaults:   []string{"x"},
		},
		{
			name:       "empty pattern",
			categories: []Category{farewell, {Name: "a", Patterns: []string{" "}, Responses: []string{"A"}}},
			defaults:   []string{"x"},
		},
		{
			name:       "no responses",
			categories: []Category{farewell, {Name: "a", Patterns: []string{"a"}}},
			defaults:   []string{"x"},
		},
		{
			name:       "bad template",
			categories: []Category{farewell, {Name: "a", Patterns: []string{"a"}, Responses: []string{"{{.Bot"}}},
			defaults:   []string{"x"},
		},
		{
			name:       "unknown field",
			categories: []Category{farewell},
			defaults:   []string{"{{.Nickname}}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.categories, tt.defaults)
			require.Error(t, err)
			assert.Nil(t, c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNew_LowercasesPatterns(t *testing.T) {
	c, err := New([]Category{
		{Name: Farewells, Patterns: []string{"Bye"}, Responses: []string{"Bye!"}},
		{Name: "shout", Patterns: []string{"LOUD"}, Responses: []string{"Quiet please"}},
	}, []string{"ok"})
	require.NoError(t, err)

	got, ok := c.Match("so loud in here")
	require.True(t, ok)
	assert.Equal(t, "shout", got)
}

func TestParseAndLoad(t *testing.T) {
	data := []byte(`
categories:
  - name: farewells
    patterns: [ciao]
    responses: ["Ciao {{.User}}!"]
  - name: food
    patterns: [pizza, pasta]
    responses: ["Yum!"]
`)
	c, err := Parse(data)
	require.NoError(t, err)

	got, ok := c.Match("I love PASTA")
	require.True(t, ok)
	assert.Equal(t, "food", got)
	assert.Len(t, c.Defaults(), len(DefaultReplies()))

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Categories(), loaded.Categories())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("categories: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("categories: []"))
	assert.ErrorIs(t, err, ErrNoCategories)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Categories(), c.Categories())
	assert.Len(t, c.Defaults(), len(DefaultReplies()))
}
