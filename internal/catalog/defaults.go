package catalog

// DefaultCategories returns the built-in categories in scan order
func DefaultCategories() []Category {
	return []Category{
		{
			Name:     Greetings,
			Patterns: []string{"hello", "hi", "hey", "greetings", "good morning", "good afternoon"},
			Responses: []string{
				"Hello! How can I help you today?",
				"Hi there! What's on your mind?",
				"Hey! Nice to see you!",
				"Greetings! Ready to chat?",
			},
		},
		{
			Name:     Farewells,
			Patterns: []string{"bye", "goodbye", "see you", "exit", "quit"},
			Responses: []string{
				"Goodbye! Hope to chat again soon!",
				"See you later!",
				"Bye! Take care!",
				"Farewell! Don't be a stranger!",
			},
		},
		{
			Name:     Name,
			Patterns: []string{"your name", "who are you", "what are you"},
			Responses: []string{
				"I'm {{.Bot}}, your friendly chatbot!",
				"They call me {{.Bot}}!",
				"I go by {{.Bot}}. Nice to meet you!",
			},
		},
		{
			Name:     Time,
			Patterns: []string{"time", "what time", "current time"},
			Responses: []string{
				`The current time is {{.Now.Format "03:04 PM"}}`,
				`It's {{.Now.Format "15:04"}} right now`,
			},
		},
		{
			Name:     Date,
			Patterns: []string{"date", "today's date", "what date"},
			Responses: []string{
				`Today is {{.Now.Format "Monday, January 02, 2006"}}`,
				`The date is {{.Now.Format "2006-01-02"}}`,
			},
		},
		{
			Name:     Joke,
			Patterns: []string{"joke", "funny", "make me laugh"},
			Responses: []string{
				"Why don't scientists trust atoms? Because they make up everything!",
				"Why did the math book look so sad? Because it had too many problems!",
				"What do you call a bear with no teeth? A gummy bear!",
			},
		},
		{
			Name:     Weather,
			Patterns: []string{"weather", "rain", "sunny", "temperature"},
			Responses: []string{
				"I wish I could check the weather for you, but I'm just a simple chatbot!",
				"You might want to check a weather app for accurate forecasts!",
				"I'm not connected to weather services, sorry!",
			},
		},
		{
			Name:     Help,
			Patterns: []string{"help", "what can you do", "capabilities"},
			Responses: []string{
				"I can chat with you, tell jokes, give the time and date, and remember our conversations!",
				"Try asking me about time, date, or tell me a joke! You can also ask for help anytime.",
				"I'm here to chat! You can ask me anything, and I'll do my best to respond.",
			},
		},
	}
}

// DefaultReplies returns the built-in fallback replies
func DefaultReplies() []string {
	return []string{
		"That's interesting! Tell me more.",
		"I see. What else would you like to talk about?",
		"Could you elaborate on that?",
		"Hmm, I'm not sure I understand. Could you rephrase?",
		"Thanks for sharing!",
		"Interesting point! What do you think about it, {{.User}}?",
	}
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(DefaultCategories(), DefaultReplies())
	if err != nil {
		panic("catalog: built-in catalog is invalid: " + err.Error())
	}
	return c
}
