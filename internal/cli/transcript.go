package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/hession/chatbot/internal/memory"
)

const displayWidth = 60

// FormatHistory renders the most recent limit exchanges (all if limit <= 0)
// with a short summary header
func FormatHistory(mem *memory.Memory, limit int, now time.Time) string {
	var builder strings.Builder

	builder.WriteString("📋 Conversation memory\n\n")
	if name := mem.Name(); name != "" {
		builder.WriteString(fmt.Sprintf("Remembered name: %s\n", name))
	} else {
		builder.WriteString("Remembered name: (none)\n")
	}

	exchanges := mem.Conversations
	sessions := map[string]bool{}
	for _, ex := range exchanges {
		if ex.Session != "" {
			sessions[ex.Session] = true
		}
	}
	builder.WriteString(fmt.Sprintf("Exchanges: %d\n", len(exchanges)))
	if len(sessions) > 0 {
		builder.WriteString(fmt.Sprintf("Sessions: %d\n", len(sessions)))
	}

	if len(exchanges) == 0 {
		builder.WriteString("\nNo conversations yet\n")
		return builder.String()
	}

	if last, err := parseDate(exchanges[len(exchanges)-1].Date); err == nil {
		builder.WriteString(fmt.Sprintf("Last chat: %s ago\n", FormatDuration(now.Sub(last))))
	}

	if limit > 0 && len(exchanges) > limit {
		exchanges = exchanges[len(exchanges)-limit:]
	}

	builder.WriteString("\n")
	for _, ex := range exchanges {
		builder.WriteString(fmt.Sprintf("#%d  %s\n", ex.ID, displayDate(ex.Date)))
		builder.WriteString(fmt.Sprintf("  You: %s\n", truncateForDisplay(ex.UserInput, displayWidth)))
		builder.WriteString(fmt.Sprintf("  Bot: %s\n", truncateForDisplay(ex.BotResponse, displayWidth)))
	}

	return builder.String()
}

// parseDate accepts RFC 3339 and the zone-less ISO-8601 form older
// transcripts were written with
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
}

func displayDate(s string) string {
	t, err := parseDate(s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// FormatDuration renders a coarse, human readable duration
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return plural(int(d.Seconds()), "second")
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	default:
		return plural(int(d.Hours()/24), "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// truncateForDisplay flattens text to one line and cuts it to maxLen runes
func truncateForDisplay(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
