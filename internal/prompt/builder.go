package prompt

import (
	"fmt"
	"strings"

	"github.com/doppelbot/doppel/internal/groq"
	"github.com/doppelbot/doppel/internal/store"
)

// Build assembles the chat messages for the LLM:
//
//  1. system persona
//  2. system few-shot block of style examples (when any were retrieved)
//  3. the recent history in chronological order
//  4. the new incoming message as the user turn
//
// history arrives newest-first from the store and is reversed here.
func Build(persona string, examples []store.StyleExample, history []store.HistoryMessage, newMessage string) []groq.Message {
	messages := []groq.Message{
		{Role: "system", Content: persona},
	}

	if len(examples) > 0 {
		messages = append(messages, groq.Message{
			Role:    "system",
			Content: formatExamples(examples),
		})
	}

	for i := len(history) - 1; i >= 0; i-- {
		messages = append(messages, groq.Message{
			Role:    history[i].Role,
			Content: history[i].Message,
		})
	}

	messages = append(messages, groq.Message{Role: "user", Content: newMessage})
	return messages
}

func formatExamples(examples []store.StyleExample) string {
	var b strings.Builder
	b.WriteString("Here are examples of how you've replied to similar messages before. Match this EXACT style:\n\n")
	for i, ex := range examples {
		fmt.Fprintf(&b, "Example %d:\n", i+1)
		fmt.Fprintf(&b, "  They said: %s\n", ex.TriggerText)
		fmt.Fprintf(&b, "  You replied: %s\n\n", ex.ReplyText)
	}
	return b.String()
}
