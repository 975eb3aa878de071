package rag

import (
	"strings"

	"github.com/pharmassist/server/internal/llm"
)

// number of trailing history messages carried into the prompt; kept
// small to bound prompt growth on long conversations
const historyWindow = 2

// builds the system prompt when retrieval produced usable context
func buildContextSystemPrompt(context string) string {
	var builder strings.Builder

	builder.WriteString(`You are a pharmacology assistant. Answer the user's question using the
reference excerpts below, which come from documents the user uploaded.

REFERENCE EXCERPTS:
`)
	builder.WriteString(context)
	builder.WriteString(`

Guidelines:
- Ground your answer in the excerpts above and cite the source documents by name
- If the excerpts do not cover the question, say so and answer from general pharmacology knowledge
- Be precise about drug names, doses, interactions, and contraindications
- Remind the user to confirm clinical decisions with a qualified professional when relevant
`)

	return builder.String()
}

// builds the system prompt when no document context is available
func buildGeneralSystemPrompt() string {
	return `You are a pharmacology assistant. No excerpts from the user's uploaded
documents are available for this question, so answer from general
pharmacology knowledge.

Guidelines:
- Open by noting you are answering from general knowledge since their documents could not be consulted right now
- Be precise about drug names, doses, interactions, and contraindications
- Remind the user to confirm clinical decisions with a qualified professional when relevant
`
}

// the stripped-down prompt for the emergency generation attempt
func buildEmergencySystemPrompt() string {
	return `You are a pharmacology assistant. Answer the question briefly from general knowledge.`
}

// assembles the message list: a trimmed window of prior turns plus the
// current question as the final user turn
func buildMessages(q Query) []llm.Message {
	history := q.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: q.Text,
	})

	return messages
}
