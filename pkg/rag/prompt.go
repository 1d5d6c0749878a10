package rag

import (
	"fmt"
	"strings"

	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"
)

var styleInstructions = map[string]string{
	"professional": "Answer in a professional, concise tone suitable for a business client.",
	"friendly":     "Answer in a warm, friendly and approachable tone.",
	"academic":     "Answer in a precise, formal tone with careful qualifications.",
}

// buildGroundedMessages assembles the system instruction, the conversation
// history and the user query for the grounded answer path.
func buildGroundedMessages(query string, results []store.RetrievalResult, opts *AnswerOptions, includeMetadata bool) []llm.Message {
	var system strings.Builder

	system.WriteString("You are the knowledge assistant of a beauty and fitness business.\n\n")
	system.WriteString("<grounded_reference_material>\n")
	system.WriteString("This is the ONLY data source. Do NOT use outside knowledge.\n\n")

	for _, res := range results {
		meta := res.Document.Metadata
		system.WriteString(fmt.Sprintf("--- CONTENT OF: %s ---\n", meta.Title))
		if includeMetadata {
			system.WriteString(fmt.Sprintf("Source: %s\n", meta.Source))
			system.WriteString(fmt.Sprintf("Relevance: %s (%.2f)\n", res.Relevance, res.Score))
		}
		system.WriteString(res.Document.Content)
		system.WriteString(fmt.Sprintf("\n--- END OF: %s ---\n\n", meta.Title))
	}

	if opts != nil && opts.Context != "" {
		system.WriteString("--- ADDITIONAL CONTEXT ---\n")
		system.WriteString(opts.Context)
		system.WriteString("\n--- END OF ADDITIONAL CONTEXT ---\n\n")
	}

	system.WriteString("</grounded_reference_material>\n\n")

	system.WriteString("<task_instructions>\n")
	system.WriteString("1. Answer ONLY using the reference material above.\n")
	system.WriteString("2. If the material does not contain what is being asked, say so explicitly.\n")
	system.WriteString("3. Always cite which document a fact comes from, by title.\n")
	system.WriteString(fmt.Sprintf("4. %s Do not deviate from this style.\n", styleInstructions[resolveStyle(opts)]))
	system.WriteString("</task_instructions>")

	messages := []llm.Message{{Role: "system", Content: system.String()}}
	if opts != nil {
		messages = append(messages, opts.ConversationHistory...)
	}
	return append(messages, llm.Message{Role: "user", Content: query})
}

// buildDirectMessages covers the no-context path: no grounding block, just
// the style constraint, the history and the query.
func buildDirectMessages(query string, opts *AnswerOptions) []llm.Message {
	system := fmt.Sprintf(
		"You are the knowledge assistant of a beauty and fitness business. No reference material matched this question; answer from general knowledge and say so when relevant. %s",
		styleInstructions[resolveStyle(opts)],
	)

	messages := []llm.Message{{Role: "system", Content: system}}
	if opts != nil {
		messages = append(messages, opts.ConversationHistory...)
	}
	return append(messages, llm.Message{Role: "user", Content: query})
}

func resolveStyle(opts *AnswerOptions) string {
	style := opts.style()
	if _, ok := styleInstructions[style]; !ok {
		return "professional"
	}
	return style
}
