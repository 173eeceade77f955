package openai

import "smart-resume/internal/llm"

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

// BuildPrompt creates the single user message for an extraction request. The
// résumé text is appended verbatim; long inputs are neither truncated nor
// chunked.
func BuildPrompt(resumeText string) []Message {
	return []Message{
		{Role: "user", Content: llm.ExtractionPrompt() + resumeText},
	}
}
