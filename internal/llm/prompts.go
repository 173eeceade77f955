package llm

import _ "embed"

//go:embed prompts/extract.txt
var extractPrompt string

// ExtractionPrompt returns the fixed schema instructions the résumé text is
// appended to.
func ExtractionPrompt() string {
	return extractPrompt
}
