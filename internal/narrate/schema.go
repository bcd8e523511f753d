package narrate

import "github.com/abhisek/mathgenius/internal/llm"

// StorySchema is the structured output requested from the provider.
var StorySchema = &llm.Schema{
	Name:        "word-problem",
	Description: "A word problem rewritten as a short story",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"story": map[string]any{
				"type":        "string",
				"description": "The rewritten problem, ending with the question",
				"minLength":   1,
				"maxLength":   480,
			},
		},
		"required":             []any{"story"},
		"additionalProperties": false,
	},
}
