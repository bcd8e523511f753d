package narrate

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathgenius/internal/problemgen"
)

const systemPrompt = `You are a children's math tutor rewriting word problems as short stories.

Rules:
- Rewrite the given problem as a short story of two or three sentences, ending with the question.
- Keep the vocabulary and sentence length appropriate for the given grade.
- Every number listed under "Numbers to keep" must appear in the story exactly as written, as digits.
- Do not introduce any other numbers, and never state or hint at the answer.
- The question asked must stay mathematically identical to the original.
- Use plain ASCII text. No LaTeX, no emoji.`

// buildUserMessage describes the question to rewrite.
func buildUserMessage(q *problemgen.Question) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade: %s\n", q.Grade.DisplayName())
	fmt.Fprintf(&b, "Difficulty: %s\n", q.Tier)
	fmt.Fprintf(&b, "Original problem: %s\n", q.Text)

	b.WriteString("Numbers to keep:")
	for _, n := range q.Work.Operands {
		fmt.Fprintf(&b, " %d", n)
	}
	b.WriteString("\n")

	return b.String()
}
