package answer

import (
	"fmt"
	"strings"

	domsearch "github.com/inboxlab/mailrag/internal/domain/search"
)

// systemPrompt pins the model to the supplied context. The wording matters:
// it must forbid outside knowledge and give the model an explicit way out
// when the context is insufficient, instead of inventing facts.
const systemPrompt = "You are an assistant that answers questions about a user's email inbox. " +
	"Answer using ONLY the information in the provided emails. " +
	"If the emails do not contain the answer, say \"I cannot find this information in the retrieved emails.\" " +
	"Be concise and specific, and mention which email(s) you used."

// buildPrompt renders the question and the retrieved chunks, each tagged with
// its 1-based retrieval rank so the model can reference them.
func buildPrompt(question string, results []domsearch.Result) string {
	var b strings.Builder

	b.WriteString("Context (retrieved emails):\n\n")
	for i := range results {
		r := &results[i]
		fmt.Fprintf(&b, "[Email %d]\nSubject: %s\nDate: %s\nContent: %s\n\n",
			i+1, r.Subject(), r.Date(), r.Snippet())
	}

	fmt.Fprintf(&b, "Question: %s", question)

	return b.String()
}
