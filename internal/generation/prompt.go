package generation

import (
	"fmt"
	"strings"

	"github.com/flashdeck/backend/internal/models"
)

// Request describes the pairs to generate
type Request struct {
	LangA    string
	LangB    string
	Topic    string
	Count    int
	Type     models.PairType
	Register models.Register
}

const systemPrompt = `You create vocabulary flashcards for language learners.
Answer only with JSON matching the provided schema. Every pair must be a correct translation,
natural for native speakers, and no term may be longer than 64 characters.
"words" are single words, "mini-phrases" are two to four word collocations, "phrases" are short sentences.`

func buildUserPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate exactly %d pairs about the topic %q.\n", req.Count, req.Topic)
	fmt.Fprintf(&b, "term_a must be in %s, term_b must be in %s.\n", req.LangA, req.LangB)
	if req.Type != "" {
		fmt.Fprintf(&b, "Every pair must have type %q.\n", req.Type)
	}
	if req.Register != "" {
		fmt.Fprintf(&b, "Every pair must have register %q.\n", req.Register)
	}
	b.WriteString("Do not repeat pairs.")
	return b.String()
}
