package devserver

import (
	"fmt"
	"strings"
)

// topResults is how many chunks an answer cites
const topResults = 5

const (
	offTopicAnswer = "I can only answer questions related to the course videos. Try asking about a topic covered in one of them."
	answerNote     = "Note: This answer lists the closest video segments. Open the video at the time shown to watch that part."
)

// clock renders seconds as m:ss
func clock(seconds float64) string {
	s := int(seconds)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Answer builds the reply text for a question: an intro line, then one block per
// matched chunk with its video title, time range and transcript text.
func Answer(catalog *Catalog, question string) string {
	hits := catalog.Search(question, topResults)
	if len(hits) == 0 {
		return offTopicAnswer
	}

	parts := []string{fmt.Sprintf("Based on your question '%s', I found the following relevant video content:\n", question)}
	for _, ch := range hits {
		parts = append(parts,
			"📹 "+ch.Title,
			fmt.Sprintf("   Time: %s - %s", clock(ch.Start), clock(ch.End)),
			"   Content: "+strings.TrimSpace(ch.Text),
			"",
		)
	}
	parts = append(parts, answerNote)

	return strings.Join(parts, "\n")
}
