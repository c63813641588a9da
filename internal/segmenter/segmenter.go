package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"cbeta-search/internal/domain"
)

var (
	blankLineRe = regexp.MustCompile(`\n\s*\n`)
	// Terminal punctuation of classical Chinese prose, followed by
	// whitespace or end of string.
	sentenceEndRe = regexp.MustCompile(`([。？！])(\s+|$)`)
)

// Split divides a document body into natural paragraphs. It prefers
// blank-line boundaries; bodies without blank-line structure are re-split
// after sentence-ending punctuation, keeping the mark attached to the
// preceding segment. Every returned segment is non-empty after trimming.
func Split(text string) []string {
	segments := blankLineRe.Split(text, -1)
	if countNonEmpty(segments) <= 1 {
		segments = splitSentences(text)
	}
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}

func splitSentences(text string) []string {
	marked := sentenceEndRe.ReplaceAllString(text, "${1}\x00")
	return strings.Split(marked, "\x00")
}

func countNonEmpty(segments []string) int {
	n := 0
	for _, seg := range segments {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

// Paragraphs segments a document and wraps each piece in a Paragraph record.
// Indices are contiguous from 0 and IDs are derived from the document ID, so
// repeated calls over the same document produce identical output.
func Paragraphs(doc domain.Document) []domain.Paragraph {
	pieces := Split(doc.Content)
	paragraphs := make([]domain.Paragraph, 0, len(pieces))
	for i, piece := range pieces {
		paragraphs = append(paragraphs, domain.Paragraph{
			ID:      fmt.Sprintf("%s_p%d", doc.ID, i),
			DocID:   doc.ID,
			Title:   doc.Title,
			Content: strings.TrimSpace(piece),
			Index:   i,
		})
	}
	return paragraphs
}

// All segments every document in order and returns the combined paragraph
// list. Paragraph IDs are unique as long as document IDs are.
func All(docs []domain.Document) []domain.Paragraph {
	var paragraphs []domain.Paragraph
	for _, doc := range docs {
		paragraphs = append(paragraphs, Paragraphs(doc)...)
	}
	return paragraphs
}
