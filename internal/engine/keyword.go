package engine

import (
	"fmt"
	"sort"
	"strings"

	"cbeta-search/internal/domain"
	"cbeta-search/internal/segmenter"
)

// searchByKeywords runs the three-pass keyword search: verbatim paragraph
// matches, then partial word matches, then a whole-document scan when the
// paragraph grain found nothing.
func (e *Engine) searchByKeywords(query string, topK int) []domain.QueryResult {
	var results []domain.QueryResult
	for _, p := range e.paragraphs {
		if strings.Contains(p.Content, query) {
			results = append(results, domain.QueryResult{Paragraph: p, MatchType: domain.MatchFull})
		}
	}

	if len(results) < topK {
		words := strings.Fields(query)
		// at least half the query words, rounding up
		need := (len(words) + 1) / 2
		if need < 1 {
			need = 1
		}
		selected := make(map[string]struct{}, len(results))
		for _, r := range results {
			selected[r.Paragraph.ID] = struct{}{}
		}
		for _, p := range e.paragraphs {
			if _, ok := selected[p.ID]; ok {
				continue
			}
			matched := 0
			for _, w := range words {
				if strings.Contains(p.Content, w) {
					matched++
				}
			}
			if matched >= need {
				results = append(results, domain.QueryResult{
					Paragraph:    p,
					MatchType:    domain.MatchPartial,
					MatchedWords: matched,
				})
				if len(results) >= topK {
					break
				}
			}
		}
	}

	if len(results) == 0 {
		results = e.searchDocuments(query)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchType != results[j].MatchType {
			return results[i].MatchType == domain.MatchFull
		}
		return results[i].MatchedWords > results[j].MatchedWords
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// searchDocuments scans whole document bodies for the verbatim query and
// re-segments matching documents on demand. It only runs when the paragraph
// passes found nothing; matching happens on the raw segments, so queries
// that only occur next to trimmed whitespace are still caught.
func (e *Engine) searchDocuments(query string) []domain.QueryResult {
	var results []domain.QueryResult
	for _, doc := range e.docs {
		if !strings.Contains(doc.Content, query) {
			continue
		}
		for i, piece := range segmenter.Split(doc.Content) {
			if !strings.Contains(piece, query) {
				continue
			}
			results = append(results, domain.QueryResult{
				Paragraph: domain.Paragraph{
					ID:      fmt.Sprintf("%s_p%d", doc.ID, i),
					DocID:   doc.ID,
					Title:   doc.Title,
					Content: strings.TrimSpace(piece),
					Index:   i,
				},
				MatchType: domain.MatchFull,
			})
		}
	}
	return results
}
