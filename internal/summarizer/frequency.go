package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// FrequencySummarizer picks the most representative sentences of a text by
// token frequency. Han text is tokenized as character bigrams so it works on
// classical Chinese, which has no word delimiters.
type FrequencySummarizer struct {
	sentenceRe *regexp.Regexp
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		sentenceRe: regexp.MustCompile(`[^。？！.!?]+[。？！.!?]?`),
	}
}

// Summarize returns up to maxSentences sentences, highest scoring first by
// frequency but emitted in their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	var sentences []string
	for _, sent := range s.sentenceRe.FindAllString(text, -1) {
		if strings.TrimSpace(sent) != "" {
			sentences = append(sentences, strings.TrimSpace(sent))
		}
	}
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range bigramTokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		tokens := bigramTokens(sent)
		score := 0.0
		for _, tok := range tokens {
			score += freq[tok]
		}
		// normalize by sentence length to avoid bias toward long sentences
		if l := float64(len(tokens)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	var out []string
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, ""), nil
}

func bigramTokens(text string) []string {
	var tokens []string
	var run []rune
	flush := func() {
		switch {
		case len(run) == 1:
			tokens = append(tokens, string(run))
		case len(run) > 1:
			for i := 0; i+1 < len(run); i++ {
				tokens = append(tokens, string(run[i:i+2]))
			}
		}
		run = run[:0]
	}
	for _, r := range text {
		if unicode.Is(unicode.Han, r) || unicode.IsLetter(r) {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}
