package segmenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbeta-search/internal/domain"
)

func TestSplit(t *testing.T) {
	t.Run("Blank line boundaries", func(t *testing.T) {
		text := "觀自在菩薩。\n\n行深般若波羅蜜多時。"
		got := Split(text)
		require.Len(t, got, 2)
		assert.Equal(t, "觀自在菩薩。", strings.TrimSpace(got[0]))
		assert.Equal(t, "行深般若波羅蜜多時。", strings.TrimSpace(got[1]))
	})

	t.Run("Blank lines with interior whitespace", func(t *testing.T) {
		text := "第一段。\n  \t\n第二段。\n\n\n第三段。"
		got := Split(text)
		require.Len(t, got, 3)
	})

	t.Run("Sentence fallback keeps terminal punctuation", func(t *testing.T) {
		text := "如是我聞。 一時佛在舍衛國。 祇樹給孤獨園。"
		got := Split(text)
		require.Len(t, got, 3)
		for _, seg := range got {
			assert.True(t, strings.HasSuffix(strings.TrimSpace(seg), "。"), "segment %q lost its closing mark", seg)
		}
	})

	t.Run("Fallback handles question and exclamation marks", func(t *testing.T) {
		text := "云何應住？ 云何降伏其心！ 善哉善哉。"
		got := Split(text)
		require.Len(t, got, 3)
		assert.Equal(t, "云何應住？", strings.TrimSpace(got[0]))
		assert.Equal(t, "云何降伏其心！", strings.TrimSpace(got[1]))
	})

	t.Run("Punctuation at end of string", func(t *testing.T) {
		text := "色即是空。 空即是色。"
		got := Split(text)
		require.Len(t, got, 2)
		assert.Equal(t, "空即是色。", strings.TrimSpace(got[1]))
	})

	t.Run("No segment is empty after trimming", func(t *testing.T) {
		texts := []string{
			"a\n\n\n\nb",
			"。 。 。",
			"第一句。 第二句。",
			"single paragraph without any structure",
		}
		for _, text := range texts {
			for _, seg := range Split(text) {
				assert.NotEmpty(t, strings.TrimSpace(seg))
			}
		}
	})

	t.Run("Empty and whitespace-only input", func(t *testing.T) {
		assert.Empty(t, Split(""))
		assert.Empty(t, Split("  \n\n \t "))
	})

	t.Run("Round trip preserves non-whitespace content", func(t *testing.T) {
		text := "觀自在菩薩。\n\n行深般若波羅蜜多時。\n\n照見五蘊皆空。"
		joined := strings.Join(Split(text), "")
		assert.Equal(t,
			strings.Join(strings.Fields(text), ""),
			strings.Join(strings.Fields(joined), ""))
	})
}

func TestParagraphs(t *testing.T) {
	doc := domain.Document{
		ID:      "T01",
		Title:   "心經",
		Content: "觀自在菩薩。\n\n行深般若波羅蜜多時。",
	}

	t.Run("IDs and indices", func(t *testing.T) {
		got := Paragraphs(doc)
		require.Len(t, got, 2)
		assert.Equal(t, "T01_p0", got[0].ID)
		assert.Equal(t, "T01_p1", got[1].ID)
		assert.Equal(t, 0, got[0].Index)
		assert.Equal(t, 1, got[1].Index)
		for _, p := range got {
			assert.Equal(t, "T01", p.DocID)
			assert.Equal(t, "心經", p.Title)
			assert.NotEmpty(t, strings.TrimSpace(p.Content))
		}
	})

	t.Run("Content is trimmed", func(t *testing.T) {
		got := Paragraphs(domain.Document{ID: "x", Content: "  abc  \n\n  def  "})
		require.Len(t, got, 2)
		assert.Equal(t, "abc", got[0].Content)
		assert.Equal(t, "def", got[1].Content)
	})

	t.Run("Deterministic", func(t *testing.T) {
		first := Paragraphs(doc)
		second := Paragraphs(doc)
		assert.Equal(t, first, second)
	})
}

func TestAll(t *testing.T) {
	docs := []domain.Document{
		{ID: "T01", Title: "甲", Content: "一。\n\n二。"},
		{ID: "T02", Title: "乙", Content: "三。\n\n四。"},
	}

	t.Run("Unique IDs across corpus", func(t *testing.T) {
		got := All(docs)
		require.Len(t, got, 4)
		seen := make(map[string]struct{})
		for _, p := range got {
			_, dup := seen[p.ID]
			assert.False(t, dup, "duplicate paragraph id %s", p.ID)
			seen[p.ID] = struct{}{}
		}
	})

	t.Run("Indices restart per document", func(t *testing.T) {
		got := All(docs)
		byDoc := make(map[string][]int)
		for _, p := range got {
			byDoc[p.DocID] = append(byDoc[p.DocID], p.Index)
		}
		for docID, idxs := range byDoc {
			for i, idx := range idxs {
				assert.Equal(t, i, idx, "doc %s", docID)
			}
		}
	})

	t.Run("Empty corpus", func(t *testing.T) {
		assert.Empty(t, All(nil))
	})
}
