package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder(t *testing.T) {
	corpus := []string{
		"觀自在菩薩行深般若",
		"般若波羅蜜多",
		"the heart sutra",
	}

	t.Run("Encode before Fit is an error", func(t *testing.T) {
		e := NewEmbedder()
		_, err := e.Encode([]string{"般若"})
		assert.Error(t, err)
	})

	t.Run("Fit requires a corpus", func(t *testing.T) {
		e := NewEmbedder()
		assert.Error(t, e.Fit(nil))
		assert.Error(t, e.Fit([]string{"123", "..."}))
	})

	t.Run("Vectors have the vocabulary dimension", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Fit(corpus))
		require.Greater(t, e.Dimension(), 0)
		vecs, err := e.Encode([]string{"般若", "sutra"})
		require.NoError(t, err)
		require.Len(t, vecs, 2)
		for _, v := range vecs {
			assert.Len(t, v, e.Dimension())
		}
	})

	t.Run("Vectors are L2 normalized", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Fit(corpus))
		vecs, err := e.Encode([]string{"般若波羅蜜多"})
		require.NoError(t, err)
		norm := 0.0
		for _, v := range vecs[0] {
			norm += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
	})

	t.Run("Identical texts produce identical vectors", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Fit(corpus))
		vecs, err := e.Encode([]string{corpus[0], corpus[0]})
		require.NoError(t, err)
		assert.Equal(t, vecs[0], vecs[1])
	})

	t.Run("Shared Han bigrams increase similarity", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Fit(corpus))
		vecs, err := e.Encode([]string{"般若", corpus[1], corpus[2]})
		require.NoError(t, err)
		related := dot(vecs[0], vecs[1])
		unrelated := dot(vecs[0], vecs[2])
		assert.Greater(t, related, unrelated)
	})

	t.Run("Out-of-vocabulary text yields zero vector", func(t *testing.T) {
		e := NewEmbedder()
		require.NoError(t, e.Fit(corpus))
		vecs, err := e.Encode([]string{"unseen words entirely"})
		require.NoError(t, err)
		for _, v := range vecs[0] {
			assert.Zero(t, v)
		}
	})
}

func TestTokenize(t *testing.T) {
	t.Run("Han runs become bigrams", func(t *testing.T) {
		assert.Equal(t, []string{"般若", "若波", "波羅"}, tokenize("般若波羅"))
	})

	t.Run("Single Han character is kept", func(t *testing.T) {
		assert.Equal(t, []string{"佛"}, tokenize("佛"))
	})

	t.Run("Alphabetic words are lowercased", func(t *testing.T) {
		assert.Equal(t, []string{"heart", "sutra"}, tokenize("Heart Sutra"))
	})

	t.Run("Mixed runs are split at script boundaries", func(t *testing.T) {
		assert.Equal(t, []string{"心經", "heart"}, tokenize("心經 heart"))
	})

	t.Run("Punctuation and digits produce no tokens", func(t *testing.T) {
		assert.Empty(t, tokenize("。12345 ！"))
	})
}

func dot(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
