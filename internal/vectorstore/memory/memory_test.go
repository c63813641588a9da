package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cbeta-search/internal/domain"
)

func para(id string) domain.Paragraph {
	return domain.Paragraph{ID: id, DocID: "T01", Content: id}
}

func TestStorage(t *testing.T) {
	t.Run("Init rejects invalid dimension", func(t *testing.T) {
		s := NewStorage()
		assert.Error(t, s.Init(0))
		assert.Error(t, s.Init(-3))
		assert.NoError(t, s.Init(4))
	})

	t.Run("Upsert validates lengths and dimensions", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(2))
		assert.Error(t, s.Upsert([]domain.Paragraph{para("a")}, nil))
		assert.Error(t, s.Upsert([]domain.Paragraph{para("a")}, [][]float32{{1, 2, 3}}))
		assert.NoError(t, s.Upsert([]domain.Paragraph{para("a")}, [][]float32{{1, 2}}))
	})

	t.Run("Search ranks by cosine similarity", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(2))
		require.NoError(t, s.Upsert(
			[]domain.Paragraph{para("x"), para("y"), para("z")},
			[][]float32{{1, 0}, {0, 1}, {1, 1}},
		))
		got, err := s.Search([]float32{1, 0}, 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "x", got[0].Paragraph.ID)
		assert.InDelta(t, 1.0, got[0].Score, 1e-6)
		assert.Equal(t, "z", got[1].Paragraph.ID)
		assert.Equal(t, "y", got[2].Paragraph.ID)
	})

	t.Run("Ties keep insertion order", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(2))
		require.NoError(t, s.Upsert(
			[]domain.Paragraph{para("first"), para("second")},
			[][]float32{{2, 0}, {3, 0}},
		))
		got, err := s.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Paragraph.ID)
		assert.Equal(t, "second", got[1].Paragraph.ID)
	})

	t.Run("TopK truncates and zero topK defaults", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(1))
		paras := []domain.Paragraph{para("a"), para("b"), para("c")}
		require.NoError(t, s.Upsert(paras, [][]float32{{1}, {2}, {3}}))
		got, err := s.Search([]float32{1}, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		got, err = s.Search([]float32{1}, 0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("Zero-norm vectors score lowest without NaN", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(2))
		require.NoError(t, s.Upsert(
			[]domain.Paragraph{para("zero"), para("unit")},
			[][]float32{{0, 0}, {1, 0}},
		))
		got, err := s.Search([]float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "unit", got[0].Paragraph.ID)
		assert.Equal(t, -1.0, got[1].Score)

		got, err = s.Search([]float32{0, 0}, 2)
		require.NoError(t, err)
		for _, r := range got {
			assert.False(t, math.IsNaN(r.Score))
			assert.Equal(t, -1.0, r.Score)
		}
	})

	t.Run("Query dimension mismatch is an error", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(2))
		_, err := s.Search([]float32{1}, 1)
		assert.Error(t, err)
	})

	t.Run("Clear empties the store", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.Init(1))
		require.NoError(t, s.Upsert([]domain.Paragraph{para("a")}, [][]float32{{1}}))
		require.NoError(t, s.Clear())
		got, err := s.Search([]float32{1}, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
