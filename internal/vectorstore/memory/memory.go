package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/viterin/vek/vek32"

	"cbeta-search/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity
// over a dense matrix. Vector norms are precomputed at upsert time. After
// the index is built the store is only read, so the lock exists for the
// rebuild path, not for query traffic.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	norms     []float32
	rows      []domain.Paragraph
}

func NewStorage() *Storage { return &Storage{} }

func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.norms = nil
	s.rows = nil
	return nil
}

func (s *Storage) Upsert(paragraphs []domain.Paragraph, vectors [][]float32) error {
	if len(paragraphs) != len(vectors) {
		return errors.New("paragraphs and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.rows = append(s.rows, paragraphs...)
	s.vectors = append(s.vectors, vectors...)
	for _, v := range vectors {
		s.norms = append(s.norms, norm(v))
	}
	return nil
}

// Search ranks all stored vectors by cosine similarity to the query vector.
// Ties keep insertion order. A zero-norm vector on either side scores -1
// instead of producing NaN.
func (s *Storage) Search(vector []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(vector) != s.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	qnorm := norm(vector)
	scores := make([]float32, len(s.vectors))
	for i := range s.vectors {
		if qnorm == 0 || s.norms[i] == 0 {
			scores[i] = -1
			continue
		}
		scores[i] = vek32.Dot(s.vectors[i], vector) / (s.norms[i] * qnorm)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Paragraph: s.rows[j], Score: float64(scores[j])})
	}
	return results, nil
}

func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.norms = nil
	s.rows = nil
	return nil
}

func norm(v []float32) float32 {
	return float32(math.Sqrt(float64(vek32.Dot(v, v))))
}
