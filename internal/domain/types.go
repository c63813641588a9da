package domain

// Document is a single canonical text loaded from the corpus directory.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Paragraph is a trimmed, non-empty unit of a document body used as the
// retrieval grain. Paragraphs are derived at index time and never mutated.
type Paragraph struct {
	ID      string
	DocID   string
	Title   string
	Content string
	Index   int
}

// MatchType classifies how a keyword-mode result matched the query.
type MatchType string

const (
	MatchFull    MatchType = "full"
	MatchPartial MatchType = "partial"
)

// QueryResult is a single ranked paragraph. Score is set in embedding mode;
// MatchType and MatchedWords are set in keyword mode.
type QueryResult struct {
	Paragraph    Paragraph
	Score        float64
	MatchType    MatchType
	MatchedWords int
}

// Passage is the outward-facing result shape: the paragraph text plus a
// formatted citation identifying its source.
type Passage struct {
	Content   string
	Reference string
}

// SearchResult pairs a paragraph with a similarity score, as returned by a
// vector store.
type SearchResult struct {
	Paragraph Paragraph
	Score     float64
}

// Embedder converts free text into fixed-dimension vectors. The same
// implementation encodes corpus paragraphs and queries.
type Embedder interface {
	Name() string
	Dimension() int
	Encode(texts []string) ([][]float32, error)
}

// VectorStore holds paragraph vectors and answers similarity queries.
type VectorStore interface {
	Init(dimension int) error
	Upsert(paragraphs []Paragraph, vectors [][]float32) error
	Search(vector []float32, topK int) ([]SearchResult, error)
	Clear() error
}

// Searcher defines the query operations exposed by the retrieval engine.
type Searcher interface {
	Search(query string, topK int) []QueryResult
	SearchPassages(query string, topK int) []Passage
}
