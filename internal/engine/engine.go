// Package engine implements the corpus retrieval engine: it segments loaded
// documents into paragraphs, optionally builds a dense embedding index, and
// answers top-k queries with an automatic keyword fallback.
package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"cbeta-search/internal/citation"
	"cbeta-search/internal/domain"
	"cbeta-search/internal/segmenter"
)

// Mode reports which search path the engine uses.
type Mode int

const (
	// ModeKeyword is exact/partial substring matching over paragraphs.
	ModeKeyword Mode = iota
	// ModeEmbedding ranks paragraphs by cosine similarity of embeddings.
	ModeEmbedding
)

func (m Mode) String() string {
	if m == ModeEmbedding {
		return "embedding"
	}
	return "keyword"
}

// DefaultTopK is the number of passages returned when the caller does not
// ask for a specific count.
const DefaultTopK = 3

// Options configures an Engine. A nil Embedder or Store means keyword-only
// operation.
type Options struct {
	Embedder  domain.Embedder
	Store     domain.VectorStore
	BatchSize int
	Citation  citation.Formatter
}

// corpusFitter is implemented by embedders that need a pass over the corpus
// before they can encode (e.g. TF-IDF).
type corpusFitter interface {
	Fit(corpus []string) error
}

// Engine is built once over an immutable corpus and is then safe for
// concurrent queries without locking.
type Engine struct {
	docs       []domain.Document
	paragraphs []domain.Paragraph
	embedder   domain.Embedder
	store      domain.VectorStore
	batchSize  int
	formatter  citation.Formatter
	mode       Mode
}

// New creates an engine over the given documents. Call Index before Search.
func New(docs []domain.Document, opts Options) *Engine {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = 32
	}
	formatter := opts.Citation
	if formatter.URLTemplate == "" {
		formatter = citation.NewFormatter()
	}
	return &Engine{
		docs:      docs,
		embedder:  opts.Embedder,
		store:     opts.Store,
		batchSize: batch,
		formatter: formatter,
	}
}

// Index segments the corpus and, when an embedding backend is configured,
// encodes every paragraph into the vector store. Any failure on the
// embedding side demotes the engine to keyword mode for its lifetime;
// segmentation itself cannot fail, so Index always leaves the engine usable.
func (e *Engine) Index() error {
	e.paragraphs = segmenter.All(e.docs)
	slog.Info("corpus segmented", "documents", len(e.docs), "paragraphs", len(e.paragraphs))

	e.mode = ModeKeyword
	if e.embedder == nil || e.store == nil || len(e.paragraphs) == 0 {
		if len(e.paragraphs) > 0 {
			slog.Info("no embedding backend configured, using keyword search")
		}
		return nil
	}
	if err := e.buildEmbeddingIndex(); err != nil {
		slog.Warn("embedding index unavailable, falling back to keyword search", "error", err)
		return nil
	}
	e.mode = ModeEmbedding
	slog.Info("embedding index built", "paragraphs", len(e.paragraphs), "embedder", e.embedder.Name())
	return nil
}

func (e *Engine) buildEmbeddingIndex() error {
	contents := make([]string, len(e.paragraphs))
	for i, p := range e.paragraphs {
		contents[i] = p.Content
	}
	if fitter, ok := e.embedder.(corpusFitter); ok {
		if err := fitter.Fit(contents); err != nil {
			return fmt.Errorf("fit embedder: %w", err)
		}
	}

	vectors := make([][]float32, 0, len(contents))
	for start := 0; start < len(contents); start += e.batchSize {
		end := start + e.batchSize
		if end > len(contents) {
			end = len(contents)
		}
		batch, err := e.embedder.Encode(contents[start:end])
		if err != nil {
			return fmt.Errorf("encode paragraphs %d..%d: %w", start, end, err)
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return fmt.Errorf("embedder produced no vectors")
	}
	if err := e.store.Clear(); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	if err := e.store.Init(len(vectors[0])); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := e.store.Upsert(e.paragraphs, vectors); err != nil {
		return fmt.Errorf("upsert vectors: %w", err)
	}
	return nil
}

// Mode reports the active search mode.
func (e *Engine) Mode() Mode { return e.mode }

// Paragraphs returns the segmented corpus in index order.
func (e *Engine) Paragraphs() []domain.Paragraph { return e.paragraphs }

// Documents returns the loaded corpus documents.
func (e *Engine) Documents() []domain.Document { return e.docs }

// Search returns the topK most relevant paragraphs for the query. It never
// fails: an embedding error at query time is logged and answered through the
// keyword path for that query only, and a query matching nothing returns an
// empty slice.
func (e *Engine) Search(query string, topK int) []domain.QueryResult {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if e.mode == ModeEmbedding {
		results, err := e.searchByEmbedding(query, topK)
		if err == nil {
			return results
		}
		slog.Warn("embedding search failed, using keyword search for this query", "error", err)
	}
	return e.searchByKeywords(query, topK)
}

func (e *Engine) searchByEmbedding(query string, topK int) ([]domain.QueryResult, error) {
	vectors, err := e.embedder.Encode([]string{query})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no query embedding returned")
	}
	hits, err := e.store.Search(vectors[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	results := make([]domain.QueryResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.QueryResult{Paragraph: hit.Paragraph, Score: hit.Score})
	}
	return results, nil
}

// SearchPassages is the contract consumed by the conversational layer: free
// text in, citeable passages out.
func (e *Engine) SearchPassages(query string, topK int) []domain.Passage {
	results := e.Search(query, topK)
	passages := make([]domain.Passage, 0, len(results))
	for _, r := range results {
		passages = append(passages, domain.Passage{
			Content:   r.Paragraph.Content,
			Reference: e.formatter.Format(r.Paragraph, e.docs),
		})
	}
	return passages
}

// NotFoundMessage is the user-facing reply for queries with no results.
const NotFoundMessage = "未找到相關經文。請嘗試使用不同的關鍵詞或更通用的描述。"

// FormatPassages renders passages as numbered scripture blocks with their
// citations, separated by horizontal rules.
func FormatPassages(passages []domain.Passage) string {
	if len(passages) == 0 {
		return NotFoundMessage
	}
	blocks := make([]string, 0, len(passages))
	for i, p := range passages {
		blocks = append(blocks, fmt.Sprintf("【經文 %d】\n%s\n\n【出處】\n%s", i+1, p.Content, p.Reference))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
