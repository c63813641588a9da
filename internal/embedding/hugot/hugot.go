package hugot

import (
	"fmt"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// DefaultModel is the multilingual sentence-transformers model used for
// Chinese canonical texts. The model directory must contain the exported
// ONNX weights and tokenizer files.
const DefaultModel = "sentence-transformers/paraphrase-multilingual-MiniLM-L12-v2"

// Encoder runs a local ONNX feature-extraction pipeline. Construction fails
// when the runtime or model cannot be loaded; callers treat that as
// "semantic search unavailable" rather than a fatal error.
type Encoder struct {
	session   *hugot.Session
	pipeline  *pipelines.FeatureExtractionPipeline
	modelPath string
	dimension int
}

// NewEncoder loads the feature-extraction pipeline from modelPath.
func NewEncoder(modelPath string) (*Encoder, error) {
	if modelPath == "" {
		modelPath = os.Getenv("CBETA_EMBED_MODEL_PATH")
	}
	if modelPath == "" {
		return nil, fmt.Errorf("hugot embedder: no model path configured")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("hugot embedder: model path: %w", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("create hugot session: %w", err)
	}
	cfg := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "cbeta-embedder",
	}
	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("create feature-extraction pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("create feature-extraction pipeline: %w", err)
	}
	return &Encoder{session: session, pipeline: pipeline, modelPath: modelPath}, nil
}

func (e *Encoder) Name() string { return "hugot" }

// Dimension reports the vector width, known after the first Encode call.
func (e *Encoder) Dimension() int { return e.dimension }

// Encode produces one embedding per input text.
func (e *Encoder) Encode(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	result, err := e.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("run embedding pipeline: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d for %d texts", len(result.Embeddings), len(texts))
	}
	if e.dimension == 0 && len(result.Embeddings[0]) > 0 {
		e.dimension = len(result.Embeddings[0])
	}
	return result.Embeddings, nil
}

// Close releases the underlying ONNX session.
func (e *Encoder) Close() error {
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}
