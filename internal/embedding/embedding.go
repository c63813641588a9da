package embedding

import (
	"fmt"
	"time"

	"cbeta-search/internal/config"
	"cbeta-search/internal/domain"
	"cbeta-search/internal/embedding/hugot"
	"cbeta-search/internal/embedding/openai"
	"cbeta-search/internal/embedding/tfidf"
)

// New builds the embedder selected by the configuration. It returns
// (nil, nil) for type "none": the engine then runs in keyword mode.
// A construction error also means no semantic search; callers decide
// whether that degrades or aborts.
func New(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "hugot", "":
		modelPath := ""
		if cfg.Hugot != nil {
			modelPath = cfg.Hugot.ModelPath
		}
		return hugot.NewEncoder(modelPath)
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
		})
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
